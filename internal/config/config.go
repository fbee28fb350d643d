package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration
type Config struct {
	ThemePreset  ThemePreset `toml:"theme"`
	HighContrast bool        `toml:"high_contrast"`
	ScrollStep   int         `toml:"scroll_step"`
	MouseScroll  int         `toml:"mouse_scroll"`
	// FetchWorkers bounds concurrent history fetches; 1 keeps them
	// strictly sequential.
	FetchWorkers int         `toml:"fetch_workers"`
	Keybindings  Keybindings `toml:"keybindings"`

	Theme Theme `toml:"-"`
}

// ThemePreset describes a named theme configuration.
type ThemePreset string

const (
	PresetDefault  ThemePreset = "default"
	PresetSolarize ThemePreset = "solarized"
	PresetDracula  ThemePreset = "dracula"
)

// Keybindings maps semantic actions to one or more key sequences.
type Keybindings map[string][]string

// Theme defines the color scheme for the application
type Theme struct {
	AddedFg      lipgloss.Color
	RemovedFg    lipgloss.Color
	ModifiedFg   lipgloss.Color
	UnchangedFg  lipgloss.Color
	LineNumberFg lipgloss.Color
	BorderFg     lipgloss.Color
	TitleFg      lipgloss.Color
	TitleBg      lipgloss.Color
	HelpFg       lipgloss.Color
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ThemePreset:  PresetDefault,
		Theme:        ThemeForPreset(PresetDefault, false),
		HighContrast: false,
		ScrollStep:   1,
		MouseScroll:  3,
		FetchWorkers: 1,
		Keybindings:  DefaultKeybindings(),
	}
}

func configPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "garch.toml"), nil
}

// Load reads the user config file, falling back to defaults when it is
// missing. A missing file is created best-effort with the defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := configPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			_ = cfg.Save()
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg.Keybindings = MergeKeybindings(cfg.Keybindings)
	if cfg.ScrollStep < 1 {
		cfg.ScrollStep = 1
	}
	if cfg.MouseScroll < 1 {
		cfg.MouseScroll = 1
	}
	if cfg.FetchWorkers < 1 {
		cfg.FetchWorkers = 1
	}
	cfg.Theme = ThemeForPreset(cfg.ThemePreset, cfg.HighContrast)

	return cfg, nil
}

// Save writes the configuration back to the user config file.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultTheme returns the default color theme
func DefaultTheme() Theme {
	return Theme{
		AddedFg:      lipgloss.Color("#A8E6A3"),
		RemovedFg:    lipgloss.Color("#E6A3A3"),
		ModifiedFg:   lipgloss.Color("#E6D7A3"),
		UnchangedFg:  lipgloss.Color("#B0B0B0"),
		LineNumberFg: lipgloss.Color("#666666"),
		BorderFg:     lipgloss.Color("#3A3A3A"),
		TitleFg:      lipgloss.Color("#FFFFFF"),
		TitleBg:      lipgloss.Color("#5F5FAF"),
		HelpFg:       lipgloss.Color("#888888"),
	}
}

// ThemeForPreset resolves a preset name to a concrete Theme, optionally
// applying a high-contrast variation.
func ThemeForPreset(preset ThemePreset, highContrast bool) Theme {
	switch preset {
	case PresetSolarize:
		return applyContrast(Theme{
			AddedFg:      lipgloss.Color("#859900"),
			RemovedFg:    lipgloss.Color("#DC322F"),
			ModifiedFg:   lipgloss.Color("#B58900"),
			UnchangedFg:  lipgloss.Color("#93A1A1"),
			LineNumberFg: lipgloss.Color("#586E75"),
			BorderFg:     lipgloss.Color("#657B83"),
			TitleFg:      lipgloss.Color("#EEE8D5"),
			TitleBg:      lipgloss.Color("#586E75"),
			HelpFg:       lipgloss.Color("#93A1A1"),
		}, highContrast)
	case PresetDracula:
		return applyContrast(Theme{
			AddedFg:      lipgloss.Color("#50FA7B"),
			RemovedFg:    lipgloss.Color("#FF79C6"),
			ModifiedFg:   lipgloss.Color("#F1FA8C"),
			UnchangedFg:  lipgloss.Color("#F8F8F2"),
			LineNumberFg: lipgloss.Color("#6272A4"),
			BorderFg:     lipgloss.Color("#44475A"),
			TitleFg:      lipgloss.Color("#F8F8F2"),
			TitleBg:      lipgloss.Color("#6272A4"),
			HelpFg:       lipgloss.Color("#BD93F9"),
		}, highContrast)
	default:
		return applyContrast(DefaultTheme(), highContrast)
	}
}

// DefaultKeybindings returns the built-in keybinding map.
func DefaultKeybindings() Keybindings {
	return Keybindings{
		"quit":         {"q", "ctrl+c"},
		"toggle_help":  {"?", "h"},
		"toggle_stats": {"s"},
		"next_version": {"right", "l"},
		"prev_version": {"left", "H"},
		"scroll_down":  {"j", "down"},
		"scroll_up":    {"k", "up"},
		"page_down":    {"pgdown", "d"},
		"page_up":      {"pgup", "u"},
		"go_top":       {"g", "home"},
		"go_bottom":    {"G", "end"},
		"open_file":    {"o"},
	}
}

// MergeKeybindings overlays user overrides onto defaults.
func MergeKeybindings(overrides Keybindings) Keybindings {
	defaults := DefaultKeybindings()
	for action, keys := range overrides {
		if len(keys) == 0 {
			continue
		}
		defaults[action] = keys
	}
	return defaults
}

func applyContrast(theme Theme, highContrast bool) Theme {
	if !highContrast {
		return theme
	}

	return Theme{
		AddedFg:      lipgloss.Color(adjustBrightness(string(theme.AddedFg), 0.25)),
		RemovedFg:    lipgloss.Color(adjustBrightness(string(theme.RemovedFg), 0.25)),
		ModifiedFg:   lipgloss.Color(adjustBrightness(string(theme.ModifiedFg), 0.25)),
		UnchangedFg:  lipgloss.Color(adjustBrightness(string(theme.UnchangedFg), 0.2)),
		LineNumberFg: lipgloss.Color(adjustBrightness(string(theme.LineNumberFg), 0.2)),
		BorderFg:     lipgloss.Color(adjustBrightness(string(theme.BorderFg), 0.2)),
		TitleFg:      lipgloss.Color(adjustBrightness(string(theme.TitleFg), 0.2)),
		TitleBg:      lipgloss.Color(adjustBrightness(string(theme.TitleBg), 0.2)),
		HelpFg:       lipgloss.Color(adjustBrightness(string(theme.HelpFg), 0.2)),
	}
}

func adjustBrightness(hex string, factor float64) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}

	var r, g, b int
	_, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b)
	if err != nil {
		return hex
	}

	boost := func(value int) int {
		adjusted := float64(value) * (1 + factor)
		if adjusted > 255 {
			adjusted = 255
		}
		return int(adjusted)
	}

	return fmt.Sprintf("#%02x%02x%02x", boost(r), boost(g), boost(b))
}
