package config

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, PresetDefault, cfg.ThemePreset)
	assert.Equal(t, 1, cfg.ScrollStep)
	assert.Equal(t, 3, cfg.MouseScroll)
	assert.Equal(t, 1, cfg.FetchWorkers)
	assert.Equal(t, DefaultTheme(), cfg.Theme)
	assert.NotEmpty(t, cfg.Keybindings["quit"])
}

func TestMergeKeybindingsOverlaysDefaults(t *testing.T) {
	merged := MergeKeybindings(Keybindings{
		"quit":         {"x"},
		"toggle_stats": nil,
		"custom":       {"ctrl+z"},
	})

	assert.Equal(t, []string{"x"}, merged["quit"])
	// An empty override never erases a default binding.
	assert.Equal(t, []string{"s"}, merged["toggle_stats"])
	assert.Equal(t, []string{"ctrl+z"}, merged["custom"])
	assert.Equal(t, []string{"j", "down"}, merged["scroll_down"])
}

func TestThemeForPresetKnownNames(t *testing.T) {
	assert.Equal(t, DefaultTheme(), ThemeForPreset(PresetDefault, false))
	assert.Equal(t, lipgloss.Color("#859900"), ThemeForPreset(PresetSolarize, false).AddedFg)
	assert.Equal(t, lipgloss.Color("#50FA7B"), ThemeForPreset(PresetDracula, false).AddedFg)
}

func TestThemeForPresetUnknownFallsBack(t *testing.T) {
	assert.Equal(t, DefaultTheme(), ThemeForPreset("no-such-preset", false))
}

func TestHighContrastBrightens(t *testing.T) {
	plain := ThemeForPreset(PresetSolarize, false)
	bright := ThemeForPreset(PresetSolarize, true)

	assert.NotEqual(t, plain.AddedFg, bright.AddedFg)
	// Full white cannot get brighter.
	require.Equal(t, lipgloss.Color("#FFFFFF"), ThemeForPreset(PresetDefault, false).TitleFg)
	assert.Equal(t, lipgloss.Color("#ffffff"), ThemeForPreset(PresetDefault, true).TitleFg)
}

func TestAdjustBrightnessClampsAndValidates(t *testing.T) {
	assert.Equal(t, "#ffffff", adjustBrightness("#FFFFFF", 0.2))
	assert.Equal(t, "not-a-color", adjustBrightness("not-a-color", 0.2))
	assert.Equal(t, "#0000c8", adjustBrightness("#0000a0", 0.25))
}
