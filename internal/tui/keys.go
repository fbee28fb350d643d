package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/WyattLamberth/garch/internal/config"
)

// keyMap binds semantic actions to configured key sequences.
type keyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Stats       key.Binding
	NextVersion key.Binding
	PrevVersion key.Binding
	ScrollDown  key.Binding
	ScrollUp    key.Binding
	PageDown    key.Binding
	PageUp      key.Binding
	Top         key.Binding
	Bottom      key.Binding
	OpenFile    key.Binding
}

func newKeyMap(kb config.Keybindings) keyMap {
	bind := func(action, help string) key.Binding {
		keys := kb[action]
		if len(keys) == 0 {
			keys = config.DefaultKeybindings()[action]
		}
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
	}

	return keyMap{
		Quit:        bind("quit", "quit"),
		Help:        bind("toggle_help", "help"),
		Stats:       bind("toggle_stats", "stats"),
		NextVersion: bind("next_version", "newer version"),
		PrevVersion: bind("prev_version", "older version"),
		ScrollDown:  bind("scroll_down", "scroll down"),
		ScrollUp:    bind("scroll_up", "scroll up"),
		PageDown:    bind("page_down", "page down"),
		PageUp:      bind("page_up", "page up"),
		Top:         bind("go_top", "top"),
		Bottom:      bind("go_bottom", "bottom"),
		OpenFile:    bind("open_file", "open file"),
	}
}
