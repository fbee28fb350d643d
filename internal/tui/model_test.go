package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WyattLamberth/garch/internal/config"
	"github.com/WyattLamberth/garch/internal/history"
)

func viewerHistory(lineCount int) *history.History {
	hash := strings.Repeat("ef", 20)
	v := history.FileVersion{
		Commit: history.CommitInfo{
			Hash:    hash,
			Date:    time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
			Author:  "Alice",
			Message: "initial",
		},
	}
	for i := 0; i < lineCount; i++ {
		v.BlameLines = append(v.BlameLines, history.BlameLine{
			LineNumber: i + 1,
			Author:     "Alice",
			Date:       v.Commit.Date,
			CommitHash: hash,
			Content:    fmt.Sprintf("line %d", i+1),
		})
	}
	return &history.History{
		Request:  history.Request{Path: "a.txt", StartLine: 1},
		Versions: []history.FileVersion{v},
	}
}

func pressKey(t *testing.T, m Model, r rune) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func viewHeight(m Model) int {
	return strings.Count(m.View(), "\n") + 1
}

func TestViewFitsTerminal(t *testing.T) {
	const width, height = 120, 40

	m := NewModel(config.DefaultConfig(), nil, viewerHistory(200))
	next, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	m = next.(Model)

	assert.LessOrEqual(t, viewHeight(m), height)

	m = pressKey(t, m, '?')
	assert.LessOrEqual(t, viewHeight(m), height, "help panel open")
	m = pressKey(t, m, '?')

	m = pressKey(t, m, 's')
	assert.LessOrEqual(t, viewHeight(m), height, "stats panel open")
	m = pressKey(t, m, 's')
}

func TestViewFitsTerminalWithPromptOpen(t *testing.T) {
	const width, height = 120, 40

	m := NewModel(config.DefaultConfig(), nil, viewerHistory(200))
	next, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	m = next.(Model)
	full := viewHeight(m)

	m = pressKey(t, m, 'o')
	require.True(t, m.promptOpen)
	assert.LessOrEqual(t, viewHeight(m), height)

	// Closing the prompt gives the rows back to the body.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = next.(Model)
	require.False(t, m.promptOpen)
	assert.Equal(t, full, viewHeight(m))
}

func TestPromptTypingAndCancel(t *testing.T) {
	m := NewModel(config.DefaultConfig(), nil, viewerHistory(5))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	m = pressKey(t, m, 'o')
	for _, r := range "b.txt" {
		m = pressKey(t, m, r)
	}
	assert.Equal(t, "b.txt", m.promptValue)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(Model)
	assert.Equal(t, "b.tx", m.promptValue)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = next.(Model)
	assert.False(t, m.promptOpen)
}
