// Package render turns assembled file versions into drawable styled
// lines and memoizes them per commit for the lifetime of one session.
package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-enry/go-enry/v2"
	"golang.org/x/sync/singleflight"

	"github.com/WyattLamberth/garch/internal/config"
	"github.com/WyattLamberth/garch/internal/history"
)

// Highlighter styles raw content for a detected language. It must be a
// pure function of its inputs. The default keeps content unstyled;
// syntax highlighting plugs in here.
type Highlighter func(content, language string) string

// Rendered is the drawable form of one file version.
type Rendered struct {
	// Lines are fully styled rows, one per visible blame line (plus an
	// author header row wherever the author changes).
	Lines []string
	// Language is the detected file-type tag fed to the highlighter.
	Language string
}

// Renderer computes drawable content for versions of one file.
type Renderer struct {
	Path      string
	StartLine int
	EndLine   int
	Theme     config.Theme
	Highlight Highlighter
}

// Cache memoizes Renderer output keyed by commit hash. Commit hashes
// are content-addressed, so entries are never invalidated; the cache
// is simply discarded with its session. Concurrent requests for the
// same commit coalesce into a single computation, and an entry is only
// published once it is fully formed.
type Cache struct {
	renderer *Renderer

	mu      sync.RWMutex
	entries map[string]*Rendered
	group   singleflight.Group
}

// NewCache returns an empty cache for one navigation session.
func NewCache(r *Renderer) *Cache {
	return &Cache{
		renderer: r,
		entries:  make(map[string]*Rendered),
	}
}

// GetOrCompute returns the drawable content for a version, computing
// it at most once per commit hash.
func (c *Cache) GetOrCompute(v *history.FileVersion) *Rendered {
	c.mu.RLock()
	entry, ok := c.entries[v.Commit.Hash]
	c.mu.RUnlock()
	if ok {
		return entry
	}

	out, _, _ := c.group.Do(v.Commit.Hash, func() (any, error) {
		rendered := c.renderer.Render(v)
		c.mu.Lock()
		c.entries[v.Commit.Hash] = rendered
		c.mu.Unlock()
		return rendered, nil
	})
	return out.(*Rendered)
}

// Len reports how many versions have been rendered so far.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Render produces the styled rows for one version: an author header
// whenever authorship changes, then a gutter with line number and a
// change marker, then the (optionally highlighted) content.
func (r *Renderer) Render(v *history.FileVersion) *Rendered {
	end := r.EndLine
	if end <= 0 {
		end = len(v.BlameLines)
	}
	lines := v.LinesIn(r.StartLine, end)

	language := detectLanguage(r.Path, lines)
	highlight := r.Highlight
	if highlight == nil {
		highlight = func(content, _ string) string { return content }
	}

	changed := make(map[int]history.LineChange, len(v.Changes))
	for _, ch := range v.Changes {
		if ch.Type != history.Context {
			changed[ch.LineNumber] = ch
		}
	}

	gutterStyle := lipgloss.NewStyle().Foreground(r.Theme.LineNumberFg)
	contentStyle := lipgloss.NewStyle().Foreground(r.Theme.UnchangedFg)
	addedStyle := lipgloss.NewStyle().Foreground(r.Theme.AddedFg)
	modifiedStyle := lipgloss.NewStyle().Foreground(r.Theme.ModifiedFg)
	hintStyle := lipgloss.NewStyle().Foreground(r.Theme.HelpFg).Italic(true)

	var (
		rows       []string
		lastAuthor string
	)
	for _, line := range lines {
		if line.Author != lastAuthor {
			lastAuthor = line.Author
			authorStyle := lipgloss.NewStyle().Foreground(AuthorColor(line.Author)).Bold(true)
			header := authorStyle.Render("┌─ "+AbbreviateAuthor(line.Author)) +
				gutterStyle.Render(fmt.Sprintf(" (%s) %s", line.Date.Format("2006-01-02"), line.CommitHash[:min(7, len(line.CommitHash))]))
			rows = append(rows, header)
		}

		marker := " "
		style := contentStyle
		hint := ""
		if ch, ok := changed[line.LineNumber]; ok {
			switch ch.Type {
			case history.Added:
				marker = "+"
				style = addedStyle
			case history.Modified:
				marker = "~"
				style = modifiedStyle
				hint = hintStyle.Render("  ⟵ was: " + ch.PrevContent)
			}
		}

		gutter := gutterStyle.Render(fmt.Sprintf("│ %4d %s │ ", line.LineNumber, marker))
		rows = append(rows, gutter+style.Render(highlight(line.Content, language))+hint)
	}

	return &Rendered{Lines: rows, Language: language}
}

// RowCount reports how many rows Render will produce for a version,
// without styling anything. Navigation needs the counts up front to
// clamp scrolling, before the versions are ever rendered.
func (r *Renderer) RowCount(v *history.FileVersion) int {
	end := r.EndLine
	if end <= 0 {
		end = len(v.BlameLines)
	}

	var (
		rows       int
		lastAuthor string
	)
	for _, line := range v.LinesIn(r.StartLine, end) {
		if line.Author != lastAuthor {
			lastAuthor = line.Author
			rows++
		}
		rows++
	}
	return rows
}

// detectLanguage resolves the file-type tag from the filename and a
// sample of the content.
func detectLanguage(path string, lines []history.BlameLine) string {
	var sample strings.Builder
	for i, l := range lines {
		if i >= 64 {
			break
		}
		sample.WriteString(l.Content)
		sample.WriteByte('\n')
	}
	return enry.GetLanguage(filepath.Base(path), []byte(sample.String()))
}
