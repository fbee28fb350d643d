// Package tui drives the interactive history viewer: one bubbletea
// model owning the navigation state machine, the assembled version
// sequence, and the per-session render cache.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/WyattLamberth/garch/internal/config"
	"github.com/WyattLamberth/garch/internal/gitcmd"
	"github.com/WyattLamberth/garch/internal/history"
	"github.com/WyattLamberth/garch/internal/render"
)

const (
	chromeRows     = 4 // title, commit line, separator, status bar
	helpPanelRows  = 10
	statsPanelRows = 8
	promptRows     = 3 // bordered single-line input
)

// sessionResult delivers a finished (or failed) assembly together with
// the session that requested it; results from a stale session are
// discarded without touching state.
type sessionResult struct {
	session int
	hist    *history.History
	err     error
}

// Model represents the application state
type Model struct {
	cfg    *config.Config
	keys   keyMap
	styles *Styles
	runner *gitcmd.Runner

	session int
	req     history.Request
	hist    *history.History
	cache   *render.Cache
	nav     NavState

	loading bool
	spin    spinner.Model
	notice  string

	promptOpen  bool
	promptValue string

	showHelp  bool
	showStats bool

	width  int
	height int
}

// NewModel creates the viewer for an already-assembled history. Later
// file switches assemble inside the TUI; the first assembly happens
// before the alternate screen is entered so failures exit cleanly.
func NewModel(cfg *config.Config, runner *gitcmd.Runner, hist *history.History) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(cfg.Theme.TitleBg)

	m := Model{
		cfg:    cfg,
		keys:   newKeyMap(cfg.Keybindings),
		styles: createStyles(cfg.Theme),
		runner: runner,
		spin:   sp,
		width:  80,
		height: 24,
	}
	m.adoptHistory(hist)
	return m
}

// adoptHistory installs a freshly assembled sequence: a new cache, a
// new navigation state, nothing shared with the previous session.
func (m *Model) adoptHistory(hist *history.History) {
	m.hist = hist
	m.req = hist.Request

	renderer := &render.Renderer{
		Path:      hist.Request.Path,
		StartLine: hist.Request.StartLine,
		EndLine:   hist.Request.EndLine,
		Theme:     m.cfg.Theme,
	}
	m.cache = render.NewCache(renderer)

	counts := make([]int, hist.Len())
	for i := range hist.Versions {
		counts[i] = renderer.RowCount(hist.Version(i))
	}
	m.nav = NewNavState(counts, m.width, m.bodyHeight())
	m.notice = ""
	if n := len(hist.Skipped); n > 0 {
		m.notice = fmt.Sprintf("%d unreadable commit(s) skipped", n)
	}
}

func (m *Model) bodyHeight() int {
	h := m.height - chromeRows
	if m.showHelp {
		h -= helpPanelRows
	} else if m.showStats {
		h -= statsPanelRows
	}
	if m.promptOpen {
		h -= promptRows
	}
	if h < 1 {
		h = 1
	}
	return h
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// assembleCmd starts a background assembly for the given session.
func (m Model) assembleCmd(session int, req history.Request) tea.Cmd {
	assembler := &history.Assembler{Runner: m.runner, Workers: m.cfg.FetchWorkers}
	return func() tea.Msg {
		hist, err := assembler.Assemble(context.Background(), req)
		return sessionResult{session: session, hist: hist, err: err}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.promptOpen {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.nav.ScrollUp(m.cfg.MouseScroll)
		case tea.MouseButtonWheelDown:
			m.nav.ScrollDown(m.cfg.MouseScroll)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.nav.Resize(msg.Width, m.bodyHeight())
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case sessionResult:
		if msg.session != m.session {
			// A newer session superseded this assembly.
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		m.adoptHistory(msg.hist)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.nav.Quit()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		if m.showHelp {
			m.showStats = false
		}
		m.nav.Resize(m.width, m.bodyHeight())
	case key.Matches(msg, m.keys.Stats):
		m.showStats = !m.showStats
		if m.showStats {
			m.showHelp = false
		}
		m.nav.Resize(m.width, m.bodyHeight())
	case key.Matches(msg, m.keys.NextVersion):
		m.nav.NextVersion()
	case key.Matches(msg, m.keys.PrevVersion):
		m.nav.PrevVersion()
	case key.Matches(msg, m.keys.ScrollDown):
		m.nav.ScrollDown(m.cfg.ScrollStep)
	case key.Matches(msg, m.keys.ScrollUp):
		m.nav.ScrollUp(m.cfg.ScrollStep)
	case key.Matches(msg, m.keys.PageDown):
		m.nav.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.nav.PageUp()
	case key.Matches(msg, m.keys.Top):
		m.nav.JumpTop()
	case key.Matches(msg, m.keys.Bottom):
		m.nav.JumpBottom()
	case key.Matches(msg, m.keys.OpenFile):
		m.promptOpen = true
		m.promptValue = ""
		m.nav.Resize(m.width, m.bodyHeight())
	}
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.promptOpen = false
		m.nav.Resize(m.width, m.bodyHeight())
	case tea.KeyEnter:
		target := strings.TrimSpace(m.promptValue)
		m.promptOpen = false
		m.nav.Resize(m.width, m.bodyHeight())
		if target == "" {
			return m, nil
		}
		path, start, end := history.ParseTarget(target)
		req := history.Request{Path: path, StartLine: start, EndLine: end, Reverse: m.req.Reverse}
		m.session++
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.assembleCmd(m.session, req))
	case tea.KeyBackspace:
		if len(m.promptValue) > 0 {
			runes := []rune(m.promptValue)
			m.promptValue = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		m.promptValue += " "
	case tea.KeyRunes:
		m.promptValue += string(msg.Runes)
	}
	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s assembling history…\n", m.spin.View())
	}
	if m.hist == nil || m.hist.Len() == 0 {
		return "No history to display\n"
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.styles.separator.Render(strings.Repeat("─", max(1, m.width))))
	sections = append(sections, m.renderBody())
	if m.showHelp {
		sections = append(sections, m.renderHelpPanel())
	} else if m.showStats {
		sections = append(sections, m.renderStatsPanel())
	}
	sections = append(sections, m.renderStatusBar())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.promptOpen {
		content = lipgloss.JoinVertical(lipgloss.Left, content, m.renderPrompt())
	}
	return content
}

func (m Model) currentVersion() *history.FileVersion {
	return m.hist.Version(m.nav.Index())
}

func (m Model) renderHeader() string {
	v := m.currentVersion()

	target := m.req.Path
	if !m.req.WholeFile() {
		target = fmt.Sprintf("%s:%d-%d", m.req.Path, m.req.StartLine, m.req.EndLine)
	}
	title := m.styles.title.Render(fmt.Sprintf("garch: %s (version %d of %d)",
		target, m.nav.Index()+1, m.hist.Len()))

	sub := m.styles.subtitle.Render(fmt.Sprintf("%s  %s  %s  %s",
		v.Commit.ShortHash(),
		v.Commit.Date.Format("2006-01-02"),
		v.Commit.Author,
		v.Commit.Message))

	return lipgloss.JoinVertical(lipgloss.Left, title, sub)
}

func (m Model) renderBody() string {
	rendered := m.cache.GetOrCompute(m.currentVersion())

	start := m.nav.Scroll()
	end := min(start+m.nav.Height(), len(rendered.Lines))
	if start > end {
		start = end
	}

	clip := lipgloss.NewStyle().MaxWidth(max(1, m.width))
	rows := make([]string, 0, m.nav.Height())
	for _, line := range rendered.Lines[start:end] {
		rows = append(rows, clip.Render(line))
	}
	for len(rows) < m.nav.Height() {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderStatusBar() string {
	total := len(m.cache.GetOrCompute(m.currentVersion()).Lines)

	status := fmt.Sprintf("Version %d/%d | Pos %d/%d | %s/%s versions  %s/%s scroll  %s stats  %s help  %s quit",
		m.nav.Index()+1, m.hist.Len(),
		min(m.nav.Scroll()+1, total), total,
		m.keys.PrevVersion.Help().Key, m.keys.NextVersion.Help().Key,
		m.keys.ScrollUp.Help().Key, m.keys.ScrollDown.Help().Key,
		m.keys.Stats.Help().Key, m.keys.Help.Help().Key, m.keys.Quit.Help().Key)
	if m.notice != "" {
		status += " | " + m.notice
	}

	return m.styles.statusBar.Width(max(1, m.width)).Render(status)
}

// renderHelpPanel renders the help panel below the main view
func (m Model) renderHelpPanel() string {
	helpText := []string{
		"Keyboard Shortcuts:",
		"  ←/H, →/l         Step between versions (scroll resets)",
		"  j/↓, k/↑         Scroll within a version",
		"  d/pgdn, u/pgup   Page down / up",
		"  g/home, G/end    Jump to top / bottom",
		"  o                Open another file or range",
		"  s                Toggle statistics   ?/h  Toggle this help",
		"  q                Quit",
	}

	return m.styles.panel.Width(max(10, m.width-2)).
		Render(m.styles.help.Render(strings.Join(helpText, "\n")))
}

// renderStatsPanel renders per-version change and authorship counts.
func (m Model) renderStatsPanel() string {
	v := m.currentVersion()
	added, removed, modified := v.ChangeStats()

	owners := make(map[string]int)
	for _, l := range v.BlameLines {
		owners[l.Author]++
	}
	var authors []string
	for author, n := range owners {
		authors = append(authors, fmt.Sprintf("%s: %d", render.AbbreviateAuthor(author), n))
	}
	sort.Strings(authors)

	statsText := []string{
		"Version Statistics",
		fmt.Sprintf("Commit %s by %s", v.Commit.ShortHash(), v.Commit.Author),
		fmt.Sprintf("Lines: %d  |  Added: %d  Removed: %d  Modified: %d",
			len(v.BlameLines), added, removed, modified),
		"Ownership: " + strings.Join(authors, "  "),
	}
	if n := len(m.hist.Skipped); n > 0 {
		statsText = append(statsText, fmt.Sprintf("Skipped commits: %d (unreadable blame or diff)", n))
	}

	return m.styles.panel.Width(max(10, m.width-2)).
		Render(m.styles.help.Render(strings.Join(statsText, "\n")))
}

func (m Model) renderPrompt() string {
	label := "Open file (path or path:start-end):"
	return m.styles.prompt.Width(max(10, m.width-2)).
		Render(label + " " + m.promptValue + "█")
}

// SkippedSummary lists the commits dropped during assembly, for
// printing after the alternate screen is torn down.
func (m Model) SkippedSummary() []string {
	if m.hist == nil {
		return nil
	}
	var lines []string
	for _, s := range m.hist.Skipped {
		lines = append(lines, fmt.Sprintf("skipped %s (%s): %v",
			s.Commit.ShortHash(), s.Commit.Date.Format("2006-01-02"), s.Reason))
	}
	return lines
}
