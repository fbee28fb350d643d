package tui

// NavState is the navigation state machine for one session: which
// version is selected, how far it is scrolled, and the viewport size.
// It performs no I/O; every transition clamps, so the index can never
// leave [0, N-1] and the scroll offset can never pass the content.
type NavState struct {
	lineCounts []int // rendered line count per version, fixed per session
	index      int
	scroll     int
	width      int
	height     int
	done       bool
}

// NewNavState starts at version 0 with no scroll. The assembled
// sequence is already in presentation order, so index 0 is "start"
// for both ascending and reverse sessions.
func NewNavState(lineCounts []int, width, height int) NavState {
	if height < 1 {
		height = 1
	}
	if width < 1 {
		width = 1
	}
	return NavState{lineCounts: lineCounts, width: width, height: height}
}

// Index returns the selected version index.
func (s *NavState) Index() int { return s.index }

// Scroll returns the current scroll offset.
func (s *NavState) Scroll() int { return s.scroll }

// Width returns the viewport width.
func (s *NavState) Width() int { return s.width }

// Height returns the viewport height.
func (s *NavState) Height() int { return s.height }

// Done reports whether the session has ended; after Quit every
// transition is a no-op.
func (s *NavState) Done() bool { return s.done }

// VersionCount returns the number of navigable versions.
func (s *NavState) VersionCount() int { return len(s.lineCounts) }

// MaxScroll returns the largest valid scroll offset for the selected
// version's content.
func (s *NavState) MaxScroll() int {
	if len(s.lineCounts) == 0 {
		return 0
	}
	return max(0, s.lineCounts[s.index]-s.height)
}

// NextVersion selects the following version. Content length varies
// per version, so the scroll offset always resets to the top.
func (s *NavState) NextVersion() {
	if s.done {
		return
	}
	if s.index < len(s.lineCounts)-1 {
		s.index++
	}
	s.scroll = 0
}

// PrevVersion selects the preceding version, resetting scroll.
func (s *NavState) PrevVersion() {
	if s.done {
		return
	}
	if s.index > 0 {
		s.index--
	}
	s.scroll = 0
}

// ScrollDown moves the viewport down by n lines, clamped to the end
// of the content.
func (s *NavState) ScrollDown(n int) {
	if s.done || n <= 0 {
		return
	}
	s.scroll = min(s.scroll+n, s.MaxScroll())
}

// ScrollUp moves the viewport up by n lines, clamped to the top.
func (s *NavState) ScrollUp(n int) {
	if s.done || n <= 0 {
		return
	}
	s.scroll = max(0, s.scroll-n)
}

// PageDown scrolls by one viewport height.
func (s *NavState) PageDown() { s.ScrollDown(s.height) }

// PageUp scrolls back by one viewport height.
func (s *NavState) PageUp() { s.ScrollUp(s.height) }

// JumpTop scrolls to the first line.
func (s *NavState) JumpTop() {
	if s.done {
		return
	}
	s.scroll = 0
}

// JumpBottom scrolls to the last page of content.
func (s *NavState) JumpBottom() {
	if s.done {
		return
	}
	s.scroll = s.MaxScroll()
}

// Resize updates the viewport dimensions and re-clamps the scroll
// offset against the possibly smaller window.
func (s *NavState) Resize(width, height int) {
	if s.done {
		return
	}
	if width >= 1 {
		s.width = width
	}
	if height >= 1 {
		s.height = height
	}
	s.scroll = min(s.scroll, s.MaxScroll())
}

// Quit ends the session.
func (s *NavState) Quit() {
	s.done = true
}
