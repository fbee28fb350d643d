package history

import (
	"time"
)

// CommitInfo identifies one commit that touched the target file.
type CommitInfo struct {
	Hash    string
	Date    time.Time
	Author  string
	Message string
}

// ShortHash returns the abbreviated commit hash used in headers and gutters.
func (c CommitInfo) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// BlameLine is the authorship record for a single physical line.
type BlameLine struct {
	LineNumber int // 1-based, contiguous within a version
	Author     string
	Date       time.Time
	CommitHash string
	Content    string
}

// ChangeType defines what happened to a line in a commit's diff.
type ChangeType int

const (
	Added ChangeType = iota
	Removed
	Modified
	Context
)

func (t ChangeType) String() string {
	switch t {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	case Context:
		return "context"
	default:
		return "unknown"
	}
}

// LineChange is one entry in a commit's diff against its predecessor.
type LineChange struct {
	LineNumber int
	Type       ChangeType
	Content    string
	// PrevContent holds the pre-change value, populated only for Modified.
	PrevContent string
}

// FileVersion is the complete snapshot of the file as of one commit:
// its content with per-line authorship, plus the changes that produced it.
// Versions are immutable once assembled.
type FileVersion struct {
	Commit     CommitInfo
	BlameLines []BlameLine
	// Changes is nil for the earliest version, which has no predecessor.
	Changes []LineChange
}

// ChangeStats counts the non-context change entries of this version.
func (v FileVersion) ChangeStats() (added, removed, modified int) {
	for _, c := range v.Changes {
		switch c.Type {
		case Added:
			added++
		case Removed:
			removed++
		case Modified:
			modified++
		}
	}
	return
}

// LinesIn returns the blame lines whose numbers fall inside [start, end].
// A version older than the requested range may cover only part of it,
// or none of it.
func (v FileVersion) LinesIn(start, end int) []BlameLine {
	if start <= 1 && end >= len(v.BlameLines) {
		return v.BlameLines
	}
	var lines []BlameLine
	for _, l := range v.BlameLines {
		if l.LineNumber >= start && l.LineNumber <= end {
			lines = append(lines, l)
		}
	}
	return lines
}

// SkippedCommit records a commit dropped from the sequence because its
// blame or diff data could not be retrieved or parsed.
type SkippedCommit struct {
	Commit CommitInfo
	Reason error
}

// Request describes one assembly: which path, which lines, which order.
type Request struct {
	Path      string
	StartLine int // 1 when tracing the whole file
	EndLine   int // 0 means "to the end of the file"
	Reverse   bool
}

// WholeFile reports whether the request covers the entire file rather
// than a line range.
func (r Request) WholeFile() bool {
	return r.StartLine <= 1 && r.EndLine <= 0
}

// History is the assembled, read-only version sequence for one session.
type History struct {
	Request  Request
	Versions []FileVersion
	Skipped  []SkippedCommit
}

// Len returns the number of assembled versions.
func (h *History) Len() int {
	return len(h.Versions)
}

// Version returns the version at index i.
func (h *History) Version(i int) *FileVersion {
	return &h.Versions[i]
}
