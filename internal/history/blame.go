package history

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrMalformedBlame reports blame output that does not follow the
// line-porcelain shape.
var ErrMalformedBlame = errors.New("malformed blame output")

// ParseBlame parses `git blame --line-porcelain` output into one
// BlameLine per physical line of the file.
//
// Each entry opens with a "<hash> <orig> <final>" header, carries its
// metadata as "key value" lines in whatever order git emits them, and
// closes with the tab-prefixed content line. A content line with no
// open header is malformed, as is a line-number sequence with gaps.
// A blank file yields an empty slice.
func ParseBlame(text string) ([]BlameLine, error) {
	var (
		lines   []BlameLine
		current *BlameLine
	)

	for _, raw := range splitLines(text) {
		if strings.HasPrefix(raw, "\t") {
			if current == nil {
				return nil, fmt.Errorf("%w: content line with no commit header", ErrMalformedBlame)
			}
			current.Content = sanitizeContent(raw[1:])
			lines = append(lines, *current)
			current = nil
			continue
		}

		if hash, lineNo, ok := parseEntryHeader(raw); ok {
			if current != nil {
				return nil, fmt.Errorf("%w: entry for line %d has no content line", ErrMalformedBlame, current.LineNumber)
			}
			current = &BlameLine{LineNumber: lineNo, CommitHash: hash}
			continue
		}

		if current == nil {
			// Stray metadata outside an entry; tolerate it.
			continue
		}

		// Metadata fields can appear in any order; unknown keys are
		// skipped rather than rejected.
		switch key, value, _ := strings.Cut(raw, " "); key {
		case "author":
			current.Author = value
		case "author-time":
			if ts, err := strconv.ParseInt(value, 10, 64); err == nil {
				current.Date = time.Unix(ts, 0).UTC()
			}
		}
	}

	if current != nil {
		return nil, fmt.Errorf("%w: entry for line %d has no content line", ErrMalformedBlame, current.LineNumber)
	}

	for i, l := range lines {
		if l.LineNumber != i+1 {
			return nil, fmt.Errorf("%w: expected line %d, got %d", ErrMalformedBlame, i+1, l.LineNumber)
		}
	}

	return lines, nil
}

// parseEntryHeader matches "<hash> <origLine> <finalLine> [<groupSize>]".
func parseEntryHeader(line string) (hash string, lineNo int, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 || len(fields) > 4 {
		return "", 0, false
	}
	if len(fields[0]) < 7 || !isHex(fields[0]) {
		return "", 0, false
	}
	if _, err := strconv.Atoi(fields[1]); err != nil {
		return "", 0, false
	}
	final, err := strconv.Atoi(fields[2])
	if err != nil || final < 1 {
		return "", 0, false
	}
	return fields[0], final, true
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// sanitizeContent replaces undecodable byte runs with U+FFFD so a line
// in a legacy encoding degrades instead of aborting the parse.
func sanitizeContent(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// splitLines splits on \n without producing a trailing empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
