package history

import (
	"strconv"
	"strings"
)

// ParseDiff parses the unified diff of one commit against its parent,
// scoped to a single file, into an ordered sequence of changes.
//
// A removal run immediately followed by an addition run is paired
// positionally: the first min(removed, added) entries become Modified
// records carrying both contents, the remainder stays pure Removed or
// Added. Context lines are kept as Context entries so line numbers stay
// anchored; they are never presented as changes. A diff with no hunk
// markers (a rename-only commit, say) yields an empty sequence.
func ParseDiff(text string) []LineChange {
	var (
		changes []LineChange
		inHunk  bool
		newLine int
		pending []string // removal run awaiting a pairing addition run
	)

	flush := func() {
		for _, content := range pending {
			changes = append(changes, LineChange{
				LineNumber: newLine + 1,
				Type:       Removed,
				Content:    content,
			})
		}
		pending = pending[:0]
	}

	for _, line := range splitLines(text) {
		if start, ok := parseHunkHeader(line); ok {
			flush()
			inHunk = true
			newLine = start - 1
			continue
		}
		if !inHunk {
			continue
		}
		// A second commit or file section ends the region of interest.
		if strings.HasPrefix(line, "commit ") || strings.HasPrefix(line, "diff --git") {
			break
		}

		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			// File headers inside show output carry no line data.
		case strings.HasPrefix(line, "\\"):
			// "\ No newline at end of file"
		case strings.HasPrefix(line, "-"):
			pending = append(pending, line[1:])
		case strings.HasPrefix(line, "+"):
			newLine++
			if len(pending) > 0 {
				changes = append(changes, LineChange{
					LineNumber:  newLine,
					Type:        Modified,
					Content:     line[1:],
					PrevContent: pending[0],
				})
				pending = pending[1:]
				continue
			}
			changes = append(changes, LineChange{
				LineNumber: newLine,
				Type:       Added,
				Content:    line[1:],
			})
		case strings.HasPrefix(line, " "):
			flush()
			newLine++
			changes = append(changes, LineChange{
				LineNumber: newLine,
				Type:       Context,
				Content:    line[1:],
			})
		}
	}
	flush()

	return changes
}

// parseHunkHeader extracts the new-file start line from
// "@@ -oldStart,oldCount +newStart,newCount @@ ...".
func parseHunkHeader(line string) (newStart int, ok bool) {
	if !strings.HasPrefix(line, "@@") {
		return 0, false
	}
	plus := strings.Index(line, "+")
	if plus < 0 {
		return 0, false
	}
	rest := line[plus+1:]
	end := strings.IndexAny(rest, ", @")
	if end < 0 {
		end = len(rest)
	}
	start, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, false
	}
	return start, true
}
