package history

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// ComputeChanges derives the change records between two full snapshots
// of the file. Whole-file exploration has no ranged diff to parse, so
// the changes for each version are computed from the previous version's
// content instead.
func ComputeChanges(prev, curr []string) []LineChange {
	opcodes, err := generateOpCodes(prev, curr)
	if err != nil {
		// Fall back to a positional comparison when the matcher fails.
		return simpleChanges(prev, curr)
	}

	var changes []LineChange
	for _, op := range opcodes {
		i1, i2, j1, j2 := op.I1, op.I2, op.J1, op.J2

		switch op.Tag {
		case 'd':
			for i := i1; i < i2; i++ {
				changes = append(changes, LineChange{
					LineNumber: j1 + 1,
					Type:       Removed,
					Content:    prev[i],
				})
			}
		case 'i':
			for j := j1; j < j2; j++ {
				changes = append(changes, LineChange{
					LineNumber: j + 1,
					Type:       Added,
					Content:    curr[j],
				})
			}
		case 'r':
			// Pair positionally, the same way a remove run followed by
			// an add run pairs in a parsed diff.
			paired := min(i2-i1, j2-j1)
			for k := 0; k < paired; k++ {
				changes = append(changes, LineChange{
					LineNumber:  j1 + k + 1,
					Type:        Modified,
					Content:     curr[j1+k],
					PrevContent: prev[i1+k],
				})
			}
			for i := i1 + paired; i < i2; i++ {
				changes = append(changes, LineChange{
					LineNumber: j1 + paired + 1,
					Type:       Removed,
					Content:    prev[i],
				})
			}
			for j := j1 + paired; j < j2; j++ {
				changes = append(changes, LineChange{
					LineNumber: j + 1,
					Type:       Added,
					Content:    curr[j],
				})
			}
		}
	}
	return changes
}

func generateOpCodes(lines1, lines2 []string) (opcodes []difflib.OpCode, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("line matcher failed: %v", r)
		}
	}()

	matcher := difflib.NewMatcher(lines1, lines2)
	return matcher.GetOpCodes(), nil
}

func simpleChanges(prev, curr []string) []LineChange {
	var changes []LineChange
	longest := max(len(prev), len(curr))

	for i := 0; i < longest; i++ {
		hasPrev := i < len(prev)
		hasCurr := i < len(curr)

		switch {
		case hasPrev && hasCurr && prev[i] == curr[i]:
		case hasPrev && hasCurr:
			changes = append(changes, LineChange{
				LineNumber:  i + 1,
				Type:        Modified,
				Content:     curr[i],
				PrevContent: prev[i],
			})
		case hasPrev:
			changes = append(changes, LineChange{
				LineNumber: len(curr) + 1,
				Type:       Removed,
				Content:    prev[i],
			})
		case hasCurr:
			changes = append(changes, LineChange{
				LineNumber: i + 1,
				Type:       Added,
				Content:    curr[i],
			})
		}
	}
	return changes
}
