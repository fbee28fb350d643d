package history

import (
	"strconv"
	"strings"
)

// ParseTarget splits "path:10-20" or "path:10" into a path and a line
// range. A suffix that does not parse as a range is treated as part of
// the path, so filenames containing colons still work. Without a range
// the whole file is meant: start 1, end 0.
func ParseTarget(target string) (path string, start, end int) {
	colon := strings.LastIndex(target, ":")
	if colon < 0 {
		return target, 1, 0
	}

	rangePart := target[colon+1:]
	first, second, hasDash := strings.Cut(rangePart, "-")

	s, err := strconv.Atoi(first)
	if err != nil || s < 1 {
		return target, 1, 0
	}
	if !hasDash {
		return target[:colon], s, s
	}

	e, err := strconv.Atoi(second)
	if err != nil || e < s {
		return target, 1, 0
	}
	return target[:colon], s, e
}
