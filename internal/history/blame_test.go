package history

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blameHash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

func porcelainEntry(hash string, lineNo int, author string, unixTime int64, content string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d %d 1\n", hash, lineNo, lineNo)
	fmt.Fprintf(&b, "author %s\n", author)
	fmt.Fprintf(&b, "author-mail <%s@example.com>\n", strings.ToLower(author))
	fmt.Fprintf(&b, "author-time %d\n", unixTime)
	b.WriteString("author-tz +0000\n")
	fmt.Fprintf(&b, "committer %s\n", author)
	fmt.Fprintf(&b, "committer-time %d\n", unixTime)
	b.WriteString("summary some summary\n")
	b.WriteString("filename a.txt\n")
	fmt.Fprintf(&b, "\t%s\n", content)
	return b.String()
}

func TestParseBlame(t *testing.T) {
	text := porcelainEntry(blameHash, 1, "Alice", 1609459200, "package main") +
		porcelainEntry(blameHash, 2, "Bob", 1612137600, "") +
		porcelainEntry(blameHash, 3, "Alice", 1609459200, "func main() {}")

	lines, err := ParseBlame(text)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	for i, l := range lines {
		assert.Equal(t, i+1, l.LineNumber)
		assert.Equal(t, blameHash, l.CommitHash)
	}
	assert.Equal(t, "Alice", lines[0].Author)
	assert.Equal(t, "Bob", lines[1].Author)
	assert.Equal(t, "package main", lines[0].Content)
	assert.Equal(t, "", lines[1].Content)
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), lines[0].Date)
}

func TestParseBlameHeaderOrderDoesNotMatter(t *testing.T) {
	text := strings.Join([]string{
		blameHash + " 1 1 1",
		"author-time 1609459200",
		"summary whatever",
		"author Carol",
		"filename a.txt",
		"\tcontents",
	}, "\n") + "\n"

	lines, err := ParseBlame(text)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Carol", lines[0].Author)
	assert.False(t, lines[0].Date.IsZero())
}

func TestParseBlameUnknownHeadersIgnored(t *testing.T) {
	text := strings.Join([]string{
		blameHash + " 1 1 1",
		"author Dave",
		"author-time 1609459200",
		"previous 4b825dc642cb6eb9a060e54bf8d69288fbee4905 a.txt",
		"boundary",
		"some-future-field value",
		"\tline one",
	}, "\n") + "\n"

	lines, err := ParseBlame(text)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Dave", lines[0].Author)
}

func TestParseBlameEmptyInput(t *testing.T) {
	lines, err := ParseBlame("")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestParseBlameContentWithoutHeader(t *testing.T) {
	_, err := ParseBlame("\torphan content line\n")
	assert.ErrorIs(t, err, ErrMalformedBlame)
}

func TestParseBlameMissingContentLine(t *testing.T) {
	text := blameHash + " 1 1 1\nauthor Alice\nauthor-time 1609459200\n"
	_, err := ParseBlame(text)
	assert.ErrorIs(t, err, ErrMalformedBlame)
}

func TestParseBlameGapInLineNumbers(t *testing.T) {
	text := porcelainEntry(blameHash, 1, "Alice", 1609459200, "one") +
		porcelainEntry(blameHash, 3, "Alice", 1609459200, "three")

	_, err := ParseBlame(text)
	assert.ErrorIs(t, err, ErrMalformedBlame)
}

func TestParseBlameInvalidUTF8Degrades(t *testing.T) {
	text := porcelainEntry(blameHash, 1, "Alice", 1609459200, "caf\xe9 latte")

	lines, err := ParseBlame(text)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	// Metadata survives; the bad byte run becomes the replacement rune.
	assert.Equal(t, "Alice", lines[0].Author)
	assert.Contains(t, lines[0].Content, "caf")
	assert.Contains(t, lines[0].Content, "�")
}

func TestParseBlameContiguousProperty(t *testing.T) {
	for _, k := range []int{1, 2, 10, 57} {
		var b strings.Builder
		for i := 1; i <= k; i++ {
			b.WriteString(porcelainEntry(blameHash, i, "Alice", 1609459200, fmt.Sprintf("line %d", i)))
		}

		lines, err := ParseBlame(b.String())
		require.NoError(t, err)
		require.Len(t, lines, k)
		for i, l := range lines {
			require.Equal(t, i+1, l.LineNumber)
		}
	}
}
