package history

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiffAddedLines(t *testing.T) {
	text := strings.Join([]string{
		"@@ -0,0 +1,2 @@",
		"+first",
		"+second",
	}, "\n")

	changes := ParseDiff(text)
	require.Len(t, changes, 2)
	assert.Equal(t, LineChange{LineNumber: 1, Type: Added, Content: "first"}, changes[0])
	assert.Equal(t, LineChange{LineNumber: 2, Type: Added, Content: "second"}, changes[1])
}

func TestParseDiffRemoveThenAddCoalescesToModified(t *testing.T) {
	text := strings.Join([]string{
		"@@ -1,3 +1,3 @@",
		" unchanged",
		"-old value",
		"+new value",
		" trailing",
	}, "\n")

	changes := ParseDiff(text)

	var nonContext []LineChange
	for _, c := range changes {
		if c.Type != Context {
			nonContext = append(nonContext, c)
		}
	}
	require.Len(t, nonContext, 1)
	assert.Equal(t, Modified, nonContext[0].Type)
	assert.Equal(t, 2, nonContext[0].LineNumber)
	assert.Equal(t, "new value", nonContext[0].Content)
	assert.Equal(t, "old value", nonContext[0].PrevContent)
}

func TestParseDiffEqualRunsPairPositionally(t *testing.T) {
	text := strings.Join([]string{
		"@@ -1,2 +1,2 @@",
		"-alpha",
		"-beta",
		"+ALPHA",
		"+BETA",
	}, "\n")

	changes := ParseDiff(text)
	require.Len(t, changes, 2)
	assert.Equal(t, Modified, changes[0].Type)
	assert.Equal(t, "ALPHA", changes[0].Content)
	assert.Equal(t, "alpha", changes[0].PrevContent)
	assert.Equal(t, Modified, changes[1].Type)
	assert.Equal(t, "BETA", changes[1].Content)
	assert.Equal(t, "beta", changes[1].PrevContent)
}

func TestParseDiffUnequalRunsLeaveRemainder(t *testing.T) {
	text := strings.Join([]string{
		"@@ -1,3 +1,2 @@",
		"-one",
		"-two",
		"-three",
		"+ONE",
		" anchor",
	}, "\n")

	changes := ParseDiff(text)

	var modified, removed int
	for _, c := range changes {
		switch c.Type {
		case Modified:
			modified++
		case Removed:
			removed++
		}
	}
	assert.Equal(t, 1, modified)
	assert.Equal(t, 2, removed)
}

func TestParseDiffContextAnchorsLineNumbers(t *testing.T) {
	text := strings.Join([]string{
		"@@ -10,3 +10,4 @@ func main() {",
		" context ten",
		" context eleven",
		"+inserted twelve",
		" context thirteen",
	}, "\n")

	changes := ParseDiff(text)

	var added *LineChange
	for i := range changes {
		if changes[i].Type == Added {
			added = &changes[i]
		}
	}
	require.NotNil(t, added)
	assert.Equal(t, 12, added.LineNumber)
}

func TestParseDiffNoHunksIsEmpty(t *testing.T) {
	text := strings.Join([]string{
		"commit 4b825dc642cb6eb9a060e54bf8d69288fbee4904",
		"Author: Alice <alice@example.com>",
		"",
		"    rename only",
		"",
		"diff --git a/old.txt b/new.txt",
		"similarity index 100%",
		"rename from old.txt",
		"rename to new.txt",
	}, "\n")

	assert.Empty(t, ParseDiff(text))
}

func TestParseDiffStopsAtNextFileSection(t *testing.T) {
	text := strings.Join([]string{
		"@@ -1,1 +1,1 @@",
		"-mine",
		"+MINE",
		"diff --git a/other.txt b/other.txt",
		"@@ -1,1 +1,1 @@",
		"-theirs",
		"+THEIRS",
	}, "\n")

	changes := ParseDiff(text)
	require.Len(t, changes, 1)
	assert.Equal(t, "MINE", changes[0].Content)
}

func TestParseDiffMultipleHunks(t *testing.T) {
	text := strings.Join([]string{
		"@@ -1,1 +1,2 @@",
		" head",
		"+after head",
		"@@ -20,1 +21,2 @@",
		" tail",
		"+after tail",
	}, "\n")

	changes := ParseDiff(text)

	var added []LineChange
	for _, c := range changes {
		if c.Type == Added {
			added = append(added, c)
		}
	}
	require.Len(t, added, 2)
	assert.Equal(t, 2, added[0].LineNumber)
	assert.Equal(t, 22, added[1].LineNumber)
}
