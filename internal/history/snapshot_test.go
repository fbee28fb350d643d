package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeChangesIdentical(t *testing.T) {
	lines := []string{"a", "b", "c"}
	assert.Empty(t, ComputeChanges(lines, lines))
}

func TestComputeChangesSingleEdit(t *testing.T) {
	prev := []string{"package main", "func main() {}", "// eof"}
	curr := []string{"package main", "func main() { run() }", "// eof"}

	changes := ComputeChanges(prev, curr)
	require.Len(t, changes, 1)
	assert.Equal(t, Modified, changes[0].Type)
	assert.Equal(t, 2, changes[0].LineNumber)
	assert.Equal(t, "func main() { run() }", changes[0].Content)
	assert.Equal(t, "func main() {}", changes[0].PrevContent)
}

func TestComputeChangesAppend(t *testing.T) {
	prev := []string{"one"}
	curr := []string{"one", "two", "three"}

	changes := ComputeChanges(prev, curr)
	require.Len(t, changes, 2)
	assert.Equal(t, LineChange{LineNumber: 2, Type: Added, Content: "two"}, changes[0])
	assert.Equal(t, LineChange{LineNumber: 3, Type: Added, Content: "three"}, changes[1])
}

func TestComputeChangesDeletion(t *testing.T) {
	prev := []string{"keep", "drop me", "keep too"}
	curr := []string{"keep", "keep too"}

	changes := ComputeChanges(prev, curr)
	require.Len(t, changes, 1)
	assert.Equal(t, Removed, changes[0].Type)
	assert.Equal(t, "drop me", changes[0].Content)
}

func TestComputeChangesReplaceRunPairsPositionally(t *testing.T) {
	prev := []string{"anchor", "old one", "old two", "old three", "tail"}
	curr := []string{"anchor", "new one", "new two", "tail"}

	changes := ComputeChanges(prev, curr)

	var modified, removed, added int
	for _, c := range changes {
		switch c.Type {
		case Modified:
			modified++
			assert.NotEmpty(t, c.PrevContent)
		case Removed:
			removed++
		case Added:
			added++
		}
	}
	assert.Equal(t, 2, modified)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, added)
}

func TestComputeChangesFromEmpty(t *testing.T) {
	changes := ComputeChanges(nil, []string{"a", "b"})
	require.Len(t, changes, 2)
	for i, c := range changes {
		assert.Equal(t, Added, c.Type)
		assert.Equal(t, i+1, c.LineNumber)
	}
}

func TestSimpleChangesPositionalFallback(t *testing.T) {
	prev := []string{"same", "was", "gone"}
	curr := []string{"same", "now"}

	changes := simpleChanges(prev, curr)
	require.Len(t, changes, 2)
	assert.Equal(t, Modified, changes[0].Type)
	assert.Equal(t, "now", changes[0].Content)
	assert.Equal(t, "was", changes[0].PrevContent)
	assert.Equal(t, Removed, changes[1].Type)
	assert.Equal(t, "gone", changes[1].Content)
}
