package render

import (
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// AuthorColor returns a stable, readable color for an author name.
// The name is hashed onto the hue wheel so distinct authors land on
// distinct colors and the same author always gets the same one.
func AuthorColor(author string) lipgloss.Color {
	h := fnv.New32a()
	h.Write([]byte(author))
	hue := float64(h.Sum32() % 360)
	c := colorful.Hsl(hue, 0.55, 0.62)
	return lipgloss.Color(c.Hex())
}

// AbbreviateAuthor shortens "First Last" to "First L." for the gutter.
func AbbreviateAuthor(author string) string {
	parts := strings.Fields(author)
	if len(parts) < 2 {
		return author
	}
	initial := []rune(parts[1])
	return parts[0] + " " + string(initial[0]) + "."
}
