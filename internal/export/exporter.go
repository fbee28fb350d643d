// Package export renders an assembled file version as a standalone
// document, for sharing history snapshots without the interactive
// viewer.
package export

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/WyattLamberth/garch/internal/history"
)

// Format represents the desired export format.
type Format string

const (
	// FormatHTML emits an HTML document for the snapshot.
	FormatHTML Format = "html"
	// FormatMarkdown emits a Markdown table-of-lines block.
	FormatMarkdown Format = "markdown"
	// FormatANSI emits an ANSI-colored string.
	FormatANSI Format = "ansi"
)

// Options control how a version snapshot is exported.
type Options struct {
	// Title will be shown in HTML/Markdown outputs when provided.
	Title string
	// StartLine/EndLine restrict the exported lines; EndLine 0 means
	// the end of the file.
	StartLine int
	EndLine   int
}

// Render returns the version's annotated snapshot in the requested
// format: line number, author, date, and content per line, with
// change markers where this version added or modified a line.
func Render(v *history.FileVersion, format Format, opts Options) (string, error) {
	if v == nil {
		return "", errors.New("version is nil")
	}

	lines := exportLines(v, opts)

	switch strings.ToLower(string(format)) {
	case string(FormatHTML):
		return renderHTML(v, lines, opts), nil
	case string(FormatMarkdown), "md":
		return renderMarkdown(v, lines, opts), nil
	case string(FormatANSI), "text":
		return renderANSI(v, lines, opts), nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

// exportLine pairs a blame line with this version's change marker.
type exportLine struct {
	history.BlameLine
	marker string // "+", "~" or " "
}

func exportLines(v *history.FileVersion, opts Options) []exportLine {
	start := opts.StartLine
	if start < 1 {
		start = 1
	}
	end := opts.EndLine
	if end <= 0 {
		end = len(v.BlameLines)
	}

	markers := make(map[int]string)
	for _, ch := range v.Changes {
		switch ch.Type {
		case history.Added:
			markers[ch.LineNumber] = "+"
		case history.Modified:
			markers[ch.LineNumber] = "~"
		}
	}

	var out []exportLine
	for _, l := range v.LinesIn(start, end) {
		marker := " "
		if m, ok := markers[l.LineNumber]; ok {
			marker = m
		}
		out = append(out, exportLine{BlameLine: l, marker: marker})
	}
	return out
}

func renderHTML(v *history.FileVersion, lines []exportLine, opts Options) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	b.WriteString("<style>body{background:#0f111a;color:#e5e7eb;font-family:Menlo,Consolas,monospace;}" +
		"pre{white-space:pre-wrap;word-wrap:break-word;}" +
		".added{background:#12281a;color:#8dd39e;}" +
		".modified{background:#2a2513;color:#e6d7a3;}" +
		".unchanged{color:#cbd5e1;}" +
		".meta{color:#9ca3af;margin-right:12px;}" +
		"h1{font-size:18px;margin-bottom:4px;}" +
		"p{color:#9ca3af;margin-top:0;}" +
		"</style></head><body>")

	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("%s @ %s", v.Commit.ShortHash(), v.Commit.Date.Format("2006-01-02"))
	}
	b.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(title)))
	b.WriteString(fmt.Sprintf("<p>%s &middot; %s</p>\n<pre>",
		html.EscapeString(v.Commit.Author), html.EscapeString(v.Commit.Message)))

	for _, line := range lines {
		class := "unchanged"
		switch line.marker {
		case "+":
			class = "added"
		case "~":
			class = "modified"
		}
		meta := fmt.Sprintf("<span class=\"meta\">%5d %s %-12s</span>",
			line.LineNumber, line.Date.Format("2006-01-02"), html.EscapeString(line.Author))
		fmt.Fprintf(&b, "<div class=\"%s\">%s %s %s</div>\n",
			class, meta, line.marker, html.EscapeString(line.Content))
	}

	b.WriteString("</pre></body></html>")
	return b.String()
}

func renderMarkdown(v *history.FileVersion, lines []exportLine, opts Options) string {
	var b strings.Builder

	if opts.Title != "" {
		b.WriteString("# ")
		b.WriteString(opts.Title)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Commit `%s` by %s: %s\n\n",
		v.Commit.ShortHash(), v.Commit.Author, v.Commit.Message)

	b.WriteString("```\n")
	for _, line := range lines {
		fmt.Fprintf(&b, "%s %5d %s %-15s %s\n",
			line.marker, line.LineNumber, line.Date.Format("2006-01-02"), line.Author, line.Content)
	}
	b.WriteString("```\n")
	return b.String()
}

func renderANSI(v *history.FileVersion, lines []exportLine, opts Options) string {
	var b strings.Builder
	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("%s @ %s: %s", v.Commit.ShortHash(), v.Commit.Date.Format("2006-01-02"), v.Commit.Message)
	}
	fmt.Fprintf(&b, "%s\n\n", title)

	const reset = "\u001b[0m"
	for _, line := range lines {
		color := "\u001b[37m"
		switch line.marker {
		case "+":
			color = "\u001b[32m"
		case "~":
			color = "\u001b[33m"
		}
		fmt.Fprintf(&b, "\u001b[90m%5d %s %-12s%s %s%s %s%s\n",
			line.LineNumber, line.Date.Format("2006-01-02"), line.Author, reset,
			color, line.marker, line.Content, reset)
	}
	return b.String()
}
