package blocktree

import (
	"strings"
	"unicode"
)

// NormalizeWhitespace converts CRLF and CR to LF, trims trailing whitespace
// on every line and collapses runs of three or more newlines to two.
func NormalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	text = strings.Join(lines, "\n")

	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return text
}

// SegmentBlocks splits text into paragraphs at blank lines. A single newline
// is a soft wrap and does not start a new block.
func SegmentBlocks(text string) []string {
	parts := strings.Split(NormalizeWhitespace(text), "\n\n")
	blocks := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			blocks = append(blocks, p)
		}
	}
	return blocks
}
