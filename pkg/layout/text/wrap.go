// Package text estimates label dimensions without font metrics and wraps
// labels into a bounded number of lines.
//
// All measurements are character-count heuristics: a character is assumed
// to be CharWidthRatio × fontSize wide and a line LineHeight × fontSize
// tall. This is deliberately approximate; painters must not re-measure.
package text

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxLines is the line budget used when a caller passes maxLines <= 0.
const DefaultMaxLines = 3

// Wrap greedily wraps s into lines of at most maxChars characters and keeps
// the first maxLines of them. Words are split on whitespace; a single word
// longer than maxChars occupies its own line unbroken. Lines past the budget
// are dropped without an ellipsis. Wrap always returns at least one line.
func Wrap(s string, maxChars, maxLines int) []string {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	maxChars = max(1, maxChars)

	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	lines := make([]string, 0, maxLines)
	line := words[0]
	for _, w := range words[1:] {
		if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) <= maxChars {
			line += " " + w
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxLines {
			return lines
		}
		line = w
	}
	return append(lines, line)
}

// Truncated reports whether wrapping s dropped any words.
func Truncated(s string, lines []string) bool {
	return len(strings.Fields(s)) != len(strings.Fields(strings.Join(lines, " ")))
}

// Longest returns the rune count of the longest line.
func Longest(lines []string) int {
	n := 0
	for _, l := range lines {
		n = max(n, utf8.RuneCountInString(l))
	}
	return n
}
