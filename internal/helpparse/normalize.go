package helpparse

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// normalize strips terminal escape sequences, collapses CR/LF, expands
// tabs to 8 spaces, and strips trailing whitespace from every line (spec
// §4.4 step 1).
func normalize(text string) []string {
	text = ansi.Strip(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", 8))

	rawLines := strings.Split(text, "\n")
	lines := make([]string, len(rawLines))
	for i, l := range rawLines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return lines
}

// leadingSpaces counts the indentation width of a line.
func leadingSpaces(line string) int {
	n := 0
	for _, r := range line {
		if r != ' ' {
			break
		}
		n++
	}
	return n
}
