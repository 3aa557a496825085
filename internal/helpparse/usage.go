package helpparse

import "strings"

// extractUsages implements spec §4.4 step 5: lines under a usage section
// are stored verbatim (trimmed), skipping blanks.
func extractUsages(lines []string, sec section) []Usage {
	var out []Usage
	for i := sec.start; i < sec.end; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		out = append(out, Usage{Text: line, Section: kindUsage})
	}
	return out
}
