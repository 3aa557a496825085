package tableparse

import "strings"

// tryParsePipe implements spec §4.5 strategy 4: every non-blank line must
// contain '|'; the first row is the header.
func tryParsePipe(text string) (Records, bool) {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	if len(lines) < 2 {
		return Records{}, false
	}
	for _, l := range lines {
		if !strings.Contains(l, "|") {
			return Records{}, false
		}
	}

	headers := splitPipeRow(lines[0])
	if len(headers) == 0 {
		return Records{}, false
	}

	var rows []map[string]string
	for _, l := range lines[1:] {
		cells := splitPipeRow(l)
		rows = append(rows, cellsToRow(headers, cells))
	}
	return Records{Headers: headers, Rows: rows}, true
}

func splitPipeRow(line string) []string {
	parts := strings.Split(line, "|")
	var cells []string
	for i, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" && (i == 0 || i == len(parts)-1) {
			continue
		}
		cells = append(cells, trimmed)
	}
	return cells
}
