package tableparse

import "strings"

const boxSeparatorRunes = "─┌┬┐├┼┤└┴┘"

// isBoxSeparatorLine reports whether a line is composed entirely of
// box-drawing border/intersection characters (plus surrounding
// whitespace), i.e. a horizontal rule of a boxed table.
func isBoxSeparatorLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if !strings.ContainsRune(boxSeparatorRunes, r) {
			return false
		}
	}
	return true
}

// splitBoxRow splits a row on the vertical box-drawing separator '│',
// trims each cell, and drops the empty outer-border artifacts.
func splitBoxRow(line string) []string {
	parts := strings.Split(line, "│")
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

// tryParseBoxed implements spec §4.5 strategy 2.
func tryParseBoxed(text string) (Records, bool) {
	lines := strings.Split(text, "\n")

	var sepIdx []int
	var contentIdx []int
	for i, line := range lines {
		if isBoxSeparatorLine(line) {
			sepIdx = append(sepIdx, i)
		} else if strings.Contains(line, "│") {
			contentIdx = append(contentIdx, i)
		}
	}
	if len(sepIdx) < 2 {
		return Records{}, false
	}

	var headerLine = -1
	for _, i := range contentIdx {
		if i > sepIdx[0] && i < sepIdx[1] {
			headerLine = i
			break
		}
	}
	if headerLine == -1 {
		return Records{}, false
	}
	headers := splitBoxRow(lines[headerLine])
	if len(headers) == 0 {
		return Records{}, false
	}

	var rows []map[string]string
	for _, i := range contentIdx {
		if i <= sepIdx[1] {
			continue
		}
		cells := splitBoxRow(lines[i])
		rows = append(rows, cellsToRow(headers, cells))
	}

	return Records{Headers: headers, Rows: rows}, true
}

// cellsToRow zips headers with cells positionally; missing cells become
// "-" per spec §4.5.
func cellsToRow(headers, cells []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(cells) {
			row[h] = cells[i]
		} else {
			row[h] = "-"
		}
	}
	return row
}
