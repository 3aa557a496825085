package tableparse

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var asciiSeparatorLine = regexp.MustCompile(`^[\s\-─+]*[\-─]{2,}[\s\-─+]*$`)

type columnSpan struct {
	startWidth int
	endWidth   int
}

// findDashRuns locates the runs of '-'/'─' in a separator line and
// returns their display-width spans (treating ' ' and '+' as column
// boundaries), used to slice the header and body lines by column.
func findDashRuns(sep string) []columnSpan {
	var spans []columnSpan
	width := 0
	inRun := false
	runStart := 0
	for _, r := range sep {
		w := runewidth.RuneWidth(r)
		isDash := r == '-' || r == '─'
		if isDash && !inRun {
			inRun = true
			runStart = width
		} else if !isDash && inRun {
			inRun = false
			spans = append(spans, columnSpan{startWidth: runStart, endWidth: width})
		}
		width += w
	}
	if inRun {
		spans = append(spans, columnSpan{startWidth: runStart, endWidth: width})
	}
	return spans
}

// sliceByDisplayWidth extracts the substring of line whose accumulated
// rune display width falls within [startWidth, endWidth), trimmed.
func sliceByDisplayWidth(line string, startWidth, endWidth int) string {
	var b strings.Builder
	width := 0
	for _, r := range line {
		w := runewidth.RuneWidth(r)
		if width >= startWidth && width < endWidth {
			b.WriteRune(r)
		}
		width += w
		if width >= endWidth {
			break
		}
	}
	return strings.TrimSpace(b.String())
}

// tryParseASCII implements spec §4.5 strategy 3.
func tryParseASCII(text string) (Records, bool) {
	lines := strings.Split(text, "\n")

	sepLine := -1
	for i, line := range lines {
		if i == 0 {
			continue // the separator must have a header above it
		}
		if asciiSeparatorLine.MatchString(line) {
			sepLine = i
			break
		}
	}
	if sepLine == -1 {
		return Records{}, false
	}

	spans := findDashRuns(lines[sepLine])
	if len(spans) == 0 {
		return Records{}, false
	}

	headerLine := lines[sepLine-1]
	var headers []string
	for _, sp := range spans {
		headers = append(headers, sliceByDisplayWidth(headerLine, sp.startWidth, sp.endWidth))
	}
	if allEmpty(headers) {
		return Records{}, false
	}

	var rows []map[string]string
	for i := sepLine + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		if asciiSeparatorLine.MatchString(lines[i]) {
			continue
		}
		row := make(map[string]string, len(headers))
		for j, sp := range spans {
			val := sliceByDisplayWidth(lines[i], sp.startWidth, sp.endWidth)
			if val == "" {
				val = "-"
			}
			row[headers[j]] = val
		}
		rows = append(rows, row)
	}

	return Records{Headers: headers, Rows: rows}, true
}

func allEmpty(ss []string) bool {
	for _, s := range ss {
		if s != "" {
			return false
		}
	}
	return true
}
