package tableparse

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ParseRecords implements the full C5 contract (spec §4.5): strip ANSI
// escapes, then try JSON, boxed table, ASCII separator table, and
// pipe-separated table in that order. If none matches, the whole text
// becomes a single-field fallback record.
func ParseRecords(text string) Records {
	clean := ansi.Strip(text)

	if recs, ok := tryParseJSON(clean); ok {
		return recs
	}
	if recs, ok := tryParseBoxed(clean); ok {
		return recs
	}
	if recs, ok := tryParseASCII(clean); ok {
		return recs
	}
	if recs, ok := tryParsePipe(clean); ok {
		return recs
	}

	return Records{
		Headers: []string{"Output"},
		Rows:    []map[string]string{{"Output": strings.TrimRight(clean, "\n")}},
	}
}
