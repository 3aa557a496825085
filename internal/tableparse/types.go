// Package tableparse converts the free-form stdout of an arbitrary CLI
// into structured records for display: JSON, boxed tables, ASCII
// separator tables, and pipe-separated tables are detected in that order,
// with a single-field fallback record when nothing matches.
package tableparse

// Records is what ParseRecords returns (spec §3's TableRecord): an
// ordered list of header names plus one map per row keyed by header.
// Column order is the order headers appeared in the source text.
type Records struct {
	Headers []string
	Rows    []map[string]string
}
