// Package discovery implements the three-phase PATH scan that enumerates
// candidate CLIs, filters out dangerous or obviously-noise entries, and
// probes/scores the survivors. Results are cached to disk keyed by a hash of
// the PATH string.
package discovery

// HelpQuality buckets how substantive a candidate's help output was.
type HelpQuality string

const (
	HelpNone  HelpQuality = "none"
	HelpBasic HelpQuality = "basic"
	HelpRich  HelpQuality = "rich"
)

// Category classifies where on the filesystem a candidate lives.
type Category string

const (
	CategoryUserInstalled Category = "user-installed"
	CategoryLanguageTool  Category = "language-tool"
	CategorySystem        Category = "system"
	CategoryUnknown       Category = "unknown"
)

// DiscoveredCLI is one row of a discovery result (spec §3).
type DiscoveredCLI struct {
	Name        string      `json:"name"`
	Path        string      `json:"path"`
	Score       int         `json:"score"`
	HasHelp     bool        `json:"hasHelp"`
	HelpQuality HelpQuality `json:"helpQuality"`
	Category    Category    `json:"category"`
}

// candidate is an internal enumeration result before scoring.
type candidate struct {
	name string
	path string
}
