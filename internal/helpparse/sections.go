package helpparse

import (
	"regexp"
	"strings"
)

// Section kinds recognised by the header scanner (spec §4.4 step 2). These
// are pattern families, not a closed enumeration of literal strings.
const (
	kindUsage       = "usage"
	kindCommands    = "commands"
	kindOptions     = "options"
	kindExamples    = "examples"
	kindDescription = "description"
	kindEnvironment = "environment"
	kindSeeAlso     = "see also"
	kindArguments   = "arguments"
)

var labelPatterns = []struct {
	kind string
	re   *regexp.Regexp
}{
	{kindUsage, regexp.MustCompile(`(?i)^(usage|synopsis)$`)},
	{kindCommands, regexp.MustCompile(`(?i)^(available )?(sub)?commands?$`)},
	{kindOptions, regexp.MustCompile(`(?i)^(global )?(options|flags)$`)},
	{kindExamples, regexp.MustCompile(`(?i)^examples?$`)},
	{kindDescription, regexp.MustCompile(`(?i)^description$`)},
	{kindEnvironment, regexp.MustCompile(`(?i)^environment( variables)?$`)},
	{kindSeeAlso, regexp.MustCompile(`(?i)^see also$`)},
	{kindArguments, regexp.MustCompile(`(?i)^(positional )?arguments?$`)},
}

var allCapsWord = regexp.MustCompile(`^[A-Z][A-Z0-9 _/-]*$`)

// section is a detected run of lines belonging to one labelled block.
type section struct {
	kind       string
	headerLine int
	start      int // first body line, inclusive
	end        int // one past the last body line
}

// labelKind matches a header's trimmed, colon-stripped text against the
// known label patterns. Returns "" if nothing matches.
func labelKind(text string) string {
	text = strings.TrimSpace(text)
	for _, lp := range labelPatterns {
		if lp.re.MatchString(text) {
			return lp.kind
		}
	}
	return ""
}

// isHeaderLine reports whether line at index i looks like a section
// header: a line ending in ':' whose label matches a known pattern, an
// unindented ALL-CAPS line whose label matches a known pattern, or an
// unindented ALL-CAPS line with the next non-blank line indented (the
// latter is returned with an empty kind).
func isHeaderLine(lines []string, i int) (kind string, ok bool) {
	line := lines[i]
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}

	if strings.HasSuffix(trimmed, ":") {
		if k := labelKind(strings.TrimSuffix(trimmed, ":")); k != "" {
			return k, true
		}
	}

	if leadingSpaces(line) == 0 && allCapsWord.MatchString(trimmed) && strings.ContainsAny(trimmed, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		if k := labelKind(trimmed); k != "" {
			return k, true
		}
		// An unlabelled ALL-CAPS header (e.g. "EXAMPLES:" variants already
		// handled above) is only trusted when the following content is
		// indented, distinguishing a real header from a stray caps word.
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				continue
			}
			if leadingSpaces(lines[j]) > 0 {
				return "", true
			}
			break
		}
	}
	return "", false
}

// detectSections runs the header scanner over the normalised lines and
// returns each section's boundaries: header to the next header or EOF.
func detectSections(lines []string) []section {
	var headers []section
	for i := range lines {
		if kind, ok := isHeaderLine(lines, i); ok {
			headers = append(headers, section{kind: kind, headerLine: i})
		}
	}
	for idx := range headers {
		start := headers[idx].headerLine + 1
		end := len(lines)
		if idx+1 < len(headers) {
			end = headers[idx+1].headerLine
		}
		headers[idx].start = start
		headers[idx].end = end
	}
	return headers
}
