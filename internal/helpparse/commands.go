package helpparse

import (
	"regexp"
	"strings"
)

// commandRow matches a row inside a commands-like section: an indented
// name cluster (letters/digits/hyphens, optionally comma/pipe-separated
// aliases), then two-or-more spaces, then an optional description. Each
// name is a single token; a two-word name such as "remote add" does not
// match.
var commandRow = regexp.MustCompile(`^(\s+)([A-Za-z][A-Za-z0-9_-]*(?:\s*[,|]\s*[A-Za-z][A-Za-z0-9_-]*)*)(?:\s{2,}(.*))?$`)

var sentencePunctuation = regexp.MustCompile(`[.!?]\s*$`)
var aliasSplitter = regexp.MustCompile(`[,|]`)

// commandRowMatch is one matched row inside a commands-like section.
type commandRowMatch struct {
	names   []string
	desc    string
	indent  int
	descCol int
}

// extractCommands implements spec §4.4 step 3 over a single section.
func extractCommands(lines []string, sec section) ([]CommandNode, bool) {
	var rows []commandRowMatch
	var indents []int

	for i := sec.start; i < sec.end; i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := commandRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		indent := len(m[1])
		namesField := m[2]
		desc := strings.TrimSpace(m[3])
		descCol := -1
		if m[3] != "" {
			descCol = strings.Index(line, m[3])
		}

		var names []string
		for _, part := range splitAliases(namesField) {
			part = strings.TrimSpace(part)
			if part != "" {
				names = append(names, part)
			}
		}
		if len(names) == 0 {
			continue
		}
		rows = append(rows, commandRowMatch{names: names, desc: desc, indent: indent, descCol: descCol})
		indents = append(indents, indent)
	}

	if len(rows) == 0 {
		return nil, false
	}

	baseline := mostCommon(indents)

	// Alignment bonus: do the descriptions that exist all start at (near)
	// the same column?
	aligned := descriptionsAligned(rows)

	var nodes []CommandNode
	for _, r := range rows {
		if r.indent != baseline {
			continue
		}
		canonical := longestAlias(r.names)
		confidence := 0.5 + 0.3 // presence in a labelled commands section
		if aligned {
			confidence += 0.2
		}
		if r.desc != "" {
			confidence += 0.1
		}
		if !sentencePunctuation.MatchString(r.desc) {
			confidence += 0.1
		}
		if confidence > 1 {
			confidence = 1
		}
		nodes = append(nodes, CommandNode{
			Name:          canonical,
			Description:   r.desc,
			Confidence:    confidence,
			SourceSection: kindCommands,
		})
	}
	return nodes, len(nodes) > 0
}

func splitAliases(field string) []string {
	return aliasSplitter.Split(field, -1)
}

func longestAlias(names []string) string {
	longest := names[0]
	for _, n := range names[1:] {
		if len(n) > len(longest) {
			longest = n
		}
	}
	return longest
}

func mostCommon(ints []int) int {
	counts := map[int]int{}
	best, bestCount := ints[0], 0
	for _, v := range ints {
		counts[v]++
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

func descriptionsAligned(rows []commandRowMatch) bool {
	var cols []int
	for _, r := range rows {
		if r.desc != "" {
			cols = append(cols, r.descCol)
		}
	}
	if len(cols) < 2 {
		return false
	}
	first := cols[0]
	for _, c := range cols[1:] {
		diff := c - first
		if diff < 0 {
			diff = -diff
		}
		if diff > 1 {
			return false
		}
	}
	return true
}
