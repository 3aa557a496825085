package helpparse

import (
	"regexp"
	"strings"
)

var optionRow = regexp.MustCompile(`^(\s+)(-\S.*?)(?:\s{2,}(.*))?$`)

var longTokenRe = regexp.MustCompile(`^(--[A-Za-z][\w-]*)(?:=(\S+)|\s+(<[^>]+>|\[[^\]]+\]|[A-Z][A-Z0-9_]*))?(\.\.\.)?$`)
var shortTokenRe = regexp.MustCompile(`^(-[A-Za-z0-9])(?:\s+(<[^>]+>|\[[^\]]+\]|[A-Z][A-Z0-9_]*))?(\.\.\.)?$`)

var defaultRe = regexp.MustCompile(`(?i)[\[(]default:\s*([^)\]]+)[)\]]`)
var repeatWordRe = regexp.MustCompile(`(?i)repeat`)

type optionRowMatch struct {
	opt     Option
	desc    string
	indent  int
	descCol int
}

// extractOptions implements spec §4.4 step 4 over a single section.
func extractOptions(lines []string, sec section) ([]Option, bool) {
	var rows []optionRowMatch

	for i := sec.start; i < sec.end; i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := optionRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		indent := len(m[1])
		flagsPart := strings.TrimSpace(m[2])
		desc := strings.TrimSpace(m[3])
		descCol := -1
		if m[3] != "" {
			descCol = strings.Index(line, m[3])
		}

		opt, ok := parseFlagTokens(flagsPart)
		if !ok {
			continue
		}
		opt.Description = desc
		if dm := defaultRe.FindStringSubmatch(desc); dm != nil {
			opt.Default = strings.TrimSpace(dm[1])
		}
		if repeatWordRe.MatchString(desc) {
			opt.Repeatable = true
		}

		rows = append(rows, optionRowMatch{opt: opt, desc: desc, indent: indent, descCol: descCol})
	}

	if len(rows) == 0 {
		return nil, false
	}

	aligned := optionDescriptionsAligned(rows)

	var options []Option
	for _, r := range rows {
		confidence := 0.5 + 0.3
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
		r.opt.Confidence = confidence
		options = append(options, r.opt)
	}
	return options, true
}

// parseFlagTokens parses a leading flags cluster such as "-s, --long=VALUE"
// or "--long <VALUE>" into an Option. Returns ok=false if neither a short
// nor a long form can be recognised.
func parseFlagTokens(field string) (Option, bool) {
	var opt Option
	found := false
	for _, raw := range strings.Split(field, ",") {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}
		if strings.HasPrefix(tok, "--") {
			m := longTokenRe.FindStringSubmatch(tok)
			if m == nil {
				continue
			}
			opt.Long = m[1]
			found = true
			if m[2] != "" {
				opt.TakesValue = true
				opt.ValueName = m[2]
				opt.ValueStyle = ValueStyleEquals
			} else if m[3] != "" {
				opt.TakesValue = true
				opt.ValueName = trimPlaceholder(m[3])
				opt.ValueStyle = ValueStyleSpace
			}
			if m[4] != "" {
				opt.Repeatable = true
			}
			continue
		}
		m := shortTokenRe.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		opt.Short = m[1]
		found = true
		if m[2] != "" {
			opt.TakesValue = true
			opt.ValueName = trimPlaceholder(m[2])
			opt.ValueStyle = ValueStyleShortSpace
		}
		if m[3] != "" {
			opt.Repeatable = true
		}
	}
	return opt, found
}

func trimPlaceholder(s string) string {
	s = strings.TrimPrefix(s, "<")
	s = strings.TrimSuffix(s, ">")
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	return s
}

func optionDescriptionsAligned(rows []optionRowMatch) bool {
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
