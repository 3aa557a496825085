package discovery

import (
	"regexp"
	"strings"
)

// DefaultMinScore is the floor below which a candidate is dropped (spec §4.3).
const DefaultMinScore = -5

var richMarkers = regexp.MustCompile(`(?i)\b(SYNOPSIS|USAGE|DESCRIPTION|OPTIONS|COMMANDS|EXAMPLES)\b`)

var hyphenCompound = regexp.MustCompile(`^[a-z0-9]+-[a-z0-9-]+$`)

var userLocalBin = regexp.MustCompile(`(^|/)\.local/bin(/|$)|(^|/)local/bin(/|$)`)

var languageToolBin = regexp.MustCompile(`/\.cargo/bin/|/node_modules/\.bin/|/go/bin/|\.gem/.*/bin/|/site-packages/|/\.rbenv/|/\.nvm/|/\.gvm/|/\.pyenv/`)

var systemBin = regexp.MustCompile(`^/usr/bin/|^/bin/`)

// classifyHelp buckets raw help text into none/basic/rich per spec §4.3.
func classifyHelp(text string) HelpQuality {
	text = strings.TrimSpace(text)
	if text == "" {
		return HelpNone
	}
	if len(text) > 500 && richMarkers.MatchString(text) {
		return HelpRich
	}
	if len(text) > 100 || strings.Contains(text, "--") {
		return HelpBasic
	}
	return HelpNone
}

// categorize buckets a path into spec §3's Category enum.
func categorize(path string) Category {
	if userLocalBin.MatchString(path) {
		return CategoryUserInstalled
	}
	if languageToolBin.MatchString(path) {
		return CategoryLanguageTool
	}
	if systemBin.MatchString(path) {
		return CategorySystem
	}
	return CategoryUnknown
}

// score implements spec §4.3's scoring table.
func score(name, path string, quality HelpQuality) int {
	total := 0

	if quality != HelpNone {
		total += 10
	}
	switch quality {
	case HelpRich:
		total += 8
	case HelpBasic:
		total += 4
	}

	if l := len(name); l >= 3 && l <= 15 {
		total += 2
	}
	if hyphenCompound.MatchString(name) {
		total += 2
	}
	if versionSuffix.MatchString(name) {
		total -= 3
	}
	if isAllUpper(name) {
		total -= 2
	}

	switch categorize(path) {
	case CategoryUserInstalled:
		total += 5
	case CategoryLanguageTool:
		total += 3
	case CategorySystem:
		total -= 2
	case CategoryUnknown:
		total += 1
	}

	return total
}
