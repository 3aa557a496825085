package discovery

import (
	"regexp"
	"runtime"
	"strings"
)

// versionSuffix matches a trailing version tag like "-3.11", ".3.11", or two
// or more trailing digits ("gcc11"). A single trailing digit ("python3") is
// not matched.
var versionSuffix = regexp.MustCompile(`(?:[-.]\d+(?:\.\d+)*|\d{2,})$`)

var nonCLIExtensions = map[string]bool{
	".so": true, ".a": true, ".dylib": true, ".dll": true, ".o": true,
	".conf": true, ".txt": true, ".md": true, ".json": true, ".xml": true,
	".yml": true, ".yaml": true,
}

var backupSuffixes = []string{"~", ".bak", ".swp"}

var systemOnlyTrees = []string{"/System/Library/", "/usr/libexec/"}

// guiBundleTokens mark a Windows .exe path as belonging to a GUI bundle
// rather than a genuine CLI, per spec §4.3 Phase B.
var guiBundleTokens = []string{"helper", "agent"}

// isNoise implements Phase B's mandatory early noise filter. It is pure and
// algorithmic: no hardcoded allow/deny list of program names, only shape
// heuristics over the name and path.
func isNoise(name, path string) bool {
	if len(name) <= 2 {
		return true
	}
	if versionSuffix.MatchString(name) {
		return true
	}
	if isAllUpper(name) && len(name) <= 4 {
		return true
	}
	if strings.HasPrefix(name, "_") {
		return true
	}
	if ext := extOf(name); ext != "" {
		if nonCLIExtensions[ext] {
			return true
		}
	}
	for _, suf := range backupSuffixes {
		if strings.HasSuffix(name, suf) {
			return true
		}
	}
	for _, tree := range systemOnlyTrees {
		if strings.Contains(path, tree) {
			return true
		}
	}
	if crossesForeignOS(path) {
		return true
	}
	return false
}

// crossesForeignOS drops paths that cross into another OS's executable area:
// on a non-Windows host, a path under /mnt/ or naming a .exe; on Windows, a
// .exe living under a Program Files directory that looks like a GUI bundle
// (macOS .app/Contents/MacOS/ style nesting, or a helper/agent token).
func crossesForeignOS(path string) bool {
	lower := strings.ToLower(path)
	if runtime.GOOS != "windows" {
		if strings.HasPrefix(path, "/mnt/") || strings.Contains(path, "/mnt/") {
			return true
		}
		if strings.HasSuffix(lower, ".exe") {
			return true
		}
		if strings.Contains(path, "Program Files") {
			return true
		}
		return false
	}

	if !strings.HasSuffix(lower, ".exe") {
		return false
	}
	if !strings.Contains(path, "Program Files") {
		return false
	}
	if strings.Contains(lower, ".app/contents/macos/") {
		return true
	}
	for _, tok := range guiBundleTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func extOf(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return strings.ToLower(name[i:])
}
