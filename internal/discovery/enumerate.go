package discovery

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// pathSeparator is the platform's PATH list separator.
func pathSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}

// splitPath breaks a PATH string into its directories, dropping empties.
func splitPath(path string) []string {
	var dirs []string
	for _, d := range strings.Split(path, pathSeparator()) {
		d = strings.TrimSpace(d)
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// enumerate performs Phase A: walk every directory on PATH, keep regular
// files or symlinks with any execute bit set, skip dotfiles, and dedupe by
// name preferring the earlier directory in PATH.
func enumerate(pathEnv string) []candidate {
	seen := make(map[string]bool)
	var out []candidate

	for _, dir := range splitPath(pathEnv) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			// Unreadable directory: skip silently (spec §7 PermissionDenied).
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			if seen[name] {
				continue
			}
			full := filepath.Join(dir, name)
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if !isExecutableCandidate(info) {
				continue
			}
			seen[name] = true
			out = append(out, candidate{name: name, path: full})
		}
	}
	return out
}

// isExecutableCandidate reports whether a directory entry is a regular file
// with any execute bit set, or a symlink. info comes from DirEntry.Info,
// which does not follow symlinks, so a symlink entry is accepted as-is: its
// target is not resolved and the target's permission bits are not checked.
func isExecutableCandidate(info os.FileInfo) bool {
	mode := info.Mode()
	if mode&os.ModeSymlink != 0 {
		return true
	}
	if !mode.IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return mode.Perm()&0o111 != 0
}
