package discovery

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestEnumerateSkipsDotfilesAndNonExecutables(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not meaningful on windows")
	}
	dir := t.TempDir()
	write := func(name string, perm os.FileMode) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), perm); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("tool", 0o755)
	write(".hidden", 0o755)
	write("data.txt", 0o644)

	got := enumerate(dir)
	names := map[string]bool{}
	for _, c := range got {
		names[c.name] = true
	}
	if !names["tool"] {
		t.Error("expected executable 'tool' to be enumerated")
	}
	if names[".hidden"] {
		t.Error("did not expect dotfile to be enumerated")
	}
	if names["data.txt"] {
		t.Error("did not expect non-executable file to be enumerated")
	}
}

func TestEnumerateDedupesPreferringEarlierPathEntry(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not meaningful on windows")
	}
	first := t.TempDir()
	second := t.TempDir()
	if err := os.WriteFile(filepath.Join(first, "tool"), []byte("x"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(second, "tool"), []byte("x"), 0o755); err != nil {
		t.Fatal(err)
	}

	got := enumerate(first + pathSeparator() + second)
	var matches []candidate
	for _, c := range got {
		if c.name == "tool" {
			matches = append(matches, c)
		}
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly one 'tool' entry, got %d", len(matches))
	}
	if matches[0].path != filepath.Join(first, "tool") {
		t.Errorf("path = %q, want entry from first PATH dir", matches[0].path)
	}
}

func TestEnumerateSkipsUnreadableDirectory(t *testing.T) {
	got := enumerate(filepath.Join(t.TempDir(), "does-not-exist"))
	if len(got) != 0 {
		t.Errorf("expected no candidates from a missing directory, got %d", len(got))
	}
}
