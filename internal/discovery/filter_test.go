package discovery

import "testing"

func TestIsNoiseShortNames(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"ls", true},
		{"a", true},
		{"cat", false},
		{"git", false},
	}
	for _, c := range cases {
		if got := isNoise(c.name, "/usr/bin/"+c.name); got != c.want {
			t.Errorf("isNoise(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestIsNoiseVersionSuffix(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"python3.11", true},
		{"gcc-11", true},
		{"python3", false},
		{"node", false},
	}
	for _, c := range cases {
		if got := isNoise(c.name, "/usr/bin/"+c.name); got != c.want {
			t.Errorf("isNoise(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestIsNoiseAllUpperShort(t *testing.T) {
	if !isNoise("ENV", "/usr/bin/ENV") {
		t.Error("expected short all-upper name to be noise")
	}
	if isNoise("DOCKER-COMPOSE", "/usr/bin/DOCKER-COMPOSE") {
		t.Error("did not expect long all-upper name to be noise")
	}
}

func TestIsNoiseNonCLIExtension(t *testing.T) {
	if !isNoise("libfoo.so", "/usr/lib/libfoo.so") {
		t.Error("expected .so file to be noise")
	}
	if !isNoise("notes.txt", "/usr/bin/notes.txt") {
		t.Error("expected .txt file to be noise")
	}
}

func TestIsNoiseBackupSuffix(t *testing.T) {
	if !isNoise("myscript~", "/usr/bin/myscript~") {
		t.Error("expected ~ backup file to be noise")
	}
	if !isNoise("config.bak", "/usr/bin/config.bak") {
		t.Error("expected .bak file to be noise")
	}
}

func TestIsNoiseSystemOnlyTree(t *testing.T) {
	if !isNoise("coreauthd", "/System/Library/CoreServices/coreauthd") {
		t.Error("expected /System/Library/ path to be noise")
	}
}

func TestIsNoiseForeignOSOnUnix(t *testing.T) {
	if !isNoise("notepad", "/mnt/c/Windows/System32/notepad.exe") {
		t.Error("expected /mnt/ windows path to be noise on a unix host")
	}
}

func TestIsNoiseKeepsOrdinaryHyphenatedTool(t *testing.T) {
	if isNoise("docker-compose", "/usr/local/bin/docker-compose") {
		t.Error("did not expect an ordinary hyphenated tool name to be noise")
	}
}
