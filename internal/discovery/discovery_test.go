package discovery

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}
}

// writeFakeBin writes an executable shell script named name into dir that
// touches a marker file (so the test can prove whether it was ever
// invoked) and prints helpText on --help.
func writeFakeBin(t *testing.T, dir, name, helpText, markerDir string) {
	t.Helper()
	marker := filepath.Join(markerDir, name+".invoked")
	script := "#!/bin/sh\ntouch " + marker + "\ncat <<'EOF'\n" + helpText + "\nEOF\n"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake bin %s: %v", name, err)
	}
}

func richHelpBody() string {
	body := "SYNOPSIS\n  mytool [options]\nDESCRIPTION\n  a fake tool used in tests.\nOPTIONS\n  --help  show help\nCOMMANDS\n  run     do the thing\nEXAMPLES\n  mytool run\n"
	for len(body) < 600 {
		body += "  more filler text to push this past the rich-help length threshold.\n"
	}
	return body
}

func TestDiscoverFindsSubstantiveCLIAndSkipsNoise(t *testing.T) {
	requireShell(t)
	binDir := t.TempDir()
	markerDir := t.TempDir()
	cacheDir := t.TempDir()

	writeFakeBin(t, binDir, "mytool", richHelpBody(), markerDir)
	// "ab" is noise per Phase B (name length <= 2) and must never be probed.
	writeFakeBin(t, binDir, "ab", richHelpBody(), markerDir)

	results, err := Discover(context.Background(), Options{
		PathEnv:      binDir,
		CacheDir:     cacheDir,
		ForceRefresh: true,
	})
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}

	var found *DiscoveredCLI
	for i := range results {
		if results[i].Name == "mytool" {
			found = &results[i]
		}
	}
	if found == nil {
		t.Fatalf("expected 'mytool' in discovery results, got %+v", results)
	}
	if !found.HasHelp || found.HelpQuality != HelpRich {
		t.Errorf("mytool: hasHelp=%v quality=%v, want true/rich", found.HasHelp, found.HelpQuality)
	}

	if _, err := os.Stat(filepath.Join(markerDir, "mytool.invoked")); err != nil {
		t.Error("expected mytool to have been invoked by the prober")
	}
	if _, err := os.Stat(filepath.Join(markerDir, "ab.invoked")); err == nil {
		t.Error("noise candidate 'ab' must never be spawned (Phase B safety)")
	}
}

func TestDiscoverCachesAndReusesUntilPathChanges(t *testing.T) {
	requireShell(t)
	binDir := t.TempDir()
	markerDir := t.TempDir()
	cacheDir := t.TempDir()
	writeFakeBin(t, binDir, "mytool", richHelpBody(), markerDir)

	opts := Options{PathEnv: binDir, CacheDir: cacheDir}
	if _, err := Discover(context.Background(), opts); err != nil {
		t.Fatalf("first Discover: %v", err)
	}
	if err := os.Remove(filepath.Join(markerDir, "mytool.invoked")); err != nil {
		t.Fatalf("remove marker: %v", err)
	}

	if _, err := Discover(context.Background(), opts); err != nil {
		t.Fatalf("second Discover: %v", err)
	}
	if _, err := os.Stat(filepath.Join(markerDir, "mytool.invoked")); err == nil {
		t.Error("expected cached Discover to skip re-probing (marker should be absent)")
	}

	binDir2 := t.TempDir()
	writeFakeBin(t, binDir2, "othertool", richHelpBody(), markerDir)
	opts2 := Options{PathEnv: binDir2, CacheDir: cacheDir}
	results, err := Discover(context.Background(), opts2)
	if err != nil {
		t.Fatalf("Discover with changed PATH: %v", err)
	}
	names := map[string]bool{}
	for _, r := range results {
		names[r.Name] = true
	}
	if !names["othertool"] {
		t.Error("expected a changed PATH to invalidate the cache and discover the new tool")
	}
}

func TestDiscoverRespectsCacheTTL(t *testing.T) {
	requireShell(t)
	binDir := t.TempDir()
	markerDir := t.TempDir()
	cacheDir := t.TempDir()
	writeFakeBin(t, binDir, "mytool", richHelpBody(), markerDir)

	opts := Options{PathEnv: binDir, CacheDir: cacheDir, CacheTTL: time.Millisecond}
	if _, err := Discover(context.Background(), opts); err != nil {
		t.Fatalf("first Discover: %v", err)
	}
	if err := os.Remove(filepath.Join(markerDir, "mytool.invoked")); err != nil {
		t.Fatalf("remove marker: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := Discover(context.Background(), opts); err != nil {
		t.Fatalf("second Discover: %v", err)
	}
	if _, err := os.Stat(filepath.Join(markerDir, "mytool.invoked")); err != nil {
		t.Error("expected an expired cache to trigger re-probing")
	}
}

func TestDiscoverAppliesLimit(t *testing.T) {
	requireShell(t)
	binDir := t.TempDir()
	markerDir := t.TempDir()
	cacheDir := t.TempDir()
	writeFakeBin(t, binDir, "toolone", richHelpBody(), markerDir)
	writeFakeBin(t, binDir, "tooltwo", richHelpBody(), markerDir)

	results, err := Discover(context.Background(), Options{
		PathEnv:      binDir,
		CacheDir:     cacheDir,
		ForceRefresh: true,
		Limit:        1,
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("len(results) = %d, want 1 (Limit honored)", len(results))
	}
}

func TestDiscoverInvokesOnProgress(t *testing.T) {
	requireShell(t)
	binDir := t.TempDir()
	markerDir := t.TempDir()
	cacheDir := t.TempDir()
	writeFakeBin(t, binDir, "toolone", richHelpBody(), markerDir)
	writeFakeBin(t, binDir, "tooltwo", richHelpBody(), markerDir)

	var calls []int
	_, err := Discover(context.Background(), Options{
		PathEnv:      binDir,
		CacheDir:     cacheDir,
		ForceRefresh: true,
		OnProgress: func(processed, total int) {
			calls = append(calls, processed)
			if total != 2 {
				t.Errorf("total = %d, want 2", total)
			}
		},
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(calls) != 2 || calls[len(calls)-1] != 2 {
		t.Errorf("onProgress calls = %v, want a call per candidate ending at 2", calls)
	}
}

func TestDiscoverUseCacheFalseSkipsReadAndWrite(t *testing.T) {
	requireShell(t)
	binDir := t.TempDir()
	markerDir := t.TempDir()
	cacheDir := t.TempDir()
	writeFakeBin(t, binDir, "mytool", richHelpBody(), markerDir)

	no := false
	opts := Options{PathEnv: binDir, CacheDir: cacheDir, UseCache: &no}
	if _, err := Discover(context.Background(), opts); err != nil {
		t.Fatalf("first Discover: %v", err)
	}
	if _, ok := loadCache(cacheDir, binDir, 0); ok {
		t.Error("expected UseCache=false to skip writing the cache file")
	}

	if err := os.Remove(filepath.Join(markerDir, "mytool.invoked")); err != nil {
		t.Fatalf("remove marker: %v", err)
	}
	if _, err := Discover(context.Background(), opts); err != nil {
		t.Fatalf("second Discover: %v", err)
	}
	if _, err := os.Stat(filepath.Join(markerDir, "mytool.invoked")); err != nil {
		t.Error("expected UseCache=false to re-probe instead of reading any cache")
	}
}

func TestAddSingleCliToCacheMergesIntoExistingEntries(t *testing.T) {
	requireShell(t)
	binDir := t.TempDir()
	markerDir := t.TempDir()
	cacheDir := t.TempDir()
	writeFakeBin(t, binDir, "mytool", richHelpBody(), markerDir)
	writeFakeBin(t, binDir, "second", richHelpBody(), markerDir)

	opts := Options{PathEnv: binDir, CacheDir: cacheDir}
	if _, err := Discover(context.Background(), opts); err != nil {
		t.Fatalf("Discover: %v", err)
	}

	oldPath := os.Getenv("PATH")
	defer os.Setenv("PATH", oldPath)
	os.Setenv("PATH", binDir)

	if _, err := AddSingleCliToCache(context.Background(), "second", opts); err != nil {
		t.Fatalf("AddSingleCliToCache: %v", err)
	}

	cached, ok := loadCache(cacheDir, binDir, 0)
	if !ok {
		t.Fatal("expected a cache to exist after AddSingleCliToCache")
	}
	names := map[string]bool{}
	for _, c := range cached {
		names[c.Name] = true
	}
	if !names["mytool"] || !names["second"] {
		t.Errorf("expected both mytool and second in cache, got %+v", cached)
	}
}
