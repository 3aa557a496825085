package discovery

import (
	"testing"
	"time"
)

func TestSaveAndLoadCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	clis := []DiscoveredCLI{{Name: "tool", Path: "/usr/bin/tool", Score: 12, HasHelp: true, HelpQuality: HelpBasic, Category: CategorySystem}}

	if err := saveCache(dir, "/usr/bin", clis, time.Now()); err != nil {
		t.Fatalf("saveCache: %v", err)
	}
	got, ok := loadCache(dir, "/usr/bin", time.Hour)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 1 || got[0].Name != "tool" {
		t.Errorf("got %+v, want one entry named tool", got)
	}
}

func TestLoadCacheMissesOnPathHashMismatch(t *testing.T) {
	dir := t.TempDir()
	if err := saveCache(dir, "/usr/bin", []DiscoveredCLI{{Name: "tool"}}, time.Now()); err != nil {
		t.Fatalf("saveCache: %v", err)
	}
	if _, ok := loadCache(dir, "/usr/local/bin", time.Hour); ok {
		t.Error("expected cache miss when PATH string differs")
	}
}

func TestLoadCacheMissesOnExpiry(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-48 * time.Hour)
	if err := saveCache(dir, "/usr/bin", []DiscoveredCLI{{Name: "tool"}}, old); err != nil {
		t.Fatalf("saveCache: %v", err)
	}
	if _, ok := loadCache(dir, "/usr/bin", 24*time.Hour); ok {
		t.Error("expected cache miss for an entry older than the TTL")
	}
}

func TestLoadCacheMissesOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, ok := loadCache(dir, "/usr/bin", time.Hour); ok {
		t.Error("expected cache miss when no cache file exists")
	}
}

func TestHashPathDeterministicAndSensitive(t *testing.T) {
	if hashPath("/usr/bin") != hashPath("/usr/bin") {
		t.Error("expected hashPath to be deterministic")
	}
	if hashPath("/usr/bin") == hashPath("/usr/local/bin") {
		t.Error("expected different PATH strings to hash differently")
	}
}
