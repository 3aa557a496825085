package discovery

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

const cacheFileName = "cli-discovery-cache.json"

// DefaultCacheTTL is the lifetime of a discovery cache entry before it is
// considered stale regardless of PATH hash (spec §4.3).
const DefaultCacheTTL = 24 * time.Hour

// cacheFile is the on-disk shape written by saveCache and read by loadCache.
// Grounded on the teacher's internal/config.Config.Hash()/Save() pattern:
// a hash of the input that invalidates the cache on any change, plus an
// atomic temp-file-then-rename write so a crash mid-write never corrupts
// the previous good cache.
type cacheFile struct {
	Timestamp time.Time       `json:"timestamp"`
	PathHash  string          `json:"pathHash"`
	CLIs      []DiscoveredCLI `json:"clis"`
}

// hashPath returns a short hex digest of the PATH string, used to detect
// whether the environment has changed since the cache was written.
func hashPath(pathEnv string) string {
	sum := sha256.Sum256([]byte(pathEnv))
	return hex.EncodeToString(sum[:])[:16]
}

func cachePath(dir string) string {
	return filepath.Join(dir, cacheFileName)
}

// CachePath returns the path to the discovery cache file under dir,
// exposed so inspection front-ends can locate it without duplicating
// cacheFileName (SPEC_FULL.md S2).
func CachePath(dir string) string {
	return cachePath(dir)
}

// loadCache returns the cached CLIs if present, fresh (within ttl), and
// keyed by the same PATH hash. Any read/parse failure is treated as a
// cache miss, never an error: a corrupt cache must never block discovery.
func loadCache(dir, pathEnv string, ttl time.Duration) ([]DiscoveredCLI, bool) {
	raw, err := os.ReadFile(cachePath(dir))
	if err != nil {
		return nil, false
	}
	var cf cacheFile
	if err := json.Unmarshal(raw, &cf); err != nil {
		return nil, false
	}
	if cf.PathHash != hashPath(pathEnv) {
		return nil, false
	}
	if ttl > 0 && time.Since(cf.Timestamp) > ttl {
		return nil, false
	}
	return cf.CLIs, true
}

// saveCache writes the cache atomically: write to a temp file in the same
// directory, fsync, then rename over the target. Grounded on the teacher's
// internal/sessions.Manager save pattern.
func saveCache(dir, pathEnv string, clis []DiscoveredCLI, now time.Time) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	cf := cacheFile{Timestamp: now, PathHash: hashPath(pathEnv), CLIs: clis}
	raw, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".cli-discovery-cache-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, cachePath(dir))
}

// CacheSnapshot is a read-only view of the on-disk discovery cache, used
// by inspection front-ends (SPEC_FULL.md S2's "climb cache show") that
// want to report the cache's state without triggering a fresh discovery
// as a side effect.
type CacheSnapshot struct {
	Timestamp   time.Time
	PathMatches bool
	EntryCount  int
}

// Peek reads the discovery cache at dir without validating its TTL or
// writing anything, reporting whether pathEnv still hashes to the stored
// PathHash. It returns ok=false if no cache file is present or it fails
// to parse (spec §7 CacheCorruption: treated as absent).
func Peek(dir, pathEnv string) (CacheSnapshot, bool) {
	raw, err := os.ReadFile(cachePath(dir))
	if err != nil {
		return CacheSnapshot{}, false
	}
	var cf cacheFile
	if err := json.Unmarshal(raw, &cf); err != nil {
		return CacheSnapshot{}, false
	}
	return CacheSnapshot{
		Timestamp:   cf.Timestamp,
		PathMatches: cf.PathHash == hashPath(pathEnv),
		EntryCount:  len(cf.CLIs),
	}, true
}

// defaultCacheDir resolves to the user's config directory, matching where
// the teacher keeps its own config and session state.
func defaultCacheDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.New("discovery: cannot resolve user config dir: " + err.Error())
	}
	return filepath.Join(dir, "climb"), nil
}
