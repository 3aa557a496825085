package config

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/titanous/json5"
)

// knownFields lists the JSON keys Config itself models; everything else
// round-trips through c.unknown untouched, matching the teacher's
// "decode into a side map, merge back on save" approach to forward
// compatibility (spec §6: "Unknown fields are preserved across writes").
var knownFields = map[string]bool{
	"version": true, "targetCLI": true, "cliPath": true, "defaultArgs": true,
	"cacheTtl": true, "theme": true, "timeouts": true, "execution": true,
}

// MarshalJSON emits the modeled fields plus any preserved unknown ones.
func (c *Config) MarshalJSON() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	type alias Config
	base, err := json.Marshal((*alias)(c))
	if err != nil {
		return nil, err
	}
	if len(c.unknown) == 0 {
		return base, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range c.unknown {
		if !knownFields[k] {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes the modeled fields and stashes any unrecognised
// ones in c.unknown so a later Save does not discard them.
func (c *Config) UnmarshalJSON(data []byte) error {
	type alias Config
	if err := json.Unmarshal(data, (*alias)(c)); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.unknown = make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		if !knownFields[k] {
			c.unknown[k] = v
		}
	}
	return nil
}

// Load reads the config at path, falling back to Default() if the file is
// absent. A malformed file (spec §7 ConfigInvalid) never aborts startup:
// the error is logged as a hint and defaults are returned instead.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := json5.Unmarshal(data, cfg); err != nil {
		slog.Warn("config.invalid", "path", path, "error", err, "hint", "falling back to defaults")
		cfg = Default()
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	if err := validate(cfg); err != nil {
		slog.Warn("config.invalid", "path", path, "error", err, "hint", "falling back to defaults")
		cfg = Default()
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes cfg to path atomically: a temp file in the same directory is
// written and fsynced, then renamed over the target, matching the
// teacher's internal/sessions.Manager.save pattern so a crash mid-write
// never corrupts the previous good config (spec SPEC_FULL.md S1).
func Save(path string, cfg *Config) error {
	cfg.mu.RLock()
	data, err := json.MarshalIndent(cfg, "", "  ")
	cfg.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".climb-config-*.tmp")
	if err != nil {
		return fmt.Errorf("config: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("config: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("config: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: close temp: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Hash returns a truncated SHA-256 hex digest of the config's JSON form,
// matching the teacher's Config.Hash() cache-keying pattern exactly.
func (c *Config) Hash() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, _ := json.Marshal(c)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:8])
}

// DefaultPath resolves the config file location: $CLIMB_CONFIG if set,
// otherwise "climb.json5" in the current directory.
func DefaultPath() string {
	if v := os.Getenv("CLIMB_CONFIG"); v != "" {
		return v
	}
	return "climb.json5"
}
