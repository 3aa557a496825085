package discovery

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nextlevelbuilder/climb/internal/procrunner"
)

// probeFlags is the fixed, ordered set of flags tried against each
// candidate. Spec §4.3: sequential within a candidate, stop at the first
// flag whose combined stdout+stderr exceeds 10 characters.
var probeFlags = []string{"--help", "-h", "-?"}

const probeTimeoutMs = 2000
const substantiveOutputThreshold = 10

type probeResult struct {
	helpText string
	hasHelp  bool
}

// probe runs each flag in probeFlags against path in order, stopping at the
// first one that produces substantive output, using the package default
// timeout. It never returns an error: a spawn failure or empty output is
// recorded as "no help" and discovery continues with the next candidate
// (spec §7: discovery never aborts on a single candidate's failure).
func probe(ctx context.Context, path string) probeResult {
	return probeWithTimeout(ctx, path, probeTimeoutMs)
}

// probeWithTimeout is probe with a caller-supplied per-flag timeout,
// exposed so Discover can honor Options.ProbeTimeoutMs (spec §6's
// "timeoutMs" Discover option) without disturbing probe's own tests.
func probeWithTimeout(ctx context.Context, path string, timeoutMs int) probeResult {
	if timeoutMs <= 0 {
		timeoutMs = probeTimeoutMs
	}
	for _, flag := range probeFlags {
		res, err := procrunner.Run(ctx, path, []string{flag}, procrunner.Options{
			TimeoutMs:      timeoutMs,
			MaxStdoutBytes: procrunner.DefaultMaxStdoutBytes,
		})
		if err != nil {
			slog.Debug("discovery.probe spawn failed", "path", path, "flag", flag, "err", err)
			continue
		}
		combined := strings.TrimSpace(string(res.Stdout) + string(res.Stderr))
		if len(combined) > substantiveOutputThreshold {
			return probeResult{helpText: combined, hasHelp: true}
		}
	}
	return probeResult{}
}
