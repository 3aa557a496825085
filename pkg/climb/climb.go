// Package climb is the programmatic API the core introspection/execution
// engine exposes to any front-end (spec §1, §6): discovery, help parsing,
// output parsing, child execution, and CLI introspection/argv resolution.
// It plays the same role in this module that pkg/protocol plays in the
// teacher repo — a small public package exposing the system's contract to
// external consumers, rather than a God object. cmd/climb is one such
// consumer, demonstrated as a reference, not a required part of the core.
package climb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nextlevelbuilder/climb/internal/discovery"
	"github.com/nextlevelbuilder/climb/internal/helpparse"
	"github.com/nextlevelbuilder/climb/internal/introspect"
	"github.com/nextlevelbuilder/climb/internal/procrunner"
	"github.com/nextlevelbuilder/climb/internal/tableparse"
	"github.com/nextlevelbuilder/climb/internal/telemetry"
)

// Re-exported types so a front-end never has to import internal packages
// directly; these are spec §3's data model, unchanged.
type (
	DiscoveredCLI  = discovery.DiscoveredCLI
	HelpQuality    = discovery.HelpQuality
	Category       = discovery.Category
	CommandNode    = helpparse.CommandNode
	Option         = helpparse.Option
	Usage          = helpparse.Usage
	ParsedHelp     = helpparse.ParsedHelp
	ExecutorResult = procrunner.Result
	TableRecords   = tableparse.Records
	ChosenOption   = introspect.ChosenOption
)

// HelpQuality buckets (spec §3), re-exported for front-ends that don't want
// to import internal/discovery directly.
const (
	HelpNone  = discovery.HelpNone
	HelpBasic = discovery.HelpBasic
	HelpRich  = discovery.HelpRich
)

// DiscoverOptions configures Discover (spec §6's "options: maxConcurrent,
// timeoutMs, minScore, limit, useCache, cacheTtlMs, onProgress").
type DiscoverOptions struct {
	MaxConcurrent int64
	TimeoutMs     int
	MinScore      int
	Limit         int
	UseCache      *bool
	CacheTTLMs    int
	OnProgress    func(processed, total int)
	PathEnv       string
	ForceRefresh  bool
}

// EngineOptions configures a new Engine.
type EngineOptions struct {
	// IntrospectionTTLMs is how long a parsed command tree stays fresh
	// before being lazily refreshed (spec §3, default 5 min).
	IntrospectionTTLMs int
	// DefaultArgs are prepended to every argv this Engine assembles or
	// introspects with (e.g. ["--no-pager"] for git).
	DefaultArgs []string
	// IntrospectionTimeoutMs bounds each --help invocation Introspect/Expand
	// makes.
	IntrospectionTimeoutMs int
}

// Engine is the facade gathering all of spec §6's programmatic API onto a
// single handle: discovery, parsing, execution, and introspection.
type Engine struct {
	introspect *introspect.Engine
}

// New builds an Engine ready to use; a zero EngineOptions uses the package
// defaults documented on introspect.Engine.
func New(opts EngineOptions) *Engine {
	iopts := introspect.Options{DefaultArgs: opts.DefaultArgs}
	if opts.IntrospectionTTLMs > 0 {
		iopts.TTL = msToDuration(opts.IntrospectionTTLMs)
	}
	if opts.IntrospectionTimeoutMs > 0 {
		iopts.Timeout = msToDuration(opts.IntrospectionTimeoutMs)
	}
	return &Engine{introspect: introspect.New(iopts)}
}

// Discover enumerates and scores candidate CLIs on PATH (C3, spec §4.3).
func Discover(ctx context.Context, opts DiscoverOptions) ([]DiscoveredCLI, error) {
	ctx, span := telemetry.Start(ctx, "climb.discover")
	defer span.End()

	dopts := discovery.Options{
		PathEnv:        opts.PathEnv,
		ForceRefresh:   opts.ForceRefresh,
		MaxConcurrency: opts.MaxConcurrent,
		MinScore:       opts.MinScore,
		ProbeTimeoutMs: opts.TimeoutMs,
		Limit:          opts.Limit,
		UseCache:       opts.UseCache,
		OnProgress:     opts.OnProgress,
	}
	if opts.CacheTTLMs > 0 {
		dopts.CacheTTL = msToDuration(opts.CacheTTLMs)
	}

	results, err := discovery.Discover(ctx, dopts)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("climb: discover: %w", err)
	}
	slog.Debug("climb.discover", "count", len(results))
	return results, nil
}

// AddSingleCliToCache resolves name on PATH, probes it once, and updates
// the on-disk discovery cache (spec §6, §4.3 "Single-CLI update").
func AddSingleCliToCache(ctx context.Context, name string) (DiscoveredCLI, error) {
	ctx, span := telemetry.Start(ctx, "climb.add_single_cli")
	defer span.End()

	entry, err := discovery.AddSingleCliToCache(ctx, name, discovery.Options{})
	if err != nil {
		span.SetError(err)
		return DiscoveredCLI{}, fmt.Errorf("climb: add %q to cache: %w", name, err)
	}
	return entry, nil
}

// ParseHelp turns free-form --help text into a structured ParsedHelp (C4,
// spec §4.4). It never fails.
func ParseHelp(text string) ParsedHelp {
	return helpparse.Parse(text)
}

// ParseRecords turns command output into an ordered list of records (C5,
// spec §4.5). It never fails — unmatched input becomes a single fallback
// record.
func ParseRecords(text string) TableRecords {
	return tableparse.ParseRecords(text)
}

// RunOptions configures Run.
type RunOptions struct {
	TimeoutMs      int
	MaxStdoutBytes int
	Env            []string
}

// Run spawns path with args in the sandbox environment and returns its
// captured result (C2, spec §4.2). It returns an error only when the
// child could not be spawned at all.
func Run(ctx context.Context, path string, args []string, opts RunOptions) (*ExecutorResult, error) {
	ctx, span := telemetry.Start(ctx, "climb.run")
	defer span.End()

	res, err := procrunner.Run(ctx, path, args, procrunner.Options{
		TimeoutMs:      opts.TimeoutMs,
		MaxStdoutBytes: opts.MaxStdoutBytes,
		Env:            opts.Env,
	})
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("climb: run %s: %w", path, err)
	}
	return res, nil
}

// Introspect returns the root CommandNode for cliName, spawning
// `<cliName> --help` only when no fresh cached entry exists (C6, spec §4.6).
func (e *Engine) Introspect(ctx context.Context, cliName string) (CommandNode, error) {
	ctx, span := telemetry.Start(ctx, "climb.introspect")
	defer span.End()

	node, err := e.introspect.Introspect(ctx, cliName)
	if err != nil {
		span.SetError(err)
		return CommandNode{}, err
	}
	return node, nil
}

// Expand lazily populates the CommandNode at path by spawning
// `<cliName> <path...> --help` (C6, spec §4.6 "lazy expansion").
func (e *Engine) Expand(ctx context.Context, cliName string, path []string) (CommandNode, error) {
	ctx, span := telemetry.Start(ctx, "climb.expand")
	defer span.End()

	node, err := e.introspect.Expand(ctx, cliName, path)
	if err != nil {
		span.SetError(err)
		return CommandNode{}, err
	}
	return node, nil
}

// ResolveArgv assembles the argv a front-end should pass to Run once a user
// has chosen a subcommand path, option values, and positionals (C6, spec
// §4.6).
func (e *Engine) ResolveArgv(cliName string, path []string, chosen []ChosenOption, positionals []string) []string {
	return e.introspect.ResolveArgv(cliName, path, chosen, positionals)
}

// msToDuration adapts spec §6's millisecond-int option names (timeoutMs,
// cacheTtlMs, ...) to the time.Duration internal packages use.
func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
