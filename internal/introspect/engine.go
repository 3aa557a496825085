// Package introspect combines the child runner (C2) and the help parser
// (C4) into a cached command tree per CLI, and resolves a menu path plus
// chosen options back into an argv for execution (spec §4.6, C6).
package introspect

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nextlevelbuilder/climb/internal/helpparse"
	"github.com/nextlevelbuilder/climb/internal/procrunner"
)

// DefaultTTL is how long a cached ParsedHelp entry is considered fresh
// before it is lazily refreshed on next access (spec §3).
const DefaultTTL = 5 * time.Minute

// Runner is the subset of procrunner's contract the engine needs; tests
// substitute a fake.
type Runner func(ctx context.Context, path string, args []string, opts procrunner.Options) (*procrunner.Result, error)

// Resolver maps a CLI name to its absolute path.
type Resolver func(name string) (string, error)

// Options configures an Engine.
type Options struct {
	TTL         time.Duration
	DefaultArgs []string
	Timeout     time.Duration
	Run         Runner
	Resolve     Resolver
	// RateLimit bounds how often Introspect/Expand may spawn a fresh --help
	// child on a cache miss, independent of the TTL cache (throttling of
	// introspection churn). Discovery's AddSingleCliToCache does not go
	// through this limiter.
	RateLimit rate.Limit
	Burst     int
}

type cacheEntry struct {
	parsed    helpparse.ParsedHelp
	expiresAt time.Time
}

// Engine holds the two in-memory caches described in spec §4.6: a root
// ParsedHelp per CLI name, and a nested ParsedHelp per (CLI name,
// subcommand path).
type Engine struct {
	mu       sync.Mutex
	roots    map[string]*cacheEntry
	subtrees map[string]*cacheEntry
	inflight map[string]chan struct{}

	ttl         time.Duration
	defaultArgs []string
	timeout     time.Duration
	run         Runner
	resolve     Resolver
	limiter     *rate.Limiter
}

// New builds an Engine. A zero Options uses exec.LookPath for resolution,
// procrunner.Run for spawning, a 5 minute TTL, and no default args.
func New(opts Options) *Engine {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Run == nil {
		opts.Run = procrunner.Run
	}
	if opts.Resolve == nil {
		opts.Resolve = exec.LookPath
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	return &Engine{
		roots:       map[string]*cacheEntry{},
		subtrees:    map[string]*cacheEntry{},
		inflight:    map[string]chan struct{}{},
		ttl:         opts.TTL,
		defaultArgs: opts.DefaultArgs,
		timeout:     opts.Timeout,
		run:         opts.Run,
		resolve:     opts.Resolve,
		limiter:     rate.NewLimiter(opts.RateLimit, opts.Burst),
	}
}

func pathKey(cliName string, path []string) string {
	return cliName + "\x00" + strings.Join(path, "\x00")
}

// Introspect returns the root CommandNode for cliName, invoking the CLI's
// own --help only when the cached entry is absent or stale.
func (e *Engine) Introspect(ctx context.Context, cliName string) (helpparse.CommandNode, error) {
	parsed, err := e.ensure(ctx, cliName, nil)
	if err != nil {
		return helpparse.CommandNode{}, err
	}
	return e.buildNode(cliName, cliName, nil, parsed), nil
}

// Expand invokes `<cliName> <path...> --help`, caches the result under
// path, and returns the populated CommandNode for that path.
func (e *Engine) Expand(ctx context.Context, cliName string, path []string) (helpparse.CommandNode, error) {
	if len(path) == 0 {
		return e.Introspect(ctx, cliName)
	}
	parsed, err := e.ensure(ctx, cliName, path)
	if err != nil {
		return helpparse.CommandNode{}, err
	}
	name := path[len(path)-1]
	return e.buildNode(cliName, name, path, parsed), nil
}

// buildNode turns a ParsedHelp into a CommandNode whose children are
// recursively populated from any fresher, already-expanded subtree cache
// entries; a child with no such entry is left unexplored (nil Children).
// cliName is threaded through explicitly since it cannot be recovered from
// path/name alone once recursion passes the first level.
func (e *Engine) buildNode(cliName, name string, path []string, parsed helpparse.ParsedHelp) helpparse.CommandNode {
	node := helpparse.CommandNode{
		Name:       name,
		Confidence: 1,
		Options:    parsed.Options,
		Usages:     parsed.Usages,
	}
	children := make([]helpparse.CommandNode, len(parsed.Commands))
	for i, c := range parsed.Commands {
		childPath := append(append([]string{}, path...), c.Name)
		if sub, fresh := e.peekSubtree(cliName, childPath); fresh {
			c = e.buildNode(cliName, c.Name, childPath, sub)
		}
		children[i] = c
	}
	node.Children = children
	return node
}

func (e *Engine) peekSubtree(cliName string, path []string) (helpparse.ParsedHelp, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.subtrees[pathKey(cliName, path)]
	if !ok || time.Now().After(entry.expiresAt) {
		return helpparse.ParsedHelp{}, false
	}
	return entry.parsed, true
}

// ensure returns a fresh ParsedHelp for (cliName, path), refreshing via a
// child spawn when the cache is empty or stale. Concurrent callers asking
// for the same unpopulated key block on the same in-flight spawn instead
// of each starting their own (spec §5).
func (e *Engine) ensure(ctx context.Context, cliName string, path []string) (helpparse.ParsedHelp, error) {
	key := pathKey(cliName, path)

	for {
		e.mu.Lock()
		store := e.roots
		if len(path) > 0 {
			store = e.subtrees
		}
		if entry, ok := store[key]; ok && time.Now().Before(entry.expiresAt) {
			parsed := entry.parsed
			e.mu.Unlock()
			return parsed, nil
		}
		if wait, inflight := e.inflight[key]; inflight {
			e.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return helpparse.ParsedHelp{}, ctx.Err()
			}
		}
		done := make(chan struct{})
		e.inflight[key] = done
		e.mu.Unlock()

		parsed, err := e.fetch(ctx, cliName, path)

		e.mu.Lock()
		if err == nil {
			store[key] = &cacheEntry{parsed: parsed, expiresAt: time.Now().Add(e.ttl)}
		}
		delete(e.inflight, key)
		close(done)
		e.mu.Unlock()

		return parsed, err
	}
}

// fetch resolves the CLI's path, spawns `<path> <defaultArgs...> <path...>
// --help` honoring the rate limiter, and parses the output. Any C2
// failure, a spawn failure included, is folded into a ParsedHelp carrying
// warnings rather than propagated (spec §4.6 failure semantics); only a
// failure to resolve the CLI's path (wrapping ErrTargetNotFound) or a
// cancelled rate-limiter wait is returned as an error.
func (e *Engine) fetch(ctx context.Context, cliName string, path []string) (helpparse.ParsedHelp, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return helpparse.ParsedHelp{}, err
	}

	binPath, err := e.resolve(cliName)
	if err != nil {
		return helpparse.ParsedHelp{}, fmt.Errorf("introspect: resolving %q: %w: %w", cliName, ErrTargetNotFound, err)
	}

	args := make([]string, 0, len(e.defaultArgs)+len(path)+1)
	args = append(args, e.defaultArgs...)
	args = append(args, path...)
	args = append(args, "--help")

	res, err := e.run(ctx, binPath, args, procrunner.Options{TimeoutMs: int(e.timeout.Milliseconds())})
	if err != nil {
		return helpparse.ParsedHelp{
			Telemetry: helpparse.Telemetry{Warnings: []string{"spawn failed: " + err.Error()}},
		}, nil
	}

	combined := string(res.Stdout)
	if strings.TrimSpace(combined) == "" {
		combined = string(res.Stderr)
	}
	parsed := helpparse.Parse(combined)
	if res.TimedOut {
		parsed.Telemetry.Warnings = append(parsed.Telemetry.Warnings, "help invocation timed out")
	}
	return parsed, nil
}

// ErrTargetNotFound is wrapped, together with the resolver's own error, by
// the error Introspect and Expand return when the CLI's path cannot be
// resolved (spec §7: "C6 raises only when asked to execute a resolved argv
// whose target executable is absent").
var ErrTargetNotFound = errors.New("introspect: target executable not found")

// ChosenOption pairs a parsed Option with the value (if any) a front-end
// collected for it.
type ChosenOption struct {
	Option helpparse.Option
	Value  string
}

// ResolveArgv assembles a deterministic argv in the order
// [cliName, defaultArgs..., path..., flagsAndValues..., positionals...],
// reproducing each flag's originally-discovered value form (spec §4.6).
func (e *Engine) ResolveArgv(cliName string, path []string, chosen []ChosenOption, positionals []string) []string {
	argv := make([]string, 0, 4+len(e.defaultArgs)+len(path)+2*len(chosen)+len(positionals))
	argv = append(argv, cliName)
	argv = append(argv, e.defaultArgs...)
	argv = append(argv, path...)
	for _, c := range chosen {
		argv = append(argv, flagTokens(c)...)
	}
	argv = append(argv, positionals...)
	return argv
}

func flagTokens(c ChosenOption) []string {
	o := c.Option
	if !o.TakesValue {
		if o.Long != "" {
			return []string{o.Long}
		}
		return []string{o.Short}
	}
	switch o.ValueStyle {
	case helpparse.ValueStyleEquals:
		return []string{o.Long + "=" + c.Value}
	case helpparse.ValueStyleShortSpace:
		return []string{o.Short, c.Value}
	default:
		if o.Long != "" {
			return []string{o.Long, c.Value}
		}
		return []string{o.Short, c.Value}
	}
}
