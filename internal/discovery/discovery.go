package discovery

import (
	"context"
	"os"
	"os/exec"
	"sort"
	"time"

	"golang.org/x/sync/semaphore"
)

// MaxConcurrentProbes bounds how many candidates are probed at once. This
// is the single most important safety property of Phase C: an unbounded
// fan-out across hundreds of PATH entries could itself become a local
// denial-of-service, so every probe acquires a slot from a fixed-size
// semaphore before it may spawn a child process.
const MaxConcurrentProbes = 10

// Options configures a Discover call. A zero Options uses sane defaults:
// the current process's PATH, the default cache directory/TTL, and
// MaxConcurrentProbes workers.
type Options struct {
	PathEnv        string
	CacheDir       string
	CacheTTL       time.Duration
	ForceRefresh   bool
	MaxConcurrency int64
	MinScore       int
	// ProbeTimeoutMs bounds each help-flag probe (spec §4.3's default 2s).
	// Zero selects probeTimeoutMs.
	ProbeTimeoutMs int
	// Limit caps the number of returned results after scoring/sorting.
	// Zero means unlimited (spec §6 "limit").
	Limit int
	// UseCache disables both the on-disk cache read and write when it
	// points at false; nil means "use the cache" (spec §6 "useCache"),
	// matching the teacher's *bool "default true, nil = enabled" idiom
	// (e.g. MemoryFlushConfig.Enabled) so the zero Options value is
	// unambiguous.
	UseCache *bool
	// OnProgress, if set, is invoked after each candidate's probe completes
	// with (processed, total) candidate counts (spec §4.3 "a progress callback").
	OnProgress func(processed, total int)
}

func (o Options) resolve() (Options, error) {
	if o.PathEnv == "" {
		o.PathEnv = os.Getenv("PATH")
	}
	if o.CacheDir == "" {
		dir, err := defaultCacheDir()
		if err != nil {
			return o, err
		}
		o.CacheDir = dir
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = MaxConcurrentProbes
	}
	if o.MinScore == 0 {
		o.MinScore = DefaultMinScore
	}
	return o, nil
}

// Discover runs the three-phase PATH scan: enumerate every PATH entry
// (Phase A), drop algorithmic noise (Phase B), then probe and score the
// survivors with bounded concurrency (Phase C). Results are cached to disk
// and reused when the PATH hash matches and the cache has not expired.
func Discover(ctx context.Context, opts Options) ([]DiscoveredCLI, error) {
	opts, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	useCache := opts.UseCache == nil || *opts.UseCache

	if useCache && !opts.ForceRefresh {
		if cached, ok := loadCache(opts.CacheDir, opts.PathEnv, opts.CacheTTL); ok {
			return applyLimit(cached, opts.Limit), nil
		}
	}

	candidates := enumerate(opts.PathEnv)

	var survivors []candidate
	for _, c := range candidates {
		if isNoise(c.name, c.path) {
			continue
		}
		survivors = append(survivors, c)
	}

	results := probeAndScore(ctx, survivors, opts.MaxConcurrency, opts.MinScore, opts.ProbeTimeoutMs, opts.OnProgress)

	sortResults(results)

	if useCache {
		if err := saveCache(opts.CacheDir, opts.PathEnv, results, time.Now()); err != nil {
			// Cache write failure must never fail discovery itself; the
			// caller still gets a correct, freshly computed result.
			return applyLimit(results, opts.Limit), nil
		}
	}
	return applyLimit(results, opts.Limit), nil
}

// applyLimit truncates results to at most limit entries; zero means
// unlimited (spec §6 "limit").
func applyLimit(results []DiscoveredCLI, limit int) []DiscoveredCLI {
	if limit <= 0 || len(results) <= limit {
		return results
	}
	return results[:limit]
}

// probeAndScore probes every candidate with up to maxConcurrency workers
// running at once and returns the survivors whose score clears minScore.
// onProgress, if non-nil, is invoked after each candidate's probe
// completes with (processed, total) counts (spec §4.3 progress callback).
func probeAndScore(ctx context.Context, candidates []candidate, maxConcurrency int64, minScore, probeTimeoutMs int, onProgress func(int, int)) []DiscoveredCLI {
	sem := semaphore.NewWeighted(maxConcurrency)
	out := make([]DiscoveredCLI, len(candidates))
	ok := make([]bool, len(candidates))

	done := make(chan int, len(candidates))
	for i, c := range candidates {
		i, c := i, c
		if err := sem.Acquire(ctx, 1); err != nil {
			done <- -1
			continue
		}
		go func() {
			defer sem.Release(1)
			defer func() { done <- i }()

			pr := probeWithTimeout(ctx, c.path, probeTimeoutMs)
			quality := classifyHelp(pr.helpText)
			s := score(c.name, c.path, quality)
			if s < minScore {
				return
			}
			out[i] = DiscoveredCLI{
				Name:        c.name,
				Path:        c.path,
				Score:       s,
				HasHelp:     pr.hasHelp,
				HelpQuality: quality,
				Category:    categorize(c.path),
			}
			ok[i] = true
		}()
	}

	processed := 0
	for range candidates {
		<-done
		processed++
		if onProgress != nil {
			onProgress(processed, len(candidates))
		}
	}

	var results []DiscoveredCLI
	for i, present := range ok {
		if present {
			results = append(results, out[i])
		}
	}
	return results
}

// sortResults orders by descending score, then name, for determinism.
func sortResults(results []DiscoveredCLI) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Name < results[j].Name
	})
}

// AddSingleCliToCache resolves name on PATH, probes and scores it once, and
// inserts or updates its entry in the on-disk cache without re-running a
// full discovery pass. Used when a caller already knows the CLI it wants
// (spec §6 Programmatic API).
func AddSingleCliToCache(ctx context.Context, name string, opts Options) (DiscoveredCLI, error) {
	opts, err := opts.resolve()
	if err != nil {
		return DiscoveredCLI{}, err
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return DiscoveredCLI{}, err
	}

	pr := probe(ctx, path)
	quality := classifyHelp(pr.helpText)
	entry := DiscoveredCLI{
		Name:        name,
		Path:        path,
		Score:       score(name, path, quality),
		HasHelp:     pr.hasHelp,
		HelpQuality: quality,
		Category:    categorize(path),
	}

	existing, _ := loadCache(opts.CacheDir, opts.PathEnv, 0)
	merged := make([]DiscoveredCLI, 0, len(existing)+1)
	for _, e := range existing {
		if e.Name == name {
			continue
		}
		merged = append(merged, e)
	}
	merged = append(merged, entry)
	sortResults(merged)

	if err := saveCache(opts.CacheDir, opts.PathEnv, merged, time.Now()); err != nil {
		return entry, err
	}
	return entry, nil
}
