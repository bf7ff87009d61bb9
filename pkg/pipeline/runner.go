package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/phylotree/pkg/cache"
	"github.com/matzehuels/phylotree/pkg/colors"
	"github.com/matzehuels/phylotree/pkg/groups"
	"github.com/matzehuels/phylotree/pkg/layout"
	"github.com/matzehuels/phylotree/pkg/legend"
	"github.com/matzehuels/phylotree/pkg/newick"
	"github.com/matzehuels/phylotree/pkg/observability"
	"github.com/matzehuels/phylotree/pkg/render"
)

// Runner executes the pipeline with caching. It is stateless apart
// from the cache and logger; one Runner can serve concurrent runs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTLTree and TTLArtifact bound cache entry lifetimes. Zero values
	// select the package defaults.
	TTLTree     time.Duration
	TTLArtifact time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil
// keyer selects the default keyer, a nil logger the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

func (r *Runner) ttlTree() time.Duration {
	if r.TTLTree > 0 {
		return r.TTLTree
	}
	return TTLTree
}

func (r *Runner) ttlArtifact() time.Duration {
	if r.TTLArtifact > 0 {
		return r.TTLArtifact
	}
	return TTLArtifact
}

// Execute runs the complete pipeline. Styles fan out concurrently over
// the shared immutable tree and color map; the first failing style
// cancels the rest.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string]map[string][]byte),
	}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: parse.
	parseStart := time.Now()
	observability.Pipeline().OnParseStart(ctx)
	t, err := newick.Parse(opts.TreeText)
	if err != nil {
		observability.Pipeline().OnParseComplete(ctx, 0, time.Since(parseStart), err)
		return nil, err
	}
	result.Tree = t
	result.Stats.ParseTime = time.Since(parseStart)
	observability.Pipeline().OnParseComplete(ctx, t.LeafCount(), result.Stats.ParseTime, nil)
	result.Stats.LeafCount = t.LeafCount()
	result.Stats.NodeCount = t.Len()

	// Canonical serialization so formatting differences in the input
	// text do not fragment the cache.
	result.TreeHash = cache.Hash([]byte(newick.Serialize(t)))

	logger.Info("parsed tree",
		"leaves", t.LeafCount(),
		"nodes", t.Len(),
		"duration", result.Stats.ParseTime)

	// Stage 2: groups and colors.
	resolveStart := time.Now()
	res, err := groups.Resolve(t, opts.GroupSpecs, opts.RelationCSV)
	if err != nil {
		return nil, err
	}
	cm, err := colors.Assign(t, res.Groups, res.Colors)
	if err != nil {
		return nil, err
	}
	result.Groups = res.Groups
	result.Colors = cm
	result.Legend = legend.Build(res.Groups, cm, t.LeafNames())
	result.Warnings = res.Warnings
	result.Stats.ResolveTime = time.Since(resolveStart)

	logger.Info("resolved groups",
		"groups", len(res.Groups.Groups()),
		"warnings", res.Warnings.Len(),
		"duration", result.Stats.ResolveTime)

	// Stage 3: layout and render, one goroutine per style.
	renderStart := time.Now()
	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)

	for _, style := range opts.Styles() {
		eg.Go(func() error {
			artifacts, hits, err := r.renderStyle(egCtx, result, style, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			result.Artifacts[string(style)] = artifacts
			result.CacheInfo.ArtifactHits += hits
			result.CacheInfo.ArtifactTotal += len(opts.Formats)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered artifacts",
		"styles", len(result.Artifacts),
		"formats", opts.Formats,
		"cache_hits", result.CacheInfo.ArtifactHits,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// renderStyle computes one style's layout and renders every requested
// format, consulting the artifact cache per format.
func (r *Runner) renderStyle(ctx context.Context, result *Result, style layout.Style, opts Options) (map[string][]byte, int, error) {
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, string(style), result.Tree.Len())
	l, err := layout.Compute(result.Tree, style)
	observability.Pipeline().OnLayoutComplete(ctx, string(style), time.Since(layoutStart), err)
	if err != nil {
		return nil, 0, err
	}

	scene := &render.Scene{
		Tree:   result.Tree,
		Layout: l,
		Groups: result.Groups,
		Colors: result.Colors,
		Legend: result.Legend,
	}

	// The scene is fully determined by the tree, the grouping inputs
	// and the style; layouts are pure functions of those.
	sceneHash := cache.Hash([]byte(r.Keyer.LayoutKey(result.TreeHash, cache.LayoutKeyOpts{Style: string(style)}) +
		groupFingerprint(result)))

	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, string(style), opts.Formats)

	artifacts := make(map[string][]byte, len(opts.Formats))
	hits := 0
	for _, f := range opts.Formats {
		format, err := render.ParseFormat(f)
		if err != nil {
			return nil, 0, err
		}
		key := r.Keyer.ArtifactKey(sceneHash, opts.artifactKeyOpts(format))

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[f] = data
				hits++
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}

		data, err := render.Render(ctx, scene, format, opts.renderOpts())
		if err != nil {
			observability.Pipeline().OnRenderComplete(ctx, string(style), opts.Formats, time.Since(renderStart), err)
			return nil, 0, err
		}
		artifacts[f] = data
		if r.Cache.Set(ctx, key, data, r.ttlArtifact()) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	observability.Pipeline().OnRenderComplete(ctx, string(style), opts.Formats, time.Since(renderStart), nil)
	return artifacts, hits, nil
}

// groupFingerprint folds the resolved grouping and coloring into a
// stable string for cache keys.
func groupFingerprint(result *Result) string {
	var s string
	for _, name := range result.Tree.LeafNames() {
		s += name + "=" + result.Groups.GroupOf(name) + "#" + result.Colors.LeafColor(name, result.Groups) + ";"
	}
	return s
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
