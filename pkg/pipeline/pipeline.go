// Package pipeline provides the core visualization pipeline: parse →
// resolve groups → assign colors → layout → render, with per-stage
// content-hash caching.
//
// The Runner is the single entry point the CLI builds on; centralizing
// the stages here keeps caching and logging behavior identical no
// matter how a run is triggered.
//
// Usage:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    TreeText: "(A:1,B:2,(C:1,D:1):1);",
//	    Style:    "circular",
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["circular"]["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/phylotree/pkg/cache"
	"github.com/matzehuels/phylotree/pkg/colors"
	"github.com/matzehuels/phylotree/pkg/errors"
	"github.com/matzehuels/phylotree/pkg/groups"
	"github.com/matzehuels/phylotree/pkg/layout"
	"github.com/matzehuels/phylotree/pkg/legend"
	"github.com/matzehuels/phylotree/pkg/render"
	"github.com/matzehuels/phylotree/pkg/tree"
)

// StyleAll requests every layout style in one run.
const StyleAll = "all"

// Defaults applied by ValidateAndSetDefaults.
const (
	DefaultStyle  = "circular"
	DefaultWidth  = 1000
	DefaultHeight = 1000
)

// DefaultFormats is the output format set when none is requested.
var DefaultFormats = []string{"svg"}

// Cache entry lifetimes per stage. Inferred trees are the most
// expensive to recompute, so they live longest.
const (
	TTLTree     = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Options contains all configuration for one visualization run.
type Options struct {
	// TreeText is the Newick source to visualize.
	TreeText string

	// Grouping sources; both optional.
	GroupSpecs  []string // "GroupName:leaf1,leaf2,..."
	RelationCSV string

	// Layout and render options.
	Style   string // circular|rectangular|radial|heatmap|all
	Formats []string
	Width   int
	Height  int
	Title   string

	// Refresh bypasses the cache and overwrites its entries.
	Refresh bool

	// Logger for stage progress; defaults to a discard logger.
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.TreeText == "" {
		return errors.New(errors.ErrCodeInvalidInput, "tree text is required")
	}

	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Style != StyleAll {
		if _, err := layout.ParseStyle(o.Style); err != nil {
			return err
		}
	}

	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	for _, f := range o.Formats {
		if _, err := render.ParseFormat(f); err != nil {
			return err
		}
	}

	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Styles expands the requested style into the concrete list to
// compute: either the single style or, for "all", every known style.
func (o *Options) Styles() []layout.Style {
	if o.Style == StyleAll {
		return layout.Styles
	}
	s, _ := layout.ParseStyle(o.Style)
	return []layout.Style{s}
}

// renderOpts converts the run options to renderer options.
func (o *Options) renderOpts() render.Options {
	return render.Options{Width: o.Width, Height: o.Height, Title: o.Title}
}

// artifactKeyOpts returns the cache key options for one artifact.
func (o *Options) artifactKeyOpts(format render.Format) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: string(format),
		Width:  o.Width,
		Height: o.Height,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution in logs.
	RunID string

	// Tree is the parsed tree model.
	Tree *tree.Tree

	// TreeHash is the content hash of the canonical tree text.
	TreeHash string

	Groups *groups.GroupMap
	Colors *colors.ColorMap
	Legend []legend.Entry

	// Warnings collects the non-fatal findings of group resolution.
	Warnings *errors.Warnings

	// Artifacts holds rendered outputs keyed by style then format.
	Artifacts map[string]map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LeafCount   int
	NodeCount   int
	ParseTime   time.Duration
	ResolveTime time.Duration
	RenderTime  time.Duration // layout + render across all styles
}

// CacheInfo tracks artifact cache effectiveness for the run.
type CacheInfo struct {
	ArtifactHits  int
	ArtifactTotal int
}
