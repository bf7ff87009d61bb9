package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/phylotree/pkg/cache"
	"github.com/matzehuels/phylotree/pkg/errors"
)

const sampleTree = "(A:1,B:2,(C:1,D:1):1);"

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return NewRunner(c, nil, quietLogger())
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{TreeText: sampleTree}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style = %q, want %q", opts.Style, DefaultStyle)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "svg" {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("dimensions = %dx%d", opts.Width, opts.Height)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{name: "no tree", opts: Options{}, code: errors.ErrCodeInvalidInput},
		{name: "bad style", opts: Options{TreeText: sampleTree, Style: "spiral"}, code: errors.ErrCodeInvalidStyle},
		{name: "bad format", opts: Options{TreeText: sampleTree, Formats: []string{"pdf"}}, code: errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecuteSingleStyle(t *testing.T) {
	r := newTestRunner(t)
	defer r.Close()

	result, err := r.Execute(context.Background(), Options{
		TreeText:   sampleTree,
		GroupSpecs: []string{"G1:A,B"},
		Style:      "rectangular",
		Formats:    []string{"svg"},
		Logger:     quietLogger(),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.RunID == "" {
		t.Error("missing run ID")
	}
	if result.Tree.LeafCount() != 4 {
		t.Errorf("LeafCount = %d, want 4", result.Tree.LeafCount())
	}
	svg := result.Artifacts["rectangular"]["svg"]
	if !strings.Contains(string(svg), "<svg") {
		t.Error("missing SVG artifact")
	}
	if len(result.Legend) != 2 { // G1 and Ungrouped
		t.Errorf("Legend = %v, want 2 entries", result.Legend)
	}
	if result.CacheInfo.ArtifactHits != 0 || result.CacheInfo.ArtifactTotal != 1 {
		t.Errorf("CacheInfo = %+v, want cold run", result.CacheInfo)
	}
}

func TestExecuteAllStyles(t *testing.T) {
	r := newTestRunner(t)
	defer r.Close()

	result, err := r.Execute(context.Background(), Options{
		TreeText: sampleTree,
		Style:    StyleAll,
		Formats:  []string{"svg"},
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for _, style := range []string{"circular", "rectangular", "radial", "heatmap"} {
		if _, ok := result.Artifacts[style]; !ok {
			t.Errorf("missing artifacts for style %s", style)
		}
	}
}

func TestExecuteCacheHit(t *testing.T) {
	r := newTestRunner(t)
	defer r.Close()

	opts := Options{
		TreeText: sampleTree,
		Style:    "circular",
		Formats:  []string{"svg"},
		Logger:   quietLogger(),
	}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	second, err := r.Execute(context.Background(), Options{
		TreeText: sampleTree,
		Style:    "circular",
		Formats:  []string{"svg"},
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}

	if second.CacheInfo.ArtifactHits != 1 {
		t.Errorf("ArtifactHits = %d, want 1", second.CacheInfo.ArtifactHits)
	}
	if !bytes.Equal(first.Artifacts["circular"]["svg"], second.Artifacts["circular"]["svg"]) {
		t.Error("cached artifact differs from rendered artifact")
	}
}

func TestExecuteCacheKeySeesGrouping(t *testing.T) {
	r := newTestRunner(t)
	defer r.Close()

	base := Options{TreeText: sampleTree, Style: "circular", Formats: []string{"svg"}, Logger: quietLogger()}
	if _, err := r.Execute(context.Background(), base); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// Same tree with grouping must not reuse the ungrouped artifact.
	grouped, err := r.Execute(context.Background(), Options{
		TreeText:   sampleTree,
		GroupSpecs: []string{"G1:A,B"},
		Style:      "circular",
		Formats:    []string{"svg"},
		Logger:     quietLogger(),
	})
	if err != nil {
		t.Fatalf("Execute grouped: %v", err)
	}
	if grouped.CacheInfo.ArtifactHits != 0 {
		t.Error("grouped run must miss the ungrouped artifact cache")
	}
}

func TestExecuteRefreshBypassesCache(t *testing.T) {
	r := newTestRunner(t)
	defer r.Close()

	opts := Options{TreeText: sampleTree, Style: "circular", Formats: []string{"svg"}, Logger: quietLogger()}
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	refreshed, err := r.Execute(context.Background(), Options{
		TreeText: sampleTree,
		Style:    "circular",
		Formats:  []string{"svg"},
		Refresh:  true,
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatalf("Execute refresh: %v", err)
	}
	if refreshed.CacheInfo.ArtifactHits != 0 {
		t.Errorf("ArtifactHits = %d, want 0 with Refresh", refreshed.CacheInfo.ArtifactHits)
	}
}

func TestExecuteParseError(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	_, err := r.Execute(context.Background(), Options{TreeText: "(A:1,B:2", Logger: quietLogger()})
	if !errors.Is(err, errors.ErrCodeParseTree) {
		t.Errorf("Execute = %v, want PARSE_TREE", err)
	}
}

func TestBuildTreeMissingTools(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	dir := t.TempDir()
	fasta := dir + "/seqs.fasta"
	if err := os.WriteFile(fasta, []byte(">a\nACGT\n>b\nACGA\n>c\nACGC\n"), 0644); err != nil {
		t.Fatalf("write fasta: %v", err)
	}

	t.Setenv("PATH", dir) // no tools reachable
	_, _, err := r.BuildTree(context.Background(), BuildOptions{FastaPath: fasta})
	if !errors.Is(err, errors.ErrCodeToolNotFound) {
		t.Errorf("BuildTree = %v, want TOOL_NOT_FOUND", err)
	}
}

func TestBuildTreeCacheSkipsTools(t *testing.T) {
	r := newTestRunner(t)
	defer r.Close()

	dir := t.TempDir()
	fasta := dir + "/seqs.fasta"
	if err := os.WriteFile(fasta, []byte(">a\nACGT\n>b\nACGA\n>c\nACGC\n"), 0644); err != nil {
		t.Fatalf("write fasta: %v", err)
	}

	// Pre-seed the cache entry the build would produce, then hide the
	// tools: a cache hit must not touch PATH at all.
	raw, _ := os.ReadFile(fasta)
	key := r.Keyer.TreeKey(cache.Hash(raw), cache.TreeKeyOpts{
		Aligner:   "mafft",
		Inference: "iqtree3",
		SeqType:   "dna",
		Bootstrap: 1000,
	})
	if err := r.Cache.Set(context.Background(), key, []byte(sampleTree), 0); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	t.Setenv("PATH", dir)
	text, hit, err := r.BuildTree(context.Background(), BuildOptions{FastaPath: fasta})
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if !hit || text != sampleTree {
		t.Errorf("BuildTree = %q, hit=%v; want cached tree", text, hit)
	}
}

func TestRunnerTTLOverride(t *testing.T) {
	r := newTestRunner(t)
	defer r.Close()

	if r.ttlTree() != TTLTree || r.ttlArtifact() != TTLArtifact {
		t.Errorf("zero overrides should select defaults, got %v/%v", r.ttlTree(), r.ttlArtifact())
	}

	r.TTLArtifact = time.Nanosecond
	opts := Options{
		TreeText: sampleTree,
		Style:    "circular",
		Formats:  []string{"svg"},
		Logger:   quietLogger(),
	}
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	second, err := r.Execute(context.Background(), Options{
		TreeText: sampleTree,
		Style:    "circular",
		Formats:  []string{"svg"},
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if second.CacheInfo.ArtifactHits != 0 {
		t.Errorf("ArtifactHits = %d, want 0 after expiry", second.CacheInfo.ArtifactHits)
	}
}
