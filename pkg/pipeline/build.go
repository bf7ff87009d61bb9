package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/phylotree/pkg/cache"
	"github.com/matzehuels/phylotree/pkg/errors"
	"github.com/matzehuels/phylotree/pkg/observability"
	"github.com/matzehuels/phylotree/pkg/seqio"
	"github.com/matzehuels/phylotree/pkg/toolchain"
)

// BuildOptions configure tree inference from raw sequences.
type BuildOptions struct {
	// FastaPath is the input sequence file.
	FastaPath string

	// SeqType forces the molecule type; empty autodetects.
	SeqType string

	// Bootstrap is the ultrafast bootstrap replicate count, clamped
	// to the tool's minimum.
	Bootstrap int

	// Threads for both mafft and iqtree.
	Threads int

	// WorkDir receives intermediate files (alignment, iqtree
	// artifacts). Empty means a throwaway temp directory.
	WorkDir string

	// AlignmentFile, when set, saves the aligned sequences to this
	// path. It survives work dir cleanup.
	AlignmentFile string

	// KeepFiles retains the intermediate files after the run.
	KeepFiles bool

	// Refresh bypasses the tree cache.
	Refresh bool
}

// BuildTree infers a phylogenetic tree from the sequences at
// opts.FastaPath by running mafft and iqtree, and returns the Newick
// text. Results are cached by the content hash of the input plus the
// inference options, so repeat builds of the same data are instant.
// The second return reports whether the tree came from the cache.
func (r *Runner) BuildTree(ctx context.Context, opts BuildOptions) (string, bool, error) {
	raw, err := os.ReadFile(opts.FastaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, errors.New(errors.ErrCodeFileNotFound, "sequence file not found: %s", opts.FastaPath)
		}
		return "", false, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", opts.FastaPath)
	}

	records, err := seqio.Read(bytes.NewReader(raw))
	if err != nil {
		return "", false, err
	}

	seqType := seqio.SeqType(opts.SeqType)
	if seqType == "" {
		seqType = seqio.Detect(records)
		r.Logger.Info("detected sequence type", "type", seqType, "sequences", len(records))
	}

	bootstrap := opts.Bootstrap
	if bootstrap < toolchain.MinBootstrap {
		bootstrap = toolchain.MinBootstrap
	}

	key := r.Keyer.TreeKey(cache.Hash(raw), cache.TreeKeyOpts{
		Aligner:   toolchain.MafftBinary,
		Inference: toolchain.IQTreeBinary,
		SeqType:   string(seqType),
		Bootstrap: bootstrap,
	})
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "tree")
			r.Logger.Info("tree cache hit", "leaves", len(records))
			return string(data), true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "tree")
	}

	if err := toolchain.CheckTools(toolchain.MafftBinary, toolchain.IQTreeBinary); err != nil {
		return "", false, err
	}

	workDir := opts.WorkDir
	if workDir == "" {
		dir, err := os.MkdirTemp("", "phylotree-*")
		if err != nil {
			return "", false, errors.Wrap(errors.ErrCodeInternal, err, "create work dir")
		}
		if !opts.KeepFiles {
			defer os.RemoveAll(dir)
		}
		workDir = dir
	}
	alignment := filepath.Join(workDir, "alignment.fasta")

	start := time.Now()
	r.Logger.Info("aligning sequences", "tool", toolchain.MafftBinary, "sequences", len(records))
	if err := toolchain.Align(ctx, opts.FastaPath, alignment, toolchain.MafftOpts{Threads: opts.Threads}); err != nil {
		return "", false, err
	}
	r.Logger.Info("alignment complete", "duration", time.Since(start))

	if opts.AlignmentFile != "" {
		aligned, err := os.ReadFile(alignment)
		if err == nil {
			err = os.WriteFile(opts.AlignmentFile, aligned, 0644)
		}
		if err != nil {
			return "", false, errors.Wrap(errors.ErrCodeInternal, err, "save alignment to %s", opts.AlignmentFile)
		}
	}

	start = time.Now()
	r.Logger.Info("inferring tree", "tool", toolchain.IQTreeBinary, "bootstrap", bootstrap)
	treeText, err := toolchain.Infer(ctx, alignment, toolchain.IQTreeOpts{
		SeqType:   seqType,
		Bootstrap: bootstrap,
		Threads:   opts.Threads,
	})
	if err != nil {
		return "", false, err
	}
	r.Logger.Info("inference complete", "duration", time.Since(start))

	if !opts.KeepFiles {
		toolchain.CleanupArtifacts(strings.TrimSuffix(alignment, ".fasta"))
	}

	if r.Cache.Set(ctx, key, []byte(treeText), r.ttlTree()) == nil {
		observability.Cache().OnCacheSet(ctx, "tree", len(treeText))
	}
	return treeText, false, nil
}
