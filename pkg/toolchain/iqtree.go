package toolchain

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/phylotree/pkg/errors"
	"github.com/matzehuels/phylotree/pkg/seqio"
)

// MinBootstrap is the smallest replicate count iqtree accepts for
// ultrafast bootstrap. Requests below it are clamped up.
const MinBootstrap = 1000

// IQTreeOpts configure an iqtree inference run.
type IQTreeOpts struct {
	SeqType   seqio.SeqType
	Bootstrap int // ultrafast bootstrap replicates, clamped to MinBootstrap
	Threads   int // <= 0 means 1
}

// Infer runs iqtree on the alignment at alignmentPath and returns the
// inferred tree in Newick text. iqtree derives its output file names
// from a prefix; the tree lands in <prefix>.treefile.
func Infer(ctx context.Context, alignmentPath string, opts IQTreeOpts) (string, error) {
	bootstrap := opts.Bootstrap
	if bootstrap < MinBootstrap {
		bootstrap = MinBootstrap
	}
	threads := opts.Threads
	if threads <= 0 {
		threads = 1
	}

	st := "DNA"
	if opts.SeqType == seqio.Protein {
		st = "AA"
	}

	prefix := strings.TrimSuffix(alignmentPath, ".fasta")
	prefix = strings.TrimSuffix(prefix, ".fa")
	prefix = strings.TrimSuffix(prefix, ".aln")

	_, err := run(ctx, IQTreeBinary,
		"-s", alignmentPath,
		"-st", st,
		"-m", "MFP",
		"-B", strconv.Itoa(bootstrap),
		"-T", strconv.Itoa(threads),
		"-pre", prefix,
	)
	if err != nil {
		return "", err
	}

	treeFile := prefix + ".treefile"
	data, err := os.ReadFile(treeFile)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeToolFailed, err,
			"iqtree finished but tree file %s was not found", treeFile)
	}
	return string(data), nil
}

// CleanupArtifacts removes the auxiliary files iqtree leaves next to
// its output prefix. Missing files are ignored.
func CleanupArtifacts(prefix string) {
	for _, ext := range []string{
		".log", ".iqtree", ".bionj", ".mldist",
		".model.gz", ".ckp.gz", ".ufboot", ".contree", ".splits.nex",
	} {
		_ = os.Remove(prefix + ext)
	}
}
