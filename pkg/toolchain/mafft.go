package toolchain

import (
	"context"
	"os"
	"strconv"

	"github.com/matzehuels/phylotree/pkg/errors"
)

// MafftOpts configure a mafft alignment run.
type MafftOpts struct {
	Threads int // <= 0 means 1
}

// Align runs mafft on the FASTA at inputPath and writes the aligned
// FASTA to outputPath. mafft writes the alignment to stdout.
func Align(ctx context.Context, inputPath, outputPath string, opts MafftOpts) error {
	threads := opts.Threads
	if threads <= 0 {
		threads = 1
	}

	out, err := run(ctx, MafftBinary,
		"--thread", strconv.Itoa(threads),
		"--auto",
		inputPath,
	)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeToolFailed, err, "write alignment %s", outputPath)
	}
	return nil
}
