// Package toolchain wraps the external bioinformatics tools the build
// pipeline shells out to: mafft for multiple sequence alignment and
// iqtree for maximum-likelihood tree inference.
package toolchain

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/phylotree/pkg/errors"
	"github.com/matzehuels/phylotree/pkg/observability"
)

// Tool names as invoked on PATH.
const (
	MafftBinary  = "mafft"
	IQTreeBinary = "iqtree3"
)

// CheckTools verifies that every required binary is on PATH, returning
// one error naming all missing tools so the user fixes them in one go.
func CheckTools(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeToolNotFound,
			"required tools not found on PATH: %s", strings.Join(missing, ", "))
	}
	return nil
}

// run executes a tool, returning stdout. Stderr is folded into the
// error on failure since that is where these tools report problems.
func run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	observability.Tool().OnToolStart(ctx, name, args)
	err := cmd.Run()
	observability.Tool().OnToolComplete(ctx, name, time.Since(start), err)

	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeToolFailed, ctx.Err(), "%s interrupted", name)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, errors.New(errors.ErrCodeToolFailed, "%s failed: %s", name, msg)
	}
	return stdout.Bytes(), nil
}
