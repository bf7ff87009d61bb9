// Package cache provides content-addressed caching for pipeline
// stages. Inferred trees, computed layouts, and rendered artifacts are
// stored under keys derived from their full input fingerprint, so a
// rerun with identical inputs skips the expensive stages entirely.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get retrieves a value. The second return reports whether the
	// key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// TreeKeyOpts are the inputs that determine an inferred tree: anything
// here changing must produce a different tree cache key.
type TreeKeyOpts struct {
	Aligner   string // alignment tool identifier, e.g. "mafft"
	Inference string // inference tool identifier, e.g. "iqtree"
	SeqType   string // "protein", "dna" or "rna"
	Bootstrap int
	Threads   int
}

// LayoutKeyOpts are the inputs that determine a computed layout beyond
// the tree itself.
type LayoutKeyOpts struct {
	Style string
}

// ArtifactKeyOpts are the inputs that determine a rendered artifact
// beyond the layout itself.
type ArtifactKeyOpts struct {
	Format string // "svg", "png" or "dot"
	Width  int
	Height int
}

// Keyer derives cache keys for the pipeline stages. Implementations
// must be deterministic: equal inputs, equal keys.
type Keyer interface {
	// TreeKey keys an inferred tree by the hash of the input
	// sequences and the inference options.
	TreeKey(inputHash string, opts TreeKeyOpts) string

	// LayoutKey keys a computed layout by the hash of the tree text
	// and the layout options.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by the hash of the layout
	// and the render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the full option set into the key, namespaced per
// stage so keys from different stages can never collide.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

func (k *DefaultKeyer) TreeKey(inputHash string, opts TreeKeyOpts) string {
	return hashKey("tree", inputHash, opts)
}

func (k *DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
