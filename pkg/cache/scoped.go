package cache

// ScopedKeyer wraps a Keyer with a prefix, isolating cache namespaces
// when several projects share one backend (notably the Redis backend).
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
// A nil inner keyer defaults to the standard one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TreeKey generates a prefixed key for inferred trees.
func (k *ScopedKeyer) TreeKey(inputHash string, opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(inputHash, opts)
}

// LayoutKey generates a prefixed key for computed layouts.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
