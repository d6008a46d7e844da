package cache

// ScopedKeyer wraps a Keyer with a prefix so several blogs can share one
// backend without colliding.
//
// Example usage:
//
//	blogKeyer := NewScopedKeyer(NewDefaultKeyer(), "blog:eng:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// FigureKey generates a prefixed figure key.
func (k *ScopedKeyer) FigureKey(kind string, spec any, opts FigureKeyOpts) string {
	return k.prefix + k.inner.FigureKey(kind, spec, opts)
}

// DocumentKey generates a prefixed document key.
func (k *ScopedKeyer) DocumentKey(sourceHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(sourceHash, opts)
}
