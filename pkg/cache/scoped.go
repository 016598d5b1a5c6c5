package cache

// ScopedKeyer wraps a Keyer with a prefix. Shared backends such as Redis
// use it to keep tmrview entries in their own namespace, which also lets
// RedisCache.Clear find them.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tmrview:")
//	key := keyer.FormatKey(inputHash, FormatKeyOpts{ConfigHash: fp})
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

// Prefix returns the namespace prefix.
func (k *ScopedKeyer) Prefix() string {
	return k.prefix
}

// FormatKey generates a prefixed key for a formatted batch.
func (k *ScopedKeyer) FormatKey(inputHash string, opts FormatKeyOpts) string {
	return k.prefix + k.inner.FormatKey(inputHash, opts)
}
