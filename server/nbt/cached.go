package nbt

// CachedNBT wraps a Tree with a lazily materialized binary form, mirroring
// the original's CachedNBT (graphite_binary/src/nbt/cached_nbt.rs): reads
// that only need the encoded bytes (e.g. re-sending an unchanged RegistryData
// packet every tick) skip re-encoding, while any mutating access invalidates
// the memoized form.
type CachedNBT struct {
	tree  *Tree
	bytes []byte
}

// NewCachedNBT wraps an existing tree. The cache starts invalidated.
func NewCachedNBT(tree *Tree) *CachedNBT {
	return &CachedNBT{tree: tree}
}

// Tree returns the wrapped tree for read-only navigation. It does not
// invalidate the cache; callers that intend to mutate must go through
// Mutate instead.
func (c *CachedNBT) Tree() *Tree { return c.tree }

// Mutate returns the wrapped tree for mutation and invalidates the cached
// binary form immediately, since the caller is about to change it.
func (c *CachedNBT) Mutate() *Tree {
	c.bytes = nil
	return c.tree
}

// Bytes returns the canonical binary encoding, computing and memoizing it on
// first access after construction or after the most recent Mutate call.
func (c *CachedNBT) Bytes() []byte {
	if c.bytes == nil {
		c.bytes = Write(c.tree)
	}
	return c.bytes
}
