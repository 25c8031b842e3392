package sparse

import "github.com/janelia-flyem/densevdb/vdb"

// Accessor caches the most recently visited leaf of a Tree so that runs of
// nearby reads and writes skip the root and internal node lookups.  An Accessor
// must only be used by one goroutine.
type Accessor[T vdb.Value] struct {
	tree   *Tree[T]
	origin vdb.Coord
	leaf   *leafNode[T]
}

// NewAccessor returns an accessor with an empty cache.
func (t *Tree[T]) NewAccessor() vdb.Accessor[T] {
	return &Accessor[T]{tree: t}
}

func (a *Accessor[T]) cached(c vdb.Coord) *leafNode[T] {
	if a.leaf != nil && leafOrigin(c) == a.origin {
		return a.leaf
	}
	return nil
}

// Value returns the value at c.
func (a *Accessor[T]) Value(c vdb.Coord) T {
	if leaf := a.cached(c); leaf != nil {
		return a.tree.leafValue(leaf, c)
	}
	leaf := a.tree.findLeaf(c)
	if leaf != nil {
		a.leaf, a.origin = leaf, leaf.origin
	}
	return a.tree.leafValue(leaf, c)
}

// SetActiveValue inserts or overwrites an active voxel.
func (a *Accessor[T]) SetActiveValue(c vdb.Coord, v T) {
	leaf := a.cached(c)
	if leaf == nil {
		leaf = a.tree.touchLeaf(c)
		a.leaf, a.origin = leaf, leaf.origin
	}
	a.tree.setLeafValue(leaf, c, v)
}
