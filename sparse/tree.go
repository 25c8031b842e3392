/*
	Package sparse provides reference implementations of vdb.Grid.

	Tree is a three level hierarchy: a root table of internal nodes keyed by origin,
	internal nodes with 16³ child leaves, and leaves holding 8³ voxels with an active
	mask.  Only leaves that hold active voxels are allocated.  Voxels are addressed
	inside a leaf and inside an internal node with z varying fastest.

	MapGrid is a flat coordinate map with a background value, useful as an oracle in
	tests.  It is not safe for concurrent writers.
*/
package sparse

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/janelia-flyem/densevdb/vdb"
)

// Node dimensions.
const (
	LeafLog2Dim     = 3
	LeafDim         = 1 << LeafLog2Dim // 8
	LeafValues      = LeafDim * LeafDim * LeafDim
	InternalLog2Dim = 4
	InternalDim     = 1 << InternalLog2Dim // 16 leaves per axis

	// InternalTotalDim is the number of voxels spanned by an internal node along each axis.
	InternalTotalDim  = InternalDim * LeafDim // 128
	InternalChildren  = InternalDim * InternalDim * InternalDim
	internalTotalLog2 = InternalLog2Dim + LeafLog2Dim
)

type leafNode[T vdb.Value] struct {
	mu        sync.RWMutex
	origin    vdb.Coord
	valueMask Mask512
	values    [LeafValues]T
}

type internalNode[T vdb.Value] struct {
	mu        sync.RWMutex
	origin    vdb.Coord
	childMask Mask4096
	children  [InternalChildren]*leafNode[T]
}

// leafOrigin returns the origin of the leaf containing c.
func leafOrigin(c vdb.Coord) vdb.Coord {
	const mask = ^int32(LeafDim - 1)
	return vdb.Coord{c[0] & mask, c[1] & mask, c[2] & mask}
}

// internalOrigin returns the origin of the internal node containing c.
func internalOrigin(c vdb.Coord) vdb.Coord {
	const mask = ^int32(InternalTotalDim - 1)
	return vdb.Coord{c[0] & mask, c[1] & mask, c[2] & mask}
}

// leafOffset returns the position of c within its leaf.
func leafOffset(c vdb.Coord) int {
	const m = LeafDim - 1
	return int(c[0]&m)<<(2*LeafLog2Dim) | int(c[1]&m)<<LeafLog2Dim | int(c[2]&m)
}

// leafOffsetCoord inverts leafOffset given the leaf origin.
func leafOffsetCoord(origin vdb.Coord, i int) vdb.Coord {
	const m = LeafDim - 1
	return vdb.Coord{
		origin[0] + int32(i>>(2*LeafLog2Dim)),
		origin[1] + int32((i>>LeafLog2Dim)&m),
		origin[2] + int32(i&m),
	}
}

// childOffset returns the position within its internal node of the leaf containing c.
func childOffset(c vdb.Coord) int {
	const m = InternalTotalDim - 1
	return int((c[0]&m)>>LeafLog2Dim)<<(2*InternalLog2Dim) |
		int((c[1]&m)>>LeafLog2Dim)<<InternalLog2Dim |
		int((c[2]&m)>>LeafLog2Dim)
}

// Tree is a hierarchical sparse grid.  Writers at pairwise distinct coordinates
// may call SetActiveValue concurrently.
type Tree[T vdb.Value] struct {
	background T

	mu   sync.RWMutex
	root map[vdb.Coord]*internalNode[T]

	activeCount atomic.Uint64
	leafCount   atomic.Int64

	// extents grows with every activated voxel; deactivation marks it stale.
	extents vdb.Extents
	stale   atomic.Bool
}

// NewTree returns an empty tree with the given background value.
func NewTree[T vdb.Value](background T) *Tree[T] {
	return &Tree[T]{
		background: background,
		root:       make(map[vdb.Coord]*internalNode[T]),
	}
}

// Background returns the value of every inactive voxel.
func (t *Tree[T]) Background() T {
	return t.background
}

// ConcurrentWriteSafe reports that disjoint-coordinate writers may run in parallel.
func (t *Tree[T]) ConcurrentWriteSafe() bool {
	return true
}

// findLeaf returns the leaf containing c or nil if none is allocated.
func (t *Tree[T]) findLeaf(c vdb.Coord) *leafNode[T] {
	t.mu.RLock()
	node := t.root[internalOrigin(c)]
	t.mu.RUnlock()
	if node == nil {
		return nil
	}
	node.mu.RLock()
	leaf := node.children[childOffset(c)]
	node.mu.RUnlock()
	return leaf
}

// touchLeaf returns the leaf containing c, allocating nodes as needed.
func (t *Tree[T]) touchLeaf(c vdb.Coord) *leafNode[T] {
	iorigin := internalOrigin(c)
	t.mu.RLock()
	node := t.root[iorigin]
	t.mu.RUnlock()
	if node == nil {
		t.mu.Lock()
		if node = t.root[iorigin]; node == nil {
			node = &internalNode[T]{origin: iorigin}
			t.root[iorigin] = node
		}
		t.mu.Unlock()
	}

	n := childOffset(c)
	node.mu.RLock()
	leaf := node.children[n]
	node.mu.RUnlock()
	if leaf != nil {
		return leaf
	}

	node.mu.Lock()
	defer node.mu.Unlock()
	if leaf = node.children[n]; leaf == nil {
		leaf = &leafNode[T]{origin: leafOrigin(c)}
		for i := range leaf.values {
			leaf.values[i] = t.background
		}
		node.children[n] = leaf
		node.childMask.SetBit(n)
		t.leafCount.Add(1)
	}
	return leaf
}

func (t *Tree[T]) leafValue(leaf *leafNode[T], c vdb.Coord) T {
	if leaf == nil {
		return t.background
	}
	leaf.mu.RLock()
	v := leaf.values[leafOffset(c)]
	leaf.mu.RUnlock()
	return v
}

func (t *Tree[T]) setLeafValue(leaf *leafNode[T], c vdb.Coord, v T) {
	i := leafOffset(c)
	leaf.mu.Lock()
	leaf.values[i] = v
	activated := !leaf.valueMask.GetBit(i)
	leaf.valueMask.SetBit(i)
	leaf.mu.Unlock()
	if activated {
		t.activeCount.Add(1)
		t.extents.Adjust(c)
	}
}

// Value returns the value at c, which is the background if c is inactive.
func (t *Tree[T]) Value(c vdb.Coord) T {
	return t.leafValue(t.findLeaf(c), c)
}

// IsActive returns true if c holds an active voxel.
func (t *Tree[T]) IsActive(c vdb.Coord) bool {
	leaf := t.findLeaf(c)
	if leaf == nil {
		return false
	}
	leaf.mu.RLock()
	defer leaf.mu.RUnlock()
	return leaf.valueMask.GetBit(leafOffset(c))
}

// SetActiveValue inserts or overwrites an active voxel.
func (t *Tree[T]) SetActiveValue(c vdb.Coord, v T) {
	t.setLeafValue(t.touchLeaf(c), c, v)
}

// Deactivate turns c off and resets its value to the background.  Allocated
// leaves are kept even if they become empty.
func (t *Tree[T]) Deactivate(c vdb.Coord) {
	leaf := t.findLeaf(c)
	if leaf == nil {
		return
	}
	i := leafOffset(c)
	leaf.mu.Lock()
	wasActive := leaf.valueMask.GetBit(i)
	leaf.valueMask.ClearBit(i)
	leaf.values[i] = t.background
	leaf.mu.Unlock()
	if wasActive {
		t.activeCount.Add(^uint64(0))
		t.stale.Store(true)
	}
}

// ActiveVoxelCount returns the number of active voxels.
func (t *Tree[T]) ActiveVoxelCount() uint64 {
	return t.activeCount.Load()
}

// LeafCount returns the number of allocated leaves.
func (t *Tree[T]) LeafCount() int {
	return int(t.leafCount.Load())
}

// ActiveBBox returns the tightest box around all active voxels, or an empty box.
func (t *Tree[T]) ActiveBBox() vdb.CoordBBox {
	if t.stale.Load() {
		t.extents.Reset()
		t.forEachLeaf(func(leaf *leafNode[T]) bool {
			leaf.valueMask.ForEachOn(func(i int) bool {
				t.extents.Adjust(leafOffsetCoord(leaf.origin, i))
				return true
			})
			return true
		})
		t.stale.Store(false)
	}
	return t.extents.BBox()
}

// forEachLeaf visits allocated leaves in a deterministic order: internal nodes by
// origin, then leaves by position.  It must not run concurrently with writers.
func (t *Tree[T]) forEachLeaf(fn func(leaf *leafNode[T]) bool) {
	t.mu.RLock()
	nodes := make([]*internalNode[T], 0, len(t.root))
	for _, node := range t.root {
		nodes = append(nodes, node)
	}
	t.mu.RUnlock()
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].origin.Less(nodes[j].origin)
	})
	for _, node := range nodes {
		more := node.childMask.ForEachOn(func(n int) bool {
			return fn(node.children[n])
		})
		if !more {
			return
		}
	}
}

// ForEachActive calls fn for every active voxel in a deterministic order until
// fn returns false.  It must not run concurrently with writers.
func (t *Tree[T]) ForEachActive(fn func(c vdb.Coord, v T) bool) {
	t.forEachLeaf(func(leaf *leafNode[T]) bool {
		return leaf.valueMask.ForEachOn(func(i int) bool {
			return fn(leafOffsetCoord(leaf.origin, i), leaf.values[i])
		})
	})
}

// HasSameTopology returns true if other has exactly the same active coordinates.
func (t *Tree[T]) HasSameTopology(other vdb.Topology) bool {
	if t2, ok := other.(*Tree[T]); ok {
		return t.sameTreeTopology(t2)
	}
	return vdb.SameTopology(t, other, func(fn func(c vdb.Coord) bool) {
		t.ForEachActive(func(c vdb.Coord, _ T) bool { return fn(c) })
	})
}

// sameTreeTopology compares active masks leaf by leaf.  Empty leaves are ignored
// so trees that allocated different leaves can still match.
func (t *Tree[T]) sameTreeTopology(t2 *Tree[T]) bool {
	if t.ActiveVoxelCount() != t2.ActiveVoxelCount() {
		return false
	}
	same := true
	t.forEachLeaf(func(leaf *leafNode[T]) bool {
		if leaf.valueMask.IsOff() {
			return true
		}
		leaf2 := t2.findLeaf(leaf.origin)
		same = leaf2 != nil && leaf2.valueMask == leaf.valueMask
		return same
	})
	return same
}

// Clear removes every voxel.  Accessors created before Clear must not be reused.
func (t *Tree[T]) Clear() {
	t.mu.Lock()
	t.root = make(map[vdb.Coord]*internalNode[T])
	t.mu.Unlock()
	t.activeCount.Store(0)
	t.leafCount.Store(0)
	t.extents.Reset()
	t.stale.Store(false)
}
