package vdb

// ValueReader returns the value at any coordinate, active or not.
type ValueReader[T Value] interface {
	Value(c Coord) T
}

// Topology describes the set of active coordinates of a sparse grid.
type Topology interface {
	IsActive(c Coord) bool

	// ActiveVoxelCount and ActiveBBox reflect all writes completed before the call.
	ActiveVoxelCount() uint64
	ActiveBBox() CoordBBox
}

// Grid is a sparse volume: a background value plus a set of active voxels, each
// with its own value.
type Grid[T Value] interface {
	ValueReader[T]
	Topology

	// SetActiveValue inserts or overwrites an active voxel.
	SetActiveValue(c Coord, v T)

	// Background is the value of every inactive voxel.
	Background() T

	// HasSameTopology returns true if both grids have exactly the same active coordinates.
	HasSameTopology(other Topology) bool
}

// ConcurrentWriter is implemented by grids that may report SetActiveValue as safe
// for concurrent callers writing pairwise distinct coordinates.
type ConcurrentWriter interface {
	ConcurrentWriteSafe() bool
}

// Accessor is a single-goroutine view of a grid that may cache traversal state
// between nearby calls.
type Accessor[T Value] interface {
	Value(c Coord) T
	SetActiveValue(c Coord, v T)
}

// AccessorSource is implemented by grids that hand out private accessors.
type AccessorSource[T Value] interface {
	NewAccessor() Accessor[T]
}

// SameTopology compares two topologies by visiting the active coordinates of a.
func SameTopology(a Topology, b Topology, forEachActive func(fn func(c Coord) bool)) bool {
	if a.ActiveVoxelCount() != b.ActiveVoxelCount() {
		return false
	}
	if a.ActiveBBox() != b.ActiveBBox() && a.ActiveVoxelCount() != 0 {
		return false
	}
	same := true
	forEachActive(func(c Coord) bool {
		if !b.IsActive(c) {
			same = false
		}
		return same
	})
	return same
}
