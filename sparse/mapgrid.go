package sparse

import (
	"sort"

	"github.com/janelia-flyem/densevdb/vdb"
)

// MapGrid is a flat sparse grid backed by a Go map.  It is not safe for
// concurrent writers, so conversions into it run serially.
type MapGrid[T vdb.Value] struct {
	background T
	voxels     map[vdb.Coord]T
}

// NewMapGrid returns an empty map grid with the given background value.
func NewMapGrid[T vdb.Value](background T) *MapGrid[T] {
	return &MapGrid[T]{
		background: background,
		voxels:     make(map[vdb.Coord]T),
	}
}

func (g *MapGrid[T]) Background() T {
	return g.background
}

func (g *MapGrid[T]) ConcurrentWriteSafe() bool {
	return false
}

func (g *MapGrid[T]) Value(c vdb.Coord) T {
	if v, found := g.voxels[c]; found {
		return v
	}
	return g.background
}

func (g *MapGrid[T]) IsActive(c vdb.Coord) bool {
	_, found := g.voxels[c]
	return found
}

func (g *MapGrid[T]) SetActiveValue(c vdb.Coord, v T) {
	g.voxels[c] = v
}

// Deactivate removes the voxel at c.
func (g *MapGrid[T]) Deactivate(c vdb.Coord) {
	delete(g.voxels, c)
}

func (g *MapGrid[T]) ActiveVoxelCount() uint64 {
	return uint64(len(g.voxels))
}

func (g *MapGrid[T]) ActiveBBox() vdb.CoordBBox {
	bbox := vdb.NewEmptyBBox()
	for c := range g.voxels {
		bbox.ExpandBy(c)
	}
	return bbox
}

// ForEachActive visits active voxels sorted by x, then y, then z.
func (g *MapGrid[T]) ForEachActive(fn func(c vdb.Coord, v T) bool) {
	coords := make([]vdb.Coord, 0, len(g.voxels))
	for c := range g.voxels {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	for _, c := range coords {
		if !fn(c, g.voxels[c]) {
			return
		}
	}
}

func (g *MapGrid[T]) HasSameTopology(other vdb.Topology) bool {
	return vdb.SameTopology(g, other, func(fn func(c vdb.Coord) bool) {
		g.ForEachActive(func(c vdb.Coord, _ T) bool { return fn(c) })
	})
}
