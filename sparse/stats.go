package sparse

import "github.com/janelia-flyem/densevdb/vdb"

// ActiveVisitor is implemented by grids that can enumerate their active voxels.
type ActiveVisitor[T vdb.Value] interface {
	ForEachActive(fn func(c vdb.Coord, v T) bool)
}

// EvalMinMax returns the smallest and largest active values.  If the grid has
// no active voxels, found is false.
func EvalMinMax[T vdb.Number](grid ActiveVisitor[T]) (min, max T, found bool) {
	grid.ForEachActive(func(_ vdb.Coord, v T) bool {
		if !found {
			min, max, found = v, v, true
			return true
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		return true
	})
	return
}
