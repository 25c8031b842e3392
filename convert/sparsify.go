package convert

import (
	"github.com/dustin/go-humanize"

	"github.com/janelia-flyem/densevdb/dense"
	"github.com/janelia-flyem/densevdb/vdb"
)

// Sparsify writes every voxel of src that differs from the value already in dst
// by more than tolerance as an active voxel of dst, using the default engine.
// Voxels within tolerance, and every voxel outside the region of src, are left
// untouched.  Tolerance is ignored for bool values.
func Sparsify[T vdb.Value](src *dense.Dense[T], dst vdb.Grid[T], tolerance T, serial bool) {
	SparsifyUsing(defaultEngine, src, dst, ToleranceFor(tolerance), serial)
}

// SparsifyWith is Sparsify with a custom comparator.
func SparsifyWith[T vdb.Value](src *dense.Dense[T], dst vdb.Grid[T], cmp Comparator[T], serial bool) {
	SparsifyUsing(defaultEngine, src, dst, cmp, serial)
}

// SparsifyUsing is SparsifyWith with an explicit engine.  Grids that do not
// report themselves safe for concurrent writers are always filled serially.
func SparsifyUsing[T vdb.Value](e *Engine, src *dense.Dense[T], dst vdb.Grid[T], cmp Comparator[T], serial bool) {
	timedLog := vdb.NewTimeLog()
	if !serial && !concurrentWriteSafe(dst) {
		vdb.Debugf("grid %T does not support concurrent writers, sparsifying serially\n", dst)
		serial = true
	}
	before := dst.ActiveVoxelCount()
	parts := e.Partitions(src.BBox(), src.Layout())
	e.run(parts, serial, func(part vdb.CoordBBox) {
		read, write := dst.Value, dst.SetActiveValue
		if as, ok := dst.(vdb.AccessorSource[T]); ok {
			acc := as.NewAccessor()
			read, write = acc.Value, acc.SetActiveValue
		}
		src.Walk(part, func(c vdb.Coord, i int) {
			candidate := src.ValueAt(i)
			if cmp(candidate, read(c)) {
				write(c, candidate)
			}
		})
	})
	after := dst.ActiveVoxelCount()
	timedLog.Debugf("sparsified %s voxels over %s in %d partitions (serial %t), active voxels %s -> %s",
		humanize.Comma(int64(src.ValueCount())), src.BBox(), len(parts), e.runsSerially(parts, serial),
		humanize.Comma(int64(before)), humanize.Comma(int64(after)))
}

func concurrentWriteSafe(grid any) bool {
	cw, ok := grid.(vdb.ConcurrentWriter)
	return ok && cw.ConcurrentWriteSafe()
}
