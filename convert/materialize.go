package convert

import (
	"github.com/dustin/go-humanize"

	"github.com/janelia-flyem/densevdb/dense"
	"github.com/janelia-flyem/densevdb/vdb"
)

// Materialize copies the values of src over the region of dst into dst, using
// the default engine.  Inactive voxels are copied as the grid's background.
func Materialize[T vdb.Value](src vdb.ValueReader[T], dst *dense.Dense[T], serial bool) {
	MaterializeUsing(defaultEngine, src, dst, serial)
}

// MaterializeUsing is Materialize with an explicit engine.  Sources only need to
// support concurrent reads; a source that hands out accessors gets one per
// partition.
func MaterializeUsing[T vdb.Value](e *Engine, src vdb.ValueReader[T], dst *dense.Dense[T], serial bool) {
	timedLog := vdb.NewTimeLog()
	parts := e.Partitions(dst.BBox(), dst.Layout())
	e.run(parts, serial, func(part vdb.CoordBBox) {
		read := src.Value
		if as, ok := src.(vdb.AccessorSource[T]); ok {
			read = as.NewAccessor().Value
		}
		dst.Walk(part, func(c vdb.Coord, i int) {
			dst.SetValueAt(i, read(c))
		})
	})
	timedLog.Debugf("materialized %s voxels over %s in %d partitions (serial %t)",
		humanize.Comma(int64(dst.ValueCount())), dst.BBox(), len(parts), e.runsSerially(parts, serial))
}
