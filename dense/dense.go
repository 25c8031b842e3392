/*
	Package dense implements a flat, fully materialized buffer of voxel values over an
	inclusive bounding box.  External code may read and write the raw storage directly,
	so the memory layout of a buffer is fixed at construction:

		LayoutZYX (default): z varies fastest, then y, then x.
			index = (x-minX)*dimY*dimZ + (y-minY)*dimZ + (z-minZ)
		LayoutXYZ: x varies fastest, then y, then z.
			index = (z-minZ)*dimY*dimX + (y-minY)*dimX + (x-minX)
*/
package dense

import (
	"fmt"
	"math"

	"github.com/janelia-flyem/densevdb/vdb"
)

// Layout selects which axis varies fastest in a buffer's linear storage.
type Layout uint8

const (
	// LayoutZYX stores z contiguously.
	LayoutZYX Layout = iota

	// LayoutXYZ stores x contiguously, the layout of DVID voxel blocks.
	LayoutXYZ
)

// Axes returns the axis indices from outermost (slowest) to innermost (fastest).
func (l Layout) Axes() (outer, middle, inner int) {
	if l == LayoutXYZ {
		return 2, 1, 0
	}
	return 0, 1, 2
}

func (l Layout) String() string {
	switch l {
	case LayoutZYX:
		return "zyx"
	case LayoutXYZ:
		return "xyz"
	default:
		return fmt.Sprintf("layout(%d)", uint8(l))
	}
}

// ParseLayout converts "zyx" or "xyz" into a Layout.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "zyx", "ZYX":
		return LayoutZYX, nil
	case "xyz", "XYZ":
		return LayoutXYZ, nil
	default:
		return 0, fmt.Errorf("unknown memory layout %q, expected zyx or xyz", s)
	}
}

// Dense is a mutable buffer with one value per voxel of its bounding box.
type Dense[T vdb.Value] struct {
	bbox    vdb.CoordBBox
	layout  Layout
	strides [3]int
	data    []T
}

// New returns a zero-filled buffer over bbox in the default layout.
func New[T vdb.Value](bbox vdb.CoordBBox) (*Dense[T], error) {
	var zero T
	return NewWithLayout(bbox, LayoutZYX, zero)
}

// NewFilled returns a buffer over bbox in the default layout with every value set to fill.
func NewFilled[T vdb.Value](bbox vdb.CoordBBox, fill T) (*Dense[T], error) {
	return NewWithLayout(bbox, LayoutZYX, fill)
}

// NewWithLayout returns a buffer over bbox with the given layout and fill value.
// An empty or unaddressable bbox returns a *vdb.InvalidRegionError before any
// allocation is attempted.
func NewWithLayout[T vdb.Value](bbox vdb.CoordBBox, layout Layout, fill T) (*Dense[T], error) {
	if layout != LayoutZYX && layout != LayoutXYZ {
		return nil, fmt.Errorf("cannot create dense buffer with unknown %s", layout)
	}
	vol, err := vdb.CheckRegion(bbox)
	if err != nil {
		return nil, err
	}
	d := &Dense[T]{
		bbox:   bbox,
		layout: layout,
		data:   make([]T, vol),
	}
	dim := bbox.Dim()
	outer, middle, inner := layout.Axes()
	d.strides[inner] = 1
	d.strides[middle] = int(dim[inner])
	d.strides[outer] = int(dim[inner]) * int(dim[middle])

	if !isZero(fill) {
		d.Fill(fill)
	}
	return d, nil
}

// BBox returns the region defining the buffer.
func (d *Dense[T]) BBox() vdb.CoordBBox {
	return d.bbox
}

// Layout returns the memory layout of the raw storage.
func (d *Dense[T]) Layout() Layout {
	return d.layout
}

// ValueCount returns the number of values, always equal to BBox().Volume().
func (d *Dense[T]) ValueCount() uint64 {
	return uint64(len(d.data))
}

// XStride returns the linear index increment for a unit step along x.
func (d *Dense[T]) XStride() int { return d.strides[0] }

// YStride returns the linear index increment for a unit step along y.
func (d *Dense[T]) YStride() int { return d.strides[1] }

// ZStride returns the linear index increment for a unit step along z.
func (d *Dense[T]) ZStride() int { return d.strides[2] }

// Data returns the raw storage in the buffer's layout.
func (d *Dense[T]) Data() []T {
	return d.data
}

// Fill sets every value to v.
func (d *Dense[T]) Fill(v T) {
	for i := range d.data {
		d.data[i] = v
	}
}

// Index returns the linear index of a coordinate, which must lie inside BBox().
func (d *Dense[T]) Index(c vdb.Coord) int {
	return int(int64(c[0])-int64(d.bbox.Min[0]))*d.strides[0] +
		int(int64(c[1])-int64(d.bbox.Min[1]))*d.strides[1] +
		int(int64(c[2])-int64(d.bbox.Min[2]))*d.strides[2]
}

// OffsetIndex returns the linear index of per-axis offsets from BBox().Min.
func (d *Dense[T]) OffsetIndex(i, j, k int) int {
	return i*d.strides[0] + j*d.strides[1] + k*d.strides[2]
}

// Value returns the value at a coordinate inside BBox().
func (d *Dense[T]) Value(c vdb.Coord) T {
	return d.data[d.Index(c)]
}

// SetValue sets the value at a coordinate inside BBox().
func (d *Dense[T]) SetValue(c vdb.Coord, v T) {
	d.data[d.Index(c)] = v
}

// ValueAt returns the value at a linear index.
func (d *Dense[T]) ValueAt(i int) T {
	return d.data[i]
}

// SetValueAt sets the value at a linear index.
func (d *Dense[T]) SetValueAt(i int, v T) {
	d.data[i] = v
}

// ValueAtOffset returns the value at per-axis offsets from BBox().Min.
func (d *Dense[T]) ValueAtOffset(i, j, k int) T {
	return d.data[d.OffsetIndex(i, j, k)]
}

// SetValueAtOffset sets the value at per-axis offsets from BBox().Min.
func (d *Dense[T]) SetValueAtOffset(i, j, k int, v T) {
	d.data[d.OffsetIndex(i, j, k)] = v
}

// Walk visits every coordinate of sub, which must lie inside BBox(), in the
// buffer's storage order: the layout's outer axis slowest, its inner axis fastest.
// The linear index of each coordinate is passed along with it.
func (d *Dense[T]) Walk(sub vdb.CoordBBox, fn func(c vdb.Coord, i int)) {
	if sub.Empty() {
		return
	}
	outer, middle, inner := d.layout.Axes()
	innerStride := d.strides[inner]
	var c vdb.Coord
	for c[outer] = sub.Min[outer]; c[outer] <= sub.Max[outer]; c[outer]++ {
		for c[middle] = sub.Min[middle]; c[middle] <= sub.Max[middle]; c[middle]++ {
			c[inner] = sub.Min[inner]
			i := d.Index(c)
			for ; c[inner] <= sub.Max[inner]; c[inner]++ {
				fn(c, i)
				i += innerStride
				if c[inner] == sub.Max[inner] {
					break // avoid int32 overflow at MaxInt32
				}
			}
			if c[middle] == sub.Max[middle] {
				break
			}
		}
		if c[outer] == sub.Max[outer] {
			break
		}
	}
}

// Clone returns a deep copy of the buffer.
func (d *Dense[T]) Clone() *Dense[T] {
	dup := *d
	dup.data = make([]T, len(d.data))
	copy(dup.data, d.data)
	return &dup
}

// Equal returns true if both buffers cover the same region in the same layout
// with identical values.  Floats are compared bit for bit, so a NaN equals the
// same NaN and -0 differs from +0.
func (d *Dense[T]) Equal(d2 *Dense[T]) bool {
	if d.bbox != d2.bbox || d.layout != d2.layout || len(d.data) != len(d2.data) {
		return false
	}
	switch data := any(d.data).(type) {
	case []float32:
		data2 := any(d2.data).([]float32)
		for i, v := range data {
			if math.Float32bits(v) != math.Float32bits(data2[i]) {
				return false
			}
		}
	case []float64:
		data2 := any(d2.data).([]float64)
		for i, v := range data {
			if math.Float64bits(v) != math.Float64bits(data2[i]) {
				return false
			}
		}
	default:
		for i, v := range d.data {
			if d2.data[i] != v {
				return false
			}
		}
	}
	return true
}

// isZero returns true if v has the all-zero representation of a freshly
// allocated value.
func isZero[T vdb.Value](v T) bool {
	switch f := any(v).(type) {
	case float32:
		return math.Float32bits(f) == 0
	case float64:
		return math.Float64bits(f) == 0
	}
	var zero T
	return v == zero
}

func (d *Dense[T]) String() string {
	return fmt.Sprintf("dense %T buffer over %s (%d values, layout %s)", *new(T), d.bbox, len(d.data), d.layout)
}
