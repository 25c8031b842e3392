package vdb

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// CoordBBox is an axis-aligned box of voxels with inclusive Min and Max corners.
// A box is empty if Min exceeds Max along any axis.  Empty boxes are legal values
// and are never clamped.
type CoordBBox struct {
	Min, Max Coord
}

// NewCoordBBox returns the box spanning the two inclusive corners.  No ordering
// of the corners is enforced; use Empty() to check.
func NewCoordBBox(min, max Coord) CoordBBox {
	return CoordBBox{Min: min, Max: max}
}

// FromDims returns the box with its minimum corner at the origin and the given
// number of voxels along each axis.
func FromDims(dims Coord) CoordBBox {
	return CoordBBox{Max: dims.AddScalar(-1)}
}

// NewEmptyBBox returns a box initialized to the canonical empty state, suitable
// for growing with ExpandBy.
func NewEmptyBBox() CoordBBox {
	return CoordBBox{
		Min: Coord{math.MaxInt32, math.MaxInt32, math.MaxInt32},
		Max: Coord{math.MinInt32, math.MinInt32, math.MinInt32},
	}
}

// Empty returns true if the box holds no voxels.
func (b CoordBBox) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Dim returns the number of voxels along each axis.  The result is meaningless
// for empty boxes.
func (b CoordBBox) Dim() Coord {
	return b.Max.Sub(b.Min).AddScalar(1)
}

// span returns the number of voxels along an axis in a type wide enough to hold
// the full int32 range.
func (b CoordBBox) span(axis int) uint64 {
	return uint64(int64(b.Max[axis]) - int64(b.Min[axis]) + 1)
}

// CheckedVolume returns the number of voxels in the box.  Empty boxes have zero
// volume.  An error is returned if the volume does not fit in 64 bits.
func (b CoordBBox) CheckedVolume() (uint64, error) {
	if b.Empty() {
		return 0, nil
	}
	vol := b.span(0)
	for axis := 1; axis < 3; axis++ {
		hi, lo := bits.Mul64(vol, b.span(axis))
		if hi != 0 {
			return 0, fmt.Errorf("volume of %s overflows 64 bits", b)
		}
		vol = lo
	}
	return vol, nil
}

// Volume returns the number of voxels in the box, zero if empty.  Volumes that
// overflow 64 bits saturate at math.MaxUint64.
func (b CoordBBox) Volume() uint64 {
	vol, err := b.CheckedVolume()
	if err != nil {
		return math.MaxUint64
	}
	return vol
}

// IsInside returns true if the coordinate lies within the box.
func (b CoordBBox) IsInside(c Coord) bool {
	return b.Min[0] <= c[0] && c[0] <= b.Max[0] &&
		b.Min[1] <= c[1] && c[1] <= b.Max[1] &&
		b.Min[2] <= c[2] && c[2] <= b.Max[2]
}

// Contains returns true if every voxel of the passed box lies within the receiver.
// An empty box is contained by any box.
func (b CoordBBox) Contains(b2 CoordBBox) bool {
	if b2.Empty() {
		return true
	}
	return b.IsInside(b2.Min) && b.IsInside(b2.Max)
}

// Expand grows both corners of the box by margin voxels along every axis.
// Corners saturate at the int32 limits instead of wrapping.
func (b *CoordBBox) Expand(margin int32) {
	for axis := 0; axis < 3; axis++ {
		b.Min[axis] = clampInt32(int64(b.Min[axis]) - int64(margin))
		b.Max[axis] = clampInt32(int64(b.Max[axis]) + int64(margin))
	}
}

func clampInt32(v int64) int32 {
	switch {
	case v < math.MinInt32:
		return math.MinInt32
	case v > math.MaxInt32:
		return math.MaxInt32
	}
	return int32(v)
}

// ExpandBy grows the box to include the given coordinate.
func (b *CoordBBox) ExpandBy(c Coord) {
	b.Min.SetMinimum(c)
	b.Max.SetMaximum(c)
}

// Intersect returns the overlap of two boxes, which may be empty.
func (b CoordBBox) Intersect(b2 CoordBBox) CoordBBox {
	min, _ := b.Min.Max(b2.Min)
	max, _ := b.Max.Min(b2.Max)
	return CoordBBox{min, max}
}

// Union returns the smallest box holding both boxes.  Empty operands are ignored.
func (b CoordBBox) Union(b2 CoordBBox) CoordBBox {
	switch {
	case b.Empty():
		return b2
	case b2.Empty():
		return b
	}
	min, _ := b.Min.Min(b2.Min)
	max, _ := b.Max.Max(b2.Max)
	return CoordBBox{min, max}
}

func (b CoordBBox) String() string {
	return fmt.Sprintf("%s -> %s", b.Min, b.Max)
}

// StringToBBox parses "minx,miny,minz,maxx,maxy,maxz" given a separator.
func StringToBBox(str, separator string) (b CoordBBox, err error) {
	elems := strings.Split(str, separator)
	if len(elems) != 6 {
		err = fmt.Errorf("cannot convert %q into a bounding box: need 6 integers", str)
		return
	}
	if b.Min, err = StringToCoord(strings.Join(elems[:3], separator), separator); err != nil {
		return
	}
	b.Max, err = StringToCoord(strings.Join(elems[3:], separator), separator)
	return
}
