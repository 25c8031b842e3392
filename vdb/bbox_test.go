package vdb

import (
	"errors"
	"math"
	"sync"

	. "github.com/janelia-flyem/go/gocheck"
)

type BBoxSuite struct{}

var _ = Suite(&BBoxSuite{})

func (s *BBoxSuite) TestVolume(c *C) {
	b := NewCoordBBox(Coord{-40, -5, 6}, Coord{-11, 7, 22})
	c.Assert(b.Empty(), Equals, false)
	c.Assert(b.Volume(), Equals, uint64(30*13*17))
	c.Assert(b.Dim(), Equals, Coord{30, 13, 17})

	single := NewCoordBBox(Coord{3, 3, 3}, Coord{3, 3, 3})
	c.Assert(single.Volume(), Equals, uint64(1))

	dims := FromDims(Coord{8, 8, 9})
	c.Assert(dims.Min, Equals, Coord{0, 0, 0})
	c.Assert(dims.Max, Equals, Coord{7, 7, 8})
	c.Assert(dims.Volume(), Equals, uint64(576))
}

func (s *BBoxSuite) TestEmpty(c *C) {
	bad := NewCoordBBox(Coord{1, 1, 1}, Coord{-1, 2, 2})
	c.Assert(bad.Empty(), Equals, true)
	c.Assert(bad.Volume(), Equals, uint64(0))

	c.Assert(NewEmptyBBox().Empty(), Equals, true)

	// Emptiness along any single axis.
	for axis := 0; axis < 3; axis++ {
		b := FromDims(Coord{4, 4, 4})
		b.Max[axis] = b.Min[axis] - 1
		c.Assert(b.Empty(), Equals, true)
	}
}

func (s *BBoxSuite) TestVolumeOverflow(c *C) {
	huge := NewCoordBBox(
		Coord{math.MinInt32, math.MinInt32, math.MinInt32},
		Coord{math.MaxInt32, math.MaxInt32, math.MaxInt32},
	)
	_, err := huge.CheckedVolume()
	c.Assert(err, NotNil)
	c.Assert(huge.Volume(), Equals, uint64(math.MaxUint64))

	// 2^32 * 2^32 is one past the largest uint64.
	wide := NewCoordBBox(Coord{math.MinInt32, math.MinInt32, 0}, Coord{math.MaxInt32, math.MaxInt32, 0})
	_, err = wide.CheckedVolume()
	c.Assert(err, NotNil)

	ok := NewCoordBBox(Coord{math.MinInt32, 0, 0}, Coord{math.MaxInt32, 0, 0})
	vol, err := ok.CheckedVolume()
	c.Assert(err, IsNil)
	c.Assert(vol, Equals, uint64(1)<<32)
}

func (s *BBoxSuite) TestContainment(c *C) {
	big := NewCoordBBox(Coord{-12, 7, -32}, Coord{12, 14, -15})
	small := NewCoordBBox(Coord{-10, 8, -31}, Coord{10, 12, -20})
	c.Assert(big.Contains(small), Equals, true)
	c.Assert(small.Contains(big), Equals, false)
	c.Assert(big.Contains(big), Equals, true)

	bigger := big
	bigger.Expand(10)
	c.Assert(bigger.Min, Equals, Coord{-22, -3, -42})
	c.Assert(bigger.Max, Equals, Coord{22, 24, -5})
	c.Assert(bigger.Contains(big), Equals, true)
	c.Assert(big.Contains(bigger), Equals, false)

	// Expansion saturates at the int32 limits.
	edge := NewCoordBBox(Coord{0, 0, 0}, Coord{math.MaxInt32, 1, 1})
	edge.Expand(1)
	c.Assert(edge.Empty(), Equals, false)
	c.Assert(edge, Equals, NewCoordBBox(Coord{-1, -1, -1}, Coord{math.MaxInt32, 2, 2}))
	low := NewCoordBBox(Coord{math.MinInt32 + 1, 0, 0}, Coord{0, 0, 0})
	low.Expand(math.MaxInt32)
	c.Assert(low.Min, Equals, Coord{math.MinInt32, -math.MaxInt32, -math.MaxInt32})
	c.Assert(low.Max, Equals, Coord{math.MaxInt32, math.MaxInt32, math.MaxInt32})

	// An empty box is contained by anything, including another empty box.
	empty := NewCoordBBox(Coord{1, 1, 1}, Coord{-1, 2, 2})
	c.Assert(small.Contains(empty), Equals, true)
	c.Assert(empty.Contains(empty), Equals, true)
	c.Assert(empty.Contains(small), Equals, false)

	c.Assert(small.IsInside(Coord{-10, 8, -31}), Equals, true)
	c.Assert(small.IsInside(Coord{10, 12, -20}), Equals, true)
	c.Assert(small.IsInside(Coord{11, 12, -20}), Equals, false)
	c.Assert(small.IsInside(Coord{0, 7, -25}), Equals, false)
}

func (s *BBoxSuite) TestExpandByUnionIntersect(c *C) {
	b := NewEmptyBBox()
	b.ExpandBy(Coord{3, -2, 5})
	c.Assert(b, Equals, NewCoordBBox(Coord{3, -2, 5}, Coord{3, -2, 5}))
	b.ExpandBy(Coord{0, 4, 5})
	c.Assert(b, Equals, NewCoordBBox(Coord{0, -2, 5}, Coord{3, 4, 5}))

	a := FromDims(Coord{8, 8, 9})
	u := a.Union(NewCoordBBox(Coord{8, 8, 9}, Coord{8, 8, 9}))
	c.Assert(u, Equals, FromDims(Coord{9, 9, 10}))
	c.Assert(a.Union(NewEmptyBBox()), Equals, a)
	c.Assert(NewEmptyBBox().Union(a), Equals, a)

	i := a.Intersect(NewCoordBBox(Coord{4, -3, 2}, Coord{20, 2, 3}))
	c.Assert(i, Equals, NewCoordBBox(Coord{4, 0, 2}, Coord{7, 2, 3}))
	c.Assert(a.Intersect(NewCoordBBox(Coord{20, 20, 20}, Coord{30, 30, 30})).Empty(), Equals, true)
}

func (s *BBoxSuite) TestStringToBBox(c *C) {
	b, err := StringToBBox("-40,-5,6,-11,7,22", ",")
	c.Assert(err, IsNil)
	c.Assert(b, Equals, NewCoordBBox(Coord{-40, -5, 6}, Coord{-11, 7, 22}))
	c.Assert(b.String(), Equals, "(-40,-5,6) -> (-11,7,22)")

	_, err = StringToBBox("1,2,3", ",")
	c.Assert(err, NotNil)
}

func (s *BBoxSuite) TestCheckRegion(c *C) {
	vol, err := CheckRegion(FromDims(Coord{8, 8, 9}))
	c.Assert(err, IsNil)
	c.Assert(vol, Equals, uint64(576))

	_, err = CheckRegion(NewCoordBBox(Coord{1, 1, 1}, Coord{-1, 2, 2}))
	c.Assert(err, NotNil)
	c.Assert(errors.Is(err, ErrInvalidRegion), Equals, true)
	var regionErr *InvalidRegionError
	c.Assert(errors.As(err, &regionErr), Equals, true)
	c.Assert(regionErr.BBox, Equals, NewCoordBBox(Coord{1, 1, 1}, Coord{-1, 2, 2}))

	_, err = CheckRegion(NewCoordBBox(
		Coord{math.MinInt32, math.MinInt32, math.MinInt32},
		Coord{math.MaxInt32, math.MaxInt32, math.MaxInt32},
	))
	c.Assert(errors.Is(err, ErrInvalidRegion), Equals, true)
}

func (s *BBoxSuite) TestExtents(c *C) {
	var ext Extents
	c.Assert(ext.BBox().Empty(), Equals, true)

	var wg sync.WaitGroup
	for x := int32(0); x < 16; x++ {
		wg.Add(1)
		go func(x int32) {
			defer wg.Done()
			for y := int32(-4); y < 4; y++ {
				ext.Adjust(Coord{x, y, 2 * x})
			}
		}(x)
	}
	wg.Wait()
	c.Assert(ext.BBox(), Equals, NewCoordBBox(Coord{0, -4, 0}, Coord{15, 3, 30}))

	c.Assert(ext.Adjust(Coord{1, 1, 1}), Equals, false)
	c.Assert(ext.AdjustBBox(NewEmptyBBox()), Equals, false)
	c.Assert(ext.AdjustBBox(FromDims(Coord{100, 1, 1})), Equals, true)
	c.Assert(ext.BBox().Max[0], Equals, int32(99))

	ext.Reset()
	c.Assert(ext.BBox().Empty(), Equals, true)
}
