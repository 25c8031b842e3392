package sparse

import (
	"math"
	"sync"
	"testing"

	. "github.com/janelia-flyem/go/gocheck"

	"github.com/janelia-flyem/densevdb/vdb"
)

// Hook up gocheck into the "go test" runner.
func Test(t *testing.T) { TestingT(t) }

type TreeSuite struct{}

var _ = Suite(&TreeSuite{})

func (s *TreeSuite) TestMasks(c *C) {
	var m Mask512
	c.Assert(m.IsOff(), Equals, true)
	m.SetBit(0)
	m.SetBit(63)
	m.SetBit(64)
	m.SetBit(511)
	c.Assert(m.CountOn(), Equals, 4)
	c.Assert(m.GetBit(63), Equals, true)
	c.Assert(m.GetBit(62), Equals, false)
	m.ClearBit(63)
	c.Assert(m.GetBit(63), Equals, false)

	var visited []int
	m.ForEachOn(func(i int) bool {
		visited = append(visited, i)
		return true
	})
	c.Assert(visited, DeepEquals, []int{0, 64, 511})

	var big Mask4096
	big.SetBit(4095)
	big.SetBit(7)
	c.Assert(big.CountOn(), Equals, 2)
	c.Assert(big.GetBit(4095), Equals, true)
	c.Assert(big.GetBit(4094), Equals, false)
}

func (s *TreeSuite) TestOffsets(c *C) {
	coords := []vdb.Coord{{0, 0, 0}, {-1, -1, -1}, {7, 8, -9}, {-129, 300, 127}, {1000, -200, 5}}
	for _, p := range coords {
		origin := leafOrigin(p)
		c.Assert(origin[0]%LeafDim, Equals, int32(0))
		c.Assert(p[0]-origin[0] >= 0 && p[0]-origin[0] < LeafDim, Equals, true)
		c.Assert(leafOffsetCoord(origin, leafOffset(p)), Equals, p)

		iorigin := internalOrigin(p)
		c.Assert(iorigin[1]%InternalTotalDim, Equals, int32(0))
		n := childOffset(p)
		c.Assert(n >= 0 && n < InternalChildren, Equals, true)
	}
	c.Assert(leafOrigin(vdb.Coord{-1, -8, -9}), Equals, vdb.Coord{-8, -8, -16})
	c.Assert(internalOrigin(vdb.Coord{-1, 127, 128}), Equals, vdb.Coord{-128, 0, 128})

	// z varies fastest within a leaf.
	c.Assert(leafOffset(vdb.Coord{0, 0, 1}), Equals, 1)
	c.Assert(leafOffset(vdb.Coord{0, 1, 0}), Equals, LeafDim)
	c.Assert(leafOffset(vdb.Coord{1, 0, 0}), Equals, LeafDim*LeafDim)
}

func (s *TreeSuite) TestTreeBasics(c *C) {
	tree := NewTree[float32](2.5)
	c.Assert(tree.Background(), Equals, float32(2.5))
	c.Assert(tree.Value(vdb.Coord{3, -4, 5}), Equals, float32(2.5))
	c.Assert(tree.ActiveVoxelCount(), Equals, uint64(0))
	c.Assert(tree.ActiveBBox().Empty(), Equals, true)
	c.Assert(tree.ConcurrentWriteSafe(), Equals, true)

	a := vdb.Coord{-1, -1, -1}
	b := vdb.Coord{1000, -200, 5}
	tree.SetActiveValue(a, 1.25)
	tree.SetActiveValue(b, -3)
	tree.SetActiveValue(b, -4) // overwrite does not change the count
	c.Assert(tree.ActiveVoxelCount(), Equals, uint64(2))
	c.Assert(tree.LeafCount(), Equals, 2)
	c.Assert(tree.IsActive(a), Equals, true)
	c.Assert(tree.IsActive(vdb.Coord{-1, -1, -2}), Equals, false)
	c.Assert(tree.Value(a), Equals, float32(1.25))
	c.Assert(tree.Value(b), Equals, float32(-4))
	c.Assert(tree.Value(vdb.Coord{-1, -1, -2}), Equals, float32(2.5))
	c.Assert(tree.ActiveBBox(), Equals, vdb.NewCoordBBox(vdb.Coord{-1, -200, -1}, vdb.Coord{1000, -1, 5}))

	// Setting the background value explicitly still makes the voxel active.
	tree.SetActiveValue(vdb.Coord{0, 0, 0}, 2.5)
	c.Assert(tree.IsActive(vdb.Coord{0, 0, 0}), Equals, true)
	c.Assert(tree.ActiveVoxelCount(), Equals, uint64(3))

	tree.Deactivate(b)
	tree.Deactivate(b)
	tree.Deactivate(vdb.Coord{5000, 5000, 5000})
	c.Assert(tree.ActiveVoxelCount(), Equals, uint64(2))
	c.Assert(tree.Value(b), Equals, float32(2.5))
	c.Assert(tree.ActiveBBox(), Equals, vdb.NewCoordBBox(vdb.Coord{-1, -1, -1}, vdb.Coord{0, 0, 0}))

	tree.Clear()
	c.Assert(tree.ActiveVoxelCount(), Equals, uint64(0))
	c.Assert(tree.LeafCount(), Equals, 0)
	c.Assert(tree.Value(a), Equals, float32(2.5))
	c.Assert(tree.ActiveBBox().Empty(), Equals, true)
}

func (s *TreeSuite) TestNegativeZeroBackground(c *C) {
	tree := NewTree(float32(math.Copysign(0, -1)))
	tree.SetActiveValue(vdb.Coord{0, 0, 0}, 1)

	// Inactive voxels in an allocated leaf read as the background.
	v := tree.Value(vdb.Coord{0, 0, 1})
	c.Assert(math.Signbit(float64(v)), Equals, true)
	tree.Deactivate(vdb.Coord{0, 0, 0})
	c.Assert(math.Signbit(float64(tree.Value(vdb.Coord{0, 0, 0}))), Equals, true)
}

func (s *TreeSuite) TestAccessor(c *C) {
	tree := NewTree[int16](-1)
	acc := tree.NewAccessor()
	var p vdb.Coord
	for p[0] = -10; p[0] < 10; p[0]++ {
		for p[2] = -3; p[2] < 20; p[2]++ {
			acc.SetActiveValue(p, int16(p[0]*100+p[2]))
		}
	}
	c.Assert(tree.ActiveVoxelCount(), Equals, uint64(20*23))
	for p[0] = -10; p[0] < 10; p[0]++ {
		for p[2] = -3; p[2] < 20; p[2]++ {
			c.Assert(acc.Value(p), Equals, int16(p[0]*100+p[2]))
			c.Assert(tree.Value(p), Equals, int16(p[0]*100+p[2]))
		}
	}
	c.Assert(acc.Value(vdb.Coord{0, 1, 0}), Equals, int16(-1))
	c.Assert(acc.Value(vdb.Coord{500, 1, 0}), Equals, int16(-1))
}

func (s *TreeSuite) TestConcurrentWriters(c *C) {
	tree := NewTree[uint8](0)
	oracle := NewMapGrid[uint8](0)

	const slabs = 8
	var wg sync.WaitGroup
	for slab := 0; slab < slabs; slab++ {
		wg.Add(1)
		go func(slab int32) {
			defer wg.Done()
			acc := tree.NewAccessor()
			var p vdb.Coord
			for p[0] = slab * 5; p[0] < (slab+1)*5; p[0]++ {
				for p[1] = -20; p[1] < 20; p[1]++ {
					for p[2] = 0; p[2] < 30; p[2] += 3 {
						acc.SetActiveValue(p, uint8(p[0]))
					}
				}
			}
		}(int32(slab))
	}
	wg.Wait()

	var p vdb.Coord
	for p[0] = 0; p[0] < slabs*5; p[0]++ {
		for p[1] = -20; p[1] < 20; p[1]++ {
			for p[2] = 0; p[2] < 30; p[2] += 3 {
				oracle.SetActiveValue(p, uint8(p[0]))
			}
		}
	}
	c.Assert(tree.ActiveVoxelCount(), Equals, uint64(slabs*5*40*10))
	c.Assert(tree.ActiveBBox(), Equals, vdb.NewCoordBBox(vdb.Coord{0, -20, 0}, vdb.Coord{39, 19, 27}))
	c.Assert(tree.HasSameTopology(oracle), Equals, true)
	c.Assert(oracle.HasSameTopology(tree), Equals, true)

	mismatches := 0
	oracle.ForEachActive(func(p vdb.Coord, v uint8) bool {
		if tree.Value(p) != v {
			mismatches++
		}
		return true
	})
	c.Assert(mismatches, Equals, 0)

	oracle.Deactivate(vdb.Coord{0, 0, 0})
	c.Assert(tree.HasSameTopology(oracle), Equals, false)
	oracle.SetActiveValue(vdb.Coord{0, 0, 1}, 1)
	c.Assert(tree.HasSameTopology(oracle), Equals, false)
}

func (s *TreeSuite) TestTreeTopology(c *C) {
	a := NewTree[bool](false)
	b := NewTree[bool](false)
	c.Assert(a.HasSameTopology(b), Equals, true)

	a.SetActiveValue(vdb.Coord{1, 2, 3}, true)
	b.SetActiveValue(vdb.Coord{1, 2, 3}, false)
	c.Assert(a.HasSameTopology(b), Equals, true)

	// b allocates an extra leaf that ends up empty.
	b.SetActiveValue(vdb.Coord{100, 100, 100}, true)
	c.Assert(a.HasSameTopology(b), Equals, false)
	b.Deactivate(vdb.Coord{100, 100, 100})
	c.Assert(b.LeafCount(), Equals, 2)
	c.Assert(a.HasSameTopology(b), Equals, true)
	c.Assert(b.HasSameTopology(a), Equals, true)
}

func (s *TreeSuite) TestForEachActiveOrder(c *C) {
	tree := NewTree[int32](0)
	coords := []vdb.Coord{{300, 0, 0}, {-300, 5, 5}, {0, 0, 9}, {0, 0, 1}, {0, 9, 0}}
	for i, p := range coords {
		tree.SetActiveValue(p, int32(i))
	}
	collect := func() []vdb.Coord {
		var visited []vdb.Coord
		tree.ForEachActive(func(p vdb.Coord, _ int32) bool {
			visited = append(visited, p)
			return true
		})
		return visited
	}
	first := collect()
	c.Assert(first, HasLen, len(coords))
	c.Assert(first[0], Equals, vdb.Coord{-300, 5, 5})
	c.Assert(first[len(first)-1], Equals, vdb.Coord{300, 0, 0})
	c.Assert(collect(), DeepEquals, first)

	visits := 0
	tree.ForEachActive(func(vdb.Coord, int32) bool {
		visits++
		return visits < 2
	})
	c.Assert(visits, Equals, 2)
}

func (s *TreeSuite) TestMapGrid(c *C) {
	grid := NewMapGrid[float64](0.5)
	c.Assert(grid.ConcurrentWriteSafe(), Equals, false)
	c.Assert(grid.Value(vdb.Coord{1, 1, 1}), Equals, 0.5)
	c.Assert(grid.ActiveBBox().Empty(), Equals, true)

	grid.SetActiveValue(vdb.Coord{3, 2, 1}, 7)
	grid.SetActiveValue(vdb.Coord{-3, 2, 10}, 8)
	c.Assert(grid.ActiveVoxelCount(), Equals, uint64(2))
	c.Assert(grid.ActiveBBox(), Equals, vdb.NewCoordBBox(vdb.Coord{-3, 2, 1}, vdb.Coord{3, 2, 10}))
	c.Assert(grid.Value(vdb.Coord{3, 2, 1}), Equals, 7.0)

	grid.Deactivate(vdb.Coord{3, 2, 1})
	c.Assert(grid.IsActive(vdb.Coord{3, 2, 1}), Equals, false)
	c.Assert(grid.Value(vdb.Coord{3, 2, 1}), Equals, 0.5)
}

func (s *TreeSuite) TestEvalMinMax(c *C) {
	tree := NewTree[int64](100)
	_, _, found := EvalMinMax[int64](tree)
	c.Assert(found, Equals, false)

	tree.SetActiveValue(vdb.Coord{0, 0, 0}, -7)
	tree.SetActiveValue(vdb.Coord{50, 0, 0}, 12)
	tree.SetActiveValue(vdb.Coord{0, -50, 0}, 3)
	min, max, found := EvalMinMax[int64](tree)
	c.Assert(found, Equals, true)
	c.Assert(min, Equals, int64(-7))
	c.Assert(max, Equals, int64(12))
}

func (s *TreeSuite) TestLevelSetSphere(c *C) {
	const (
		radius    = 10.0
		voxelSize = 0.2
		halfWidth = 5.0
	)
	tree, err := LevelSetSphere(radius, [3]float64{0, 0, 0}, voxelSize, halfWidth)
	c.Assert(err, IsNil)
	c.Assert(tree.Background(), Equals, float32(1.0))
	c.Assert(tree.ActiveVoxelCount() > 0, Equals, true)

	// Index space radius is 50 voxels and the band reaches 4 voxels past it.
	c.Assert(tree.ActiveBBox(), Equals, vdb.NewCoordBBox(vdb.Coord{-54, -54, -54}, vdb.Coord{54, 54, 54}))
	c.Assert(tree.IsActive(vdb.Coord{50, 0, 0}), Equals, true)
	c.Assert(tree.Value(vdb.Coord{50, 0, 0}), Equals, float32(0))
	c.Assert(tree.Value(vdb.Coord{0, 0, -48}), Equals, float32(-2*voxelSize))
	c.Assert(tree.IsActive(vdb.Coord{0, 0, 0}), Equals, false)
	c.Assert(tree.IsActive(vdb.Coord{55, 0, 0}), Equals, false)

	min, max, found := EvalMinMax[float32](tree)
	c.Assert(found, Equals, true)
	c.Assert(min > -1 && min < 0, Equals, true)
	c.Assert(max < 1 && max > 0, Equals, true)

	_, err = LevelSetSphere(radius, [3]float64{}, 0, halfWidth)
	c.Assert(err, NotNil)
	_, err = LevelSetSphere(radius, [3]float64{}, voxelSize, -1)
	c.Assert(err, NotNil)
	_, err = LevelSetSphere(-radius, [3]float64{}, voxelSize, halfWidth)
	c.Assert(err, NotNil)
}
