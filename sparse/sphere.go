package sparse

import (
	"fmt"
	"math"

	"github.com/janelia-flyem/densevdb/vdb"
)

// LevelSetSphere returns a narrow-band signed distance field of a sphere.  The
// radius and center are in world units, voxelSize is the world size of a voxel,
// and halfWidth is the half width of the band in voxels.  Voxels within the band
// are active with their world-space signed distance, negative inside.  The
// background is halfWidth * voxelSize, and voxels inside the band's inner edge
// are left inactive.
func LevelSetSphere(radius float64, center [3]float64, voxelSize, halfWidth float64) (*Tree[float32], error) {
	switch {
	case voxelSize <= 0:
		return nil, fmt.Errorf("voxel size must be positive, got %g", voxelSize)
	case halfWidth <= 0:
		return nil, fmt.Errorf("band half width must be positive, got %g", halfWidth)
	case radius <= 0:
		return nil, fmt.Errorf("sphere radius must be positive, got %g", radius)
	}
	background := float32(halfWidth * voxelSize)
	tree := NewTree(background)

	// Index space radius and center.
	r := radius / voxelSize
	var ctr [3]float64
	var lo, hi [3]int32
	for axis := 0; axis < 3; axis++ {
		ctr[axis] = center[axis] / voxelSize
		lo[axis] = int32(math.Floor(ctr[axis] - r - halfWidth))
		hi[axis] = int32(math.Ceil(ctr[axis] + r + halfWidth))
	}

	acc := tree.NewAccessor()
	for x := lo[0]; x <= hi[0]; x++ {
		dx := float64(x) - ctr[0]
		for y := lo[1]; y <= hi[1]; y++ {
			dy := float64(y) - ctr[1]
			for z := lo[2]; z <= hi[2]; z++ {
				dz := float64(z) - ctr[2]
				dist := math.Sqrt(dx*dx+dy*dy+dz*dz) - r
				if math.Abs(dist) >= halfWidth {
					continue
				}
				v := float32(dist * voxelSize)
				if v >= background || v <= -background {
					continue
				}
				acc.SetActiveValue(vdb.Coord{x, y, z}, v)
			}
		}
	}
	vdb.Debugf("level set sphere radius %g voxel %g: %d active voxels in %d leaves\n",
		radius, voxelSize, tree.ActiveVoxelCount(), tree.LeafCount())
	return tree, nil
}
