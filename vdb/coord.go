package vdb

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord is an (x, y, z) voxel coordinate of 32-bit signed integers.
type Coord [3]int32

// NewCoord returns a Coord with the given components.
func NewCoord(x, y, z int32) Coord {
	return Coord{x, y, z}
}

// X returns the x component.
func (c Coord) X() int32 { return c[0] }

// Y returns the y component.
func (c Coord) Y() int32 { return c[1] }

// Z returns the z component.
func (c Coord) Z() int32 { return c[2] }

// Add returns the addition of two coordinates.
func (c Coord) Add(c2 Coord) Coord {
	return Coord{
		c[0] + c2[0],
		c[1] + c2[1],
		c[2] + c2[2],
	}
}

// Sub returns the subtraction of the passed coordinate from the receiver.
func (c Coord) Sub(c2 Coord) Coord {
	return Coord{
		c[0] - c2[0],
		c[1] - c2[1],
		c[2] - c2[2],
	}
}

// AddScalar adds a scalar value to each component.
func (c Coord) AddScalar(value int32) Coord {
	return Coord{c[0] + value, c[1] + value, c[2] + value}
}

// Max returns a Coord where each of its elements are the maximum of two coordinates' elements.
func (c Coord) Max(c2 Coord) (Coord, bool) {
	var changed bool
	result := c
	for i := 0; i < 3; i++ {
		if c[i] < c2[i] {
			result[i] = c2[i]
			changed = true
		}
	}
	return result, changed
}

// Min returns a Coord where each of its elements are the minimum of two coordinates' elements.
func (c Coord) Min(c2 Coord) (Coord, bool) {
	var changed bool
	result := c
	for i := 0; i < 3; i++ {
		if c[i] > c2[i] {
			result[i] = c2[i]
			changed = true
		}
	}
	return result, changed
}

// SetMinimum sets the coordinate to the minimum elements of current and passed coordinates.
func (c *Coord) SetMinimum(c2 Coord) {
	if c[0] > c2[0] {
		c[0] = c2[0]
	}
	if c[1] > c2[1] {
		c[1] = c2[1]
	}
	if c[2] > c2[2] {
		c[2] = c2[2]
	}
}

// SetMaximum sets the coordinate to the maximum elements of current and passed coordinates.
func (c *Coord) SetMaximum(c2 Coord) {
	if c[0] < c2[0] {
		c[0] = c2[0]
	}
	if c[1] < c2[1] {
		c[1] = c2[1]
	}
	if c[2] < c2[2] {
		c[2] = c2[2]
	}
}

// Prod returns the product of the components as a 64-bit integer.
func (c Coord) Prod() int64 {
	return int64(c[0]) * int64(c[1]) * int64(c[2])
}

// Less orders coordinates by x, then y, then z.
func (c Coord) Less(c2 Coord) bool {
	if c[0] != c2[0] {
		return c[0] < c2[0]
	}
	if c[1] != c2[1] {
		return c[1] < c2[1]
	}
	return c[2] < c2[2]
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c[0], c[1], c[2])
}

// StringToCoord parses a string of format "%d<sep>%d<sep>%d" into a Coord.
func StringToCoord(str, separator string) (c Coord, err error) {
	elems := strings.Split(str, separator)
	if len(elems) != 3 {
		err = fmt.Errorf("cannot convert %q into a 3d coordinate", str)
		return
	}
	for i, elem := range elems {
		var n int64
		n, err = strconv.ParseInt(strings.TrimSpace(elem), 10, 32)
		if err != nil {
			err = fmt.Errorf("bad coordinate component %q in %q: %w", elem, str, err)
			return
		}
		c[i] = int32(n)
	}
	return
}
