package vdb

import "sync"

// Extents accumulates the bounding box of voxels in a concurrency-safe manner.
// The zero value is an empty extent.
type Extents struct {
	mu    sync.Mutex
	bbox  CoordBBox
	valid bool
}

// Adjust grows the extents to include the given coordinate and returns true if
// the extents changed.
func (ext *Extents) Adjust(c Coord) bool {
	ext.mu.Lock()
	defer ext.mu.Unlock()

	if !ext.valid {
		ext.bbox = CoordBBox{c, c}
		ext.valid = true
		return true
	}
	if ext.bbox.IsInside(c) {
		return false
	}
	ext.bbox.ExpandBy(c)
	return true
}

// AdjustBBox grows the extents to include the given box.  Empty boxes are ignored.
func (ext *Extents) AdjustBBox(b CoordBBox) bool {
	if b.Empty() {
		return false
	}
	ext.mu.Lock()
	defer ext.mu.Unlock()

	if !ext.valid {
		ext.bbox = b
		ext.valid = true
		return true
	}
	if ext.bbox.Contains(b) {
		return false
	}
	ext.bbox = ext.bbox.Union(b)
	return true
}

// BBox returns the accumulated box, or the canonical empty box if nothing was added.
func (ext *Extents) BBox() CoordBBox {
	ext.mu.Lock()
	defer ext.mu.Unlock()

	if !ext.valid {
		return NewEmptyBBox()
	}
	return ext.bbox
}

// Reset returns the extents to the empty state.
func (ext *Extents) Reset() {
	ext.mu.Lock()
	ext.valid = false
	ext.mu.Unlock()
}
