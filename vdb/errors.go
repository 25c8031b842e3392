package vdb

import (
	"errors"
	"fmt"
)

// ErrInvalidRegion is the sentinel matched by errors.Is for any failure caused by a
// region that cannot back a dense buffer.
var ErrInvalidRegion = errors.New("invalid region")

// InvalidRegionError reports the offending region and why it was rejected.
type InvalidRegionError struct {
	BBox   CoordBBox
	Reason string
}

func (e *InvalidRegionError) Error() string {
	return fmt.Sprintf("invalid region %s: %s", e.BBox, e.Reason)
}

// Is allows errors.Is(err, ErrInvalidRegion).
func (e *InvalidRegionError) Is(target error) bool {
	return target == ErrInvalidRegion
}

// CheckRegion returns the volume of a region that can back a dense buffer or an
// *InvalidRegionError if the region is empty or too large to address.
func CheckRegion(b CoordBBox) (uint64, error) {
	if b.Empty() {
		return 0, &InvalidRegionError{BBox: b, Reason: "region is empty"}
	}
	vol, err := b.CheckedVolume()
	if err != nil {
		return 0, &InvalidRegionError{BBox: b, Reason: err.Error()}
	}
	if vol > uint64(maxInt) {
		return 0, &InvalidRegionError{BBox: b, Reason: fmt.Sprintf("volume %d exceeds addressable size", vol)}
	}
	return vol, nil
}

const maxInt = int(^uint(0) >> 1)
