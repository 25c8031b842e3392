package vdb

// Number is the set of numeric voxel value types.
type Number interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// Value is the set of voxel value types a dense buffer or sparse grid can hold.
type Value interface {
	bool | Number
}
