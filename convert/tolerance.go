package convert

import "github.com/janelia-flyem/densevdb/vdb"

// Comparator decides whether a candidate value from a dense buffer differs enough
// from the reference value already in a sparse grid to be written as active.
type Comparator[T vdb.Value] func(candidate, reference T) bool

// WithinTolerance returns a comparator that reports a candidate active when its
// absolute difference from the reference exceeds tol.  The difference is taken
// as larger minus smaller so unsigned types never wrap, and a NaN difference is
// never active.
func WithinTolerance[T vdb.Number](tol T) Comparator[T] {
	return func(candidate, reference T) bool {
		var diff T
		if candidate > reference {
			diff = candidate - reference
		} else {
			diff = reference - candidate
		}
		if diff < 0 {
			// Signed overflow: the true difference exceeds any T.
			return true
		}
		return diff > tol
	}
}

// Exact returns a comparator that reports a candidate active whenever it differs
// from the reference.
func Exact[T vdb.Value]() Comparator[T] {
	return func(candidate, reference T) bool {
		return candidate != reference
	}
}

// ToleranceFor returns the comparator used for a tolerance of type T: exact
// inequality for bool, where the tolerance is ignored, and WithinTolerance for
// numeric types.
func ToleranceFor[T vdb.Value](tol T) Comparator[T] {
	var cmp any
	switch t := any(tol).(type) {
	case bool:
		return Exact[T]()
	case int8:
		cmp = WithinTolerance(t)
	case int16:
		cmp = WithinTolerance(t)
	case int32:
		cmp = WithinTolerance(t)
	case int64:
		cmp = WithinTolerance(t)
	case uint8:
		cmp = WithinTolerance(t)
	case uint16:
		cmp = WithinTolerance(t)
	case uint32:
		cmp = WithinTolerance(t)
	case uint64:
		cmp = WithinTolerance(t)
	case float32:
		cmp = WithinTolerance(t)
	case float64:
		cmp = WithinTolerance(t)
	}
	return cmp.(Comparator[T])
}
