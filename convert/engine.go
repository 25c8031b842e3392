package convert

import (
	"golang.org/x/sync/errgroup"

	"github.com/janelia-flyem/densevdb/dense"
	"github.com/janelia-flyem/densevdb/vdb"
)

// LeafDim is the partition alignment along the slab axis.  It matches the leaf
// size of sparse.Tree so concurrent partitions touch distinct leaves.
const LeafDim = 8

// Engine runs conversions with a fixed Config.  It is safe for concurrent use.
type Engine struct {
	config Config
}

// NewEngine returns an engine for the given configuration.  Unset fields take
// their default values.
func NewEngine(config Config) *Engine {
	return &Engine{config: config.normalized()}
}

var defaultEngine = NewEngine(DefaultConfig())

// DefaultEngine returns the engine used by the package-level conversion functions.
func DefaultEngine() *Engine {
	return defaultEngine
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Partitions splits bbox into slabs along the outer axis of the layout.  Interior
// slab boundaries fall on multiples of LeafDim, and there are never more slabs
// than MaxPartitions or leaf rows along the axis.
func (e *Engine) Partitions(bbox vdb.CoordBBox, layout dense.Layout) []vdb.CoordBBox {
	if bbox.Empty() {
		return nil
	}
	axis, _, _ := layout.Axes()
	lo, hi := int64(bbox.Min[axis]), int64(bbox.Max[axis])
	firstLeaf, lastLeaf := lo>>3, hi>>3
	numLeaves := lastLeaf - firstLeaf + 1

	numParts := int64(e.config.MaxPartitions)
	if numParts > numLeaves {
		numParts = numLeaves
	}
	parts := make([]vdb.CoordBBox, 0, numParts)
	for p := int64(0); p < numParts; p++ {
		startLeaf := firstLeaf + p*numLeaves/numParts
		endLeaf := firstLeaf + (p+1)*numLeaves/numParts - 1
		part := bbox
		if start := startLeaf * LeafDim; start > lo {
			part.Min[axis] = int32(start)
		}
		if end := endLeaf*LeafDim + LeafDim - 1; end < hi {
			part.Max[axis] = int32(end)
		}
		parts = append(parts, part)
	}
	return parts
}

// run calls fn for each partition.  Unless serial, partitions run on a pool of
// at most NumWorkers goroutines and run returns after all have finished.
func (e *Engine) run(parts []vdb.CoordBBox, serial bool, fn func(part vdb.CoordBBox)) {
	if e.runsSerially(parts, serial) {
		for _, part := range parts {
			fn(part)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(e.config.NumWorkers)
	for _, part := range parts {
		part := part
		g.Go(func() error {
			fn(part)
			return nil
		})
	}
	g.Wait()
}

// runsSerially reports whether a conversion with the given flag and partitions
// executes on the calling goroutine.
func (e *Engine) runsSerially(parts []vdb.CoordBBox, serial bool) bool {
	return serial || e.config.Serial || len(parts) < 2
}
