/*
	Package convert copies voxel values between dense buffers and sparse grids.

	Materialize fills every voxel of a dense buffer from a sparse grid.  Sparsify writes
	the voxels of a dense buffer into a sparse grid as active voxels wherever they differ
	from the grid's current value by more than a tolerance, leaving every other voxel of
	the grid untouched.

	Both operations split the buffer region into slabs along the outermost axis of the
	buffer's layout, with interior boundaries on the 8-voxel leaf grid, and process the
	slabs on a bounded pool of goroutines unless asked to run serially.  Serial and
	concurrent runs produce identical results.
*/
package convert
