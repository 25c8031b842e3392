/*
Densevdb copies voxel data between dense buffers and sparse volumes.

A dense buffer holds one value for every voxel of an inclusive bounding box in a flat
array whose layout is fixed when the buffer is made.  A sparse volume stores only its
active voxels and answers every other coordinate with a background value.  The two
conversions are:

	Materialize   sparse -> dense   every voxel of the buffer's box gets the sparse value
	Sparsify      dense -> sparse   voxels differing from the sparse value by more than a
	                                tolerance become active; nothing else is touched

Both run serially or split into leaf-aligned slabs on a bounded pool of goroutines,
with identical results either way.

Packages

	vdb       coordinates, bounding boxes, grid interfaces, logging and command parsing
	dense     dense buffers, memory layouts, raw file I/O and checksums
	sparse    reference sparse grids: a leaf/internal/root tree and a map-backed grid
	convert   tolerance comparators and the conversion engine

Commands

In the following documentation, the type of brackets designate
<required parameter> and [optional parameter].

	densevdb about
	densevdb sphere <file> radius=<float> voxel=<float> width=<float> [center=x,y,z] [bbox=...]
	densevdb sparsify <file> bbox=<minx,miny,minz,maxx,maxy,maxz> [tol=<float>] [bg=<float>]
	densevdb verify [radius=<float>] [voxel=<float>] [width=<float>] [tol=<float>]

Settings can be read from a TOML file given with -config:

	[engine]
	numWorkers = 8
	maxPartitions = 32
	serial = false

	[logging]
	logfile = "/var/log/densevdb.log"
	max_log_size = 500 # MB
	max_log_age = 30   # days

	[output]
	codec = "zstd"  # none, zstd or snappy
*/
package densevdb
