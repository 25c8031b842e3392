/*
	Package vdb provides types, constants, and functions that have no other dependencies
	within densevdb and can be used by all its packages.  This includes integer voxel
	coordinates, inclusive bounding boxes, the single domain error, logging, and
	command string handling.
*/
package vdb
