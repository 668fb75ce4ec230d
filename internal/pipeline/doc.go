// Package pipeline runs a complete packaging build: the object package, the
// asset pack and the final distributable archive of the output root.
//
// Steps run strictly in sequence and the first error aborts the run. The
// workspace is guarded by an advisory file lock for the lifetime of Run so
// concurrent processes cannot interleave builds in the same directory.
package pipeline
