// Package recon implements ray-driven cone-beam backprojection: Siddon
// grid traversal and parallel accumulation into a shared voxel grid.
package recon

import "errors"

var (
	// ErrBadConfig indicates geometry constants that violate the data model.
	ErrBadConfig = errors.New("invalid geometry configuration")

	// ErrGeometryMismatch indicates a volume or projection whose dimensions
	// do not match the geometry.
	ErrGeometryMismatch = errors.New("geometry mismatch")
)
