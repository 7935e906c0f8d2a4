// Package format provides common errors and registries for projection and
// volume container formats.
package format

import "errors"

var (
	// ErrFormatNotFound is returned when no format is registered for a name
	// or file extension.
	ErrFormatNotFound = errors.New("format not found")

	// ErrUnsupported indicates the container cannot represent the data.
	ErrUnsupported = errors.New("unsupported format")
)
