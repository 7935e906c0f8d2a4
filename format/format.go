package format

import (
	"io"

	"github.com/cocosip/go-ct-backproject/projection"
	"github.com/cocosip/go-ct-backproject/volume"
)

// ProjectionDecoder is the universal interface for projection container formats
type ProjectionDecoder interface {
	// Decode reads every projection in the stream
	Decode(r io.Reader) ([]*projection.Projection, error)

	// Name returns a human-readable format name
	Name() string

	// Extensions returns the file extensions this format handles (with dot)
	Extensions() []string
}

// VolumeEncoder is the universal interface for volume container formats
type VolumeEncoder interface {
	// Encode serialises the volume to w
	Encode(w io.Writer, v *volume.Volume) error

	// Name returns a human-readable format name
	Name() string

	// Extensions returns the file extensions this format handles (with dot)
	Extensions() []string
}

// ProjectionEncoder is implemented by formats that can also write projection
// streams. Used by tooling and round-trip tests; the reconstruction pipeline
// itself only decodes.
type ProjectionEncoder interface {
	Encode(w io.Writer, projs []*projection.Projection) error
}
