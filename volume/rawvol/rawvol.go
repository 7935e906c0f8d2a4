// Package rawvol dumps volumes as headerless little-endian float64 arrays
// in the fixed layout order; metadata travels on the side channel.
package rawvol

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/cocosip/go-ct-backproject/format"
	"github.com/cocosip/go-ct-backproject/volume"
)

// Encoder writes headerless RAW volumes.
type Encoder struct{}

var _ format.VolumeEncoder = (*Encoder)(nil)

// New creates the RAW encoder.
func New() *Encoder { return &Encoder{} }

// Name returns the format name.
func (e *Encoder) Name() string { return "RAW" }

// Extensions returns the file extensions this format handles.
func (e *Encoder) Extensions() []string { return []string{".raw"} }

// Encode writes the coefficient array to w.
func (e *Encoder) Encode(w io.Writer, v *volume.Volume) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, v.Coefficients); err != nil {
		return err
	}
	return bw.Flush()
}

func init() {
	format.RegisterEncoder(New())
}
