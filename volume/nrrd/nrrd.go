// Package nrrd serialises volumes as NRRD0005, raw or ascii encoded. Axes
// are declared fastest-to-slowest (X, Z, Y), matching the fixed coefficient
// layout.
package nrrd

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"github.com/cocosip/go-ct-backproject/format"
	"github.com/cocosip/go-ct-backproject/volume"
)

// Encoding selects the NRRD payload encoding.
type Encoding string

const (
	EncodingRaw   Encoding = "raw"
	EncodingASCII Encoding = "ascii"
)

// Encoder writes NRRD0005 volumes.
type Encoder struct {
	// Encoding is the payload encoding; empty means raw.
	Encoding Encoding
}

var _ format.VolumeEncoder = (*Encoder)(nil)

// New creates an NRRD encoder with the given payload encoding.
func New(enc Encoding) *Encoder { return &Encoder{Encoding: enc} }

// Name returns the format name.
func (e *Encoder) Name() string { return "NRRD" }

// Extensions returns the file extensions this format handles.
func (e *Encoder) Extensions() []string { return []string{".nrrd"} }

// Encode writes the header and the coefficient array in the fixed layout
// order (X fastest, then Z, then Y).
func (e *Encoder) Encode(w io.Writer, v *volume.Volume) error {
	enc := e.Encoding
	if enc == "" {
		enc = EncodingRaw
	}
	if enc != EncodingRaw && enc != EncodingASCII {
		return fmt.Errorf("%w: nrrd encoding %q", format.ErrUnsupported, enc)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "NRRD0005")
	fmt.Fprintln(bw, "type: double")
	fmt.Fprintln(bw, "dimension: 3")
	fmt.Fprintf(bw, "sizes: %d %d %d\n",
		v.NVoxels[volume.X], v.NVoxels[volume.Z], v.NVoxels[volume.Y])
	fmt.Fprintf(bw, "spacings: %s %s %s\n",
		ftoa(v.VoxelSize[volume.X]), ftoa(v.VoxelSize[volume.Z]), ftoa(v.VoxelSize[volume.Y]))
	fmt.Fprintf(bw, "axis mins: %s %s %s\n",
		ftoa(axisMin(v, volume.X)), ftoa(axisMin(v, volume.Z)), ftoa(axisMin(v, volume.Y)))
	fmt.Fprintln(bw, "endian: little")
	fmt.Fprintf(bw, "encoding: %s\n", enc)
	fmt.Fprintln(bw)

	if enc == EncodingRaw {
		if err := binary.Write(bw, binary.LittleEndian, v.Coefficients); err != nil {
			return err
		}
	} else {
		for _, c := range v.Coefficients {
			bw.WriteString(ftoa(c))
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// axisMin returns the coordinate of the first grid plane along axis a; the
// origin is the volumetric centre.
func axisMin(v *volume.Volume, a int) float64 {
	return -v.VoxelSize[a] * float64(v.NVoxels[a]) / 2
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func init() {
	format.RegisterEncoder(New(EncodingRaw))
}
