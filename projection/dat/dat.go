// Package dat reads and writes projection stacks in the little-endian
// binary container: int32 projection count, int32 width, float64 maxVal,
// float64 minVal, then per projection a float64 angle in degrees followed by
// width² float64 samples.
package dat

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cocosip/go-ct-backproject/format"
	"github.com/cocosip/go-ct-backproject/projection"
)

// Codec is the binary projection container.
type Codec struct{}

var _ format.ProjectionDecoder = (*Codec)(nil)
var _ format.ProjectionEncoder = (*Codec)(nil)

// New creates the DAT codec.
func New() *Codec { return &Codec{} }

// Name returns the format name.
func (c *Codec) Name() string { return "DAT" }

// Extensions returns the file extensions this format handles.
func (c *Codec) Extensions() []string { return []string{".dat"} }

// Decode reads a whole projection stack from r.
func (c *Codec) Decode(r io.Reader) ([]*projection.Projection, error) {
	br := bufio.NewReader(r)

	var header struct {
		NProjections int32
		Width        int32
		MaxVal       float64
		MinVal       float64
	}
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading header: %w", eofToUnexpected(err))
	}
	if header.NProjections < 1 || header.Width < 1 {
		return nil, fmt.Errorf("%w: %d projections of width %d",
			projection.ErrMalformed, header.NProjections, header.Width)
	}
	if !(header.MaxVal > header.MinVal) {
		return nil, fmt.Errorf("%w: value range [%g, %g]",
			projection.ErrMalformed, header.MinVal, header.MaxVal)
	}

	width := int(header.Width)
	projs := make([]*projection.Projection, header.NProjections)
	for i := range projs {
		var angle float64
		if err := binary.Read(br, binary.LittleEndian, &angle); err != nil {
			return nil, fmt.Errorf("reading angle of projection %d: %w", i, eofToUnexpected(err))
		}
		samples := make([]float64, width*width)
		if err := binary.Read(br, binary.LittleEndian, samples); err != nil {
			return nil, fmt.Errorf("reading projection %d: %w", i, eofToUnexpected(err))
		}
		projs[i] = &projection.Projection{
			AngleDeg:    angle,
			NSidePixels: width,
			MinVal:      header.MinVal,
			MaxVal:      header.MaxVal,
			Pixels:      samples,
		}
	}
	if err := projection.AssignIndices(projs); err != nil {
		return nil, err
	}
	return projs, nil
}

// Encode writes the projection stack to w. Every projection must share the
// detector side and value range.
func (c *Codec) Encode(w io.Writer, projs []*projection.Projection) error {
	if len(projs) == 0 {
		return fmt.Errorf("%w: empty projection stack", format.ErrUnsupported)
	}
	side := projs[0].NSidePixels
	minVal, maxVal := projs[0].MinVal, projs[0].MaxVal
	for _, p := range projs {
		if err := p.Validate(); err != nil {
			return err
		}
		if p.NSidePixels != side || p.MinVal != minVal || p.MaxVal != maxVal {
			return fmt.Errorf("%w: DAT stacks need a shared detector and value range", format.ErrUnsupported)
		}
	}

	bw := bufio.NewWriter(w)
	header := struct {
		NProjections int32
		Width        int32
		MaxVal       float64
		MinVal       float64
	}{int32(len(projs)), int32(side), maxVal, minVal}
	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return err
	}
	for _, p := range projs {
		if err := binary.Write(bw, binary.LittleEndian, p.AngleDeg); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, p.Pixels); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func eofToUnexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func init() {
	format.RegisterDecoder(New())
}
