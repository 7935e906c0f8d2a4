// Package pgm reads and writes projection stacks as P2 text rasters. The
// raster height is width × number-of-projections; per-projection comment
// lines carry the acquisition angle in degrees.
package pgm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cocosip/go-ct-backproject/format"
	"github.com/cocosip/go-ct-backproject/projection"
)

// Codec is the P2 text raster format.
type Codec struct{}

var _ format.ProjectionDecoder = (*Codec)(nil)
var _ format.ProjectionEncoder = (*Codec)(nil)

// New creates the PGM codec.
func New() *Codec { return &Codec{} }

// Name returns the format name.
func (c *Codec) Name() string { return "PGM" }

// Extensions returns the file extensions this format handles.
func (c *Codec) Extensions() []string { return []string{".pgm"} }

// Decode reads a whole projection stack from r.
func (c *Codec) Decode(r io.Reader) ([]*projection.Projection, error) {
	tok := newTokenizer(r)

	magic, err := tok.next()
	if err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if magic != "P2" {
		return nil, fmt.Errorf("%w: magic %q, want P2", projection.ErrMalformed, magic)
	}

	width, err := tok.nextInt("width")
	if err != nil {
		return nil, err
	}
	height, err := tok.nextInt("height")
	if err != nil {
		return nil, err
	}
	maxVal, err := tok.nextInt("maxval")
	if err != nil {
		return nil, err
	}
	if width < 1 || height < width || height%width != 0 {
		return nil, fmt.Errorf("%w: raster %dx%d", projection.ErrMalformed, width, height)
	}
	if maxVal < 1 {
		return nil, fmt.Errorf("%w: maxval %d", projection.ErrMalformed, maxVal)
	}
	nProj := height / width

	samples := make([]float64, width*height)
	for i := range samples {
		v, err := tok.nextInt("sample")
		if err != nil {
			return nil, err
		}
		samples[i] = float64(v)
	}

	if len(tok.angles) != nProj {
		return nil, fmt.Errorf("%w: %d angle comments for %d projections",
			projection.ErrMalformed, len(tok.angles), nProj)
	}

	projs := make([]*projection.Projection, nProj)
	for i := 0; i < nProj; i++ {
		projs[i] = &projection.Projection{
			AngleDeg:    tok.angles[i],
			NSidePixels: width,
			MinVal:      0,
			MaxVal:      float64(maxVal),
			Pixels:      samples[i*width*width : (i+1)*width*width],
		}
	}
	if err := projection.AssignIndices(projs); err != nil {
		return nil, err
	}
	return projs, nil
}

// Encode writes the projection stack to w. Samples are rounded to integers;
// every projection must share the detector side and value range.
func (c *Codec) Encode(w io.Writer, projs []*projection.Projection) error {
	if len(projs) == 0 {
		return fmt.Errorf("%w: empty projection stack", format.ErrUnsupported)
	}
	side := projs[0].NSidePixels
	maxVal := projs[0].MaxVal
	for _, p := range projs {
		if err := p.Validate(); err != nil {
			return err
		}
		if p.NSidePixels != side || p.MaxVal != maxVal || p.MinVal != 0 {
			return fmt.Errorf("%w: PGM stacks need a shared 0-based value range", format.ErrUnsupported)
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P2\n%d %d\n%d\n", side, side*len(projs), int(maxVal))
	for _, p := range projs {
		fmt.Fprintf(bw, "# angle %s\n", strconv.FormatFloat(p.AngleDeg, 'g', -1, 64))
		for row := 0; row < side; row++ {
			for col := 0; col < side; col++ {
				if col > 0 {
					bw.WriteByte(' ')
				}
				fmt.Fprintf(bw, "%d", int(p.Pixels[row*side+col]+0.5))
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// tokenizer yields whitespace-separated tokens, diverting comment lines into
// the angle list.
type tokenizer struct {
	r      *bufio.Reader
	angles []float64
}

func newTokenizer(r io.Reader) *tokenizer {
	return &tokenizer{r: bufio.NewReader(r)}
}

func (t *tokenizer) next() (string, error) {
	var sb strings.Builder
	for {
		b, err := t.r.ReadByte()
		if err != nil {
			if err == io.EOF && sb.Len() > 0 {
				return sb.String(), nil
			}
			if err == io.EOF {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		switch {
		case b == '#':
			if sb.Len() > 0 {
				t.r.UnreadByte()
				return sb.String(), nil
			}
			line, err := t.r.ReadString('\n')
			if err != nil && err != io.EOF {
				return "", err
			}
			t.parseComment(line)
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if sb.Len() > 0 {
				return sb.String(), nil
			}
		default:
			sb.WriteByte(b)
		}
	}
}

func (t *tokenizer) nextInt(what string) (int, error) {
	s, err := t.next()
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", what, err)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", projection.ErrMalformed, what, s)
	}
	return v, nil
}

// parseComment extracts an angle from a comment line. The canonical form is
// "angle <degrees>"; otherwise the first numeric field counts. Comments
// without a number are ignored.
func (t *tokenizer) parseComment(line string) {
	fields := strings.Fields(line)
	for i, f := range fields {
		if f == "angle" && i+1 < len(fields) {
			if v, err := strconv.ParseFloat(fields[i+1], 64); err == nil {
				t.angles = append(t.angles, v)
				return
			}
		}
	}
	for _, f := range fields {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			t.angles = append(t.angles, v)
			return
		}
	}
}

func init() {
	format.RegisterDecoder(New())
}
