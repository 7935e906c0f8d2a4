// Package dicomsrc adapts native DICOM multi-frame pixel data into
// projection stacks. CT acquisitions commonly ship as a DICOM series with
// one frame per source angle; this package bridges such series into the
// reconstruction without re-encoding.
package dicomsrc

import (
	"encoding/binary"
	"fmt"

	types "github.com/cocosip/go-dicom/pkg/imaging/imagetypes"

	"github.com/cocosip/go-ct-backproject/projection"
)

// FromPixelData converts native (non-encapsulated) pixel data into
// projections, pairing frame i with anglesDeg[i]. Frames must be square,
// single-component, 8 or 16 bits allocated, little-endian. The value range
// is [0, 2^BitsStored − 1].
func FromPixelData(pd types.PixelData, anglesDeg []float64) ([]*projection.Projection, error) {
	if pd == nil {
		return nil, fmt.Errorf("%w: pixel data is nil", projection.ErrMalformed)
	}
	if pd.IsEncapsulated() {
		return nil, fmt.Errorf("%w: encapsulated pixel data must be decoded first", projection.ErrMalformed)
	}
	frameInfo := pd.GetFrameInfo()
	if frameInfo == nil {
		return nil, fmt.Errorf("%w: missing frame info", projection.ErrMalformed)
	}
	if int(frameInfo.SamplesPerPixel) != 1 {
		return nil, fmt.Errorf("%w: %d samples per pixel, want grayscale",
			projection.ErrMalformed, frameInfo.SamplesPerPixel)
	}
	side := int(frameInfo.Width)
	if side < 1 || int(frameInfo.Height) != side {
		return nil, fmt.Errorf("%w: %dx%d frames, want square",
			projection.ErrMalformed, frameInfo.Width, frameInfo.Height)
	}
	bitsAllocated := int(frameInfo.BitsAllocated)
	if bitsAllocated != 8 && bitsAllocated != 16 {
		return nil, fmt.Errorf("%w: %d bits allocated", projection.ErrMalformed, bitsAllocated)
	}
	bitsStored := int(frameInfo.BitsStored)
	if bitsStored < 1 || bitsStored > bitsAllocated {
		return nil, fmt.Errorf("%w: BitsStored=%d BitsAllocated=%d",
			projection.ErrMalformed, bitsStored, bitsAllocated)
	}
	if pd.FrameCount() != len(anglesDeg) {
		return nil, fmt.Errorf("%w: %d frames for %d angles",
			projection.ErrMalformed, pd.FrameCount(), len(anglesDeg))
	}

	maxVal := float64(uint32(1)<<uint(bitsStored) - 1)
	bytesPerSample := bitsAllocated / 8

	projs := make([]*projection.Projection, len(anglesDeg))
	for i, angle := range anglesDeg {
		frame, err := pd.GetFrame(i)
		if err != nil {
			return nil, fmt.Errorf("failed to get frame %d: %w", i, err)
		}
		if len(frame) != side*side*bytesPerSample {
			return nil, fmt.Errorf("%w: frame %d has %d bytes, want %d",
				projection.ErrMalformed, i, len(frame), side*side*bytesPerSample)
		}

		samples := make([]float64, side*side)
		if bytesPerSample == 1 {
			for j, b := range frame {
				samples[j] = float64(b)
			}
		} else {
			for j := range samples {
				samples[j] = float64(binary.LittleEndian.Uint16(frame[2*j:]))
			}
		}

		projs[i] = &projection.Projection{
			AngleDeg:    angle,
			NSidePixels: side,
			MinVal:      0,
			MaxVal:      maxVal,
			Pixels:      samples,
		}
	}
	if err := projection.AssignIndices(projs); err != nil {
		return nil, err
	}
	return projs, nil
}
