package projection

import (
	"errors"
	"io"
	"testing"
)

func validProjection() *Projection {
	return &Projection{
		AngleDeg:    45,
		NSidePixels: 2,
		MinVal:      0,
		MaxVal:      255,
		Pixels:      []float64{1, 2, 3, 4},
	}
}

func TestProjectionValidate(t *testing.T) {
	if err := validProjection().Validate(); err != nil {
		t.Fatalf("valid projection rejected: %v", err)
	}

	testCases := []struct {
		name   string
		mutate func(*Projection)
	}{
		{"angle below range", func(p *Projection) { p.AngleDeg = -361 }},
		{"angle above range", func(p *Projection) { p.AngleDeg = 400 }},
		{"zero detector", func(p *Projection) { p.NSidePixels = 0 }},
		{"degenerate range", func(p *Projection) { p.MaxVal = p.MinVal }},
		{"inverted range", func(p *Projection) { p.MinVal, p.MaxVal = 255, 0 }},
		{"pixel count mismatch", func(p *Projection) { p.Pixels = p.Pixels[:3] }},
	}
	for _, tc := range testCases {
		p := validProjection()
		tc.mutate(p)
		if err := p.Validate(); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: got %v, want ErrMalformed", tc.name, err)
		}
	}
}

func TestIndexForAngle(t *testing.T) {
	testCases := []struct {
		angle  float64
		nTheta int
		want   int
	}{
		{-180, 36, 0},
		{-170, 36, 1},
		{0, 36, 18},
		{170, 36, 35},
		{-175, 36, 0},
		{175, 36, 35},
		{0, 1, 0},
		{360, 36, 18},  // wraps to 0 degrees
		{-360, 36, 18}, // wraps to 0 degrees
	}
	for _, tc := range testCases {
		got, err := IndexForAngle(tc.angle, tc.nTheta)
		if err != nil {
			t.Fatalf("IndexForAngle(%g, %d) failed: %v", tc.angle, tc.nTheta, err)
		}
		if got != tc.want {
			t.Errorf("IndexForAngle(%g, %d) = %d, want %d", tc.angle, tc.nTheta, got, tc.want)
		}
	}

	if _, err := IndexForAngle(361, 36); !errors.Is(err, ErrMalformed) {
		t.Errorf("angle 361 accepted: %v", err)
	}
	if _, err := IndexForAngle(0, 0); !errors.Is(err, ErrMalformed) {
		t.Errorf("nTheta 0 accepted: %v", err)
	}
}

// A sweep sampling the circle at 360/nTheta spacing maps bijectively onto
// [0, nTheta).
func TestAssignIndicesBijective(t *testing.T) {
	const nTheta = 36
	projs := make([]*Projection, nTheta)
	for i := range projs {
		p := validProjection()
		p.AngleDeg = -175 + float64(i)*10
		projs[i] = p
	}
	if err := AssignIndices(projs); err != nil {
		t.Fatalf("AssignIndices failed: %v", err)
	}
	for i, p := range projs {
		if p.Index != i {
			t.Errorf("projection %d assigned index %d", i, p.Index)
		}
	}
}

// A closed sweep carries the same physical angle at −180 and +180; the wrap
// is a collision.
func TestAssignIndicesCollision(t *testing.T) {
	a, b := validProjection(), validProjection()
	a.AngleDeg, b.AngleDeg = -180, 180
	err := AssignIndices([]*Projection{a, b})
	if !errors.Is(err, ErrAngleCollision) {
		t.Fatalf("got %v, want ErrAngleCollision", err)
	}
}

func TestSliceSource(t *testing.T) {
	projs := []*Projection{validProjection(), validProjection()}
	src := NewSliceSource(projs)

	for i := range projs {
		p, err := src.Next()
		if err != nil {
			t.Fatalf("Next %d failed: %v", i, err)
		}
		if p != projs[i] {
			t.Fatalf("Next %d returned wrong projection", i)
		}
	}
	if _, err := src.Next(); err != io.EOF {
		t.Fatalf("got %v after last projection, want io.EOF", err)
	}
}
