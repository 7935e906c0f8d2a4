package volume

import (
	"errors"
	"testing"
)

func TestNewValidation(t *testing.T) {
	testCases := []struct {
		name      string
		nVoxels   [3]int
		voxelSize [3]float64
	}{
		{"zero count", [3]int{0, 4, 4}, [3]float64{1, 1, 1}},
		{"negative count", [3]int{4, -1, 4}, [3]float64{1, 1, 1}},
		{"zero size", [3]int{4, 4, 4}, [3]float64{1, 0, 1}},
		{"overflow", [3]int{1 << 21, 1 << 21, 1 << 21}, [3]float64{1, 1, 1}},
	}
	for _, tc := range testCases {
		if _, err := New(tc.nVoxels, tc.voxelSize); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("%s: got %v, want ErrInvalidDimensions", tc.name, err)
		}
	}
}

func TestNewZeroInitialised(t *testing.T) {
	v, err := New([3]int{3, 4, 5}, [3]float64{1, 1, 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if len(v.Coefficients) != 60 {
		t.Fatalf("allocated %d voxels, want 60", len(v.Coefficients))
	}
	for i, c := range v.Coefficients {
		if c != 0 {
			t.Fatalf("voxel %d = %g, want 0", i, c)
		}
	}
}

// The fixed layout has X fastest, then Z, then Y: idx = y·Nx·Nz + z·Nx + x.
func TestIndexLayout(t *testing.T) {
	v, err := New([3]int{4, 3, 4}, [3]float64{1, 1, 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if v.Index(1, 0, 0) != 1 {
		t.Errorf("X stride = %d, want 1", v.Index(1, 0, 0))
	}
	if v.Index(0, 0, 1) != 4 {
		t.Errorf("Z stride = %d, want 4", v.Index(0, 0, 1))
	}
	if v.Index(0, 1, 0) != 16 {
		t.Errorf("Y stride = %d, want 16", v.Index(0, 1, 0))
	}
}

// Decoding idx = y·Nx·Nz + z·Nx + x yields the original triple for every
// voxel.
func TestIndexRoundTrip(t *testing.T) {
	v, err := New([3]int{4, 3, 4}, [3]float64{1, 1, 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	seen := make(map[int]bool)
	for y := 0; y < v.NVoxels[Y]; y++ {
		for z := 0; z < v.NVoxels[Z]; z++ {
			for x := 0; x < v.NVoxels[X]; x++ {
				idx := v.Index(x, y, z)
				if idx < 0 || idx >= len(v.Coefficients) {
					t.Fatalf("index %d out of range", idx)
				}
				if seen[idx] {
					t.Fatalf("index %d assigned twice", idx)
				}
				seen[idx] = true

				gx, gy, gz := v.Coords(idx)
				if gx != x || gy != y || gz != z {
					t.Fatalf("Coords(%d) = (%d,%d,%d), want (%d,%d,%d)",
						idx, gx, gy, gz, x, y, z)
				}
			}
		}
	}
}

func TestTotal(t *testing.T) {
	v, err := New([3]int{2, 2, 2}, [3]float64{1, 1, 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i := range v.Coefficients {
		v.Coefficients[i] = float64(i)
	}
	if got := v.Total(); got != 28 {
		t.Errorf("Total = %g, want 28", got)
	}
}
