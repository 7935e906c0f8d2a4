package recon

import (
	"fmt"
	"math"

	"github.com/cocosip/go-ct-backproject/volume"
)

// Geometry holds the immutable precomputed tables for one reconstruction:
// sine/cosine of every projection angle and the first/last grid-plane
// coordinate along each axis. Safe for concurrent read once built.
type Geometry struct {
	cfg    Config
	nTheta int

	sinTable, cosTable []float64

	firstPlane, lastPlane [3]float64
	nPlanes               [3]int
}

// NewGeometry validates cfg, applies the work-unit distance scaling and
// builds the angle and plane tables.
func NewGeometry(cfg Config) (*Geometry, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if vms := cfg.VoxelMatrixSize(); vms > 0 {
		cfg.DOD = 1.5 * vms
		cfg.DOS = 6 * vms
	}
	if cfg.DOS <= 0 || cfg.DOD <= 0 {
		return nil, fmt.Errorf("%w: dos = %g, dod = %g", ErrBadConfig, cfg.DOS, cfg.DOD)
	}

	nTheta := 1
	if cfg.ApertureDeg > 0 {
		nTheta = int(cfg.ApertureDeg/cfg.StepDeg+0.5) + 1
	}

	g := &Geometry{
		cfg:      cfg,
		nTheta:   nTheta,
		sinTable: make([]float64, nTheta),
		cosTable: make([]float64, nTheta),
	}
	for i := 0; i < nTheta; i++ {
		theta := g.AngleDeg(i) * math.Pi / 180
		g.sinTable[i] = math.Sin(theta)
		g.cosTable[i] = math.Cos(theta)
	}
	for a := 0; a < 3; a++ {
		g.firstPlane[a] = -cfg.VoxelSize[a] * float64(cfg.NVoxels[a]) / 2
		g.lastPlane[a] = -g.firstPlane[a]
		g.nPlanes[a] = cfg.NVoxels[a] + 1
	}
	return g, nil
}

// NTheta returns the number of projections in the sweep.
func (g *Geometry) NTheta() int { return g.nTheta }

// Config returns the (scaled) geometry constants.
func (g *Geometry) Config() Config { return g.cfg }

// AngleDeg returns the sweep angle of projection i in degrees. The sweep is
// symmetric about zero: θᵢ = −aperture/2 + i·step.
func (g *Geometry) AngleDeg(i int) float64 {
	return -g.cfg.ApertureDeg/2 + float64(i)*g.cfg.StepDeg
}

// FirstPlane returns the coordinate of the first grid plane along axis a.
func (g *Geometry) FirstPlane(a int) float64 { return g.firstPlane[a] }

// LastPlane returns the coordinate of the last grid plane along axis a.
func (g *Geometry) LastPlane(a int) float64 { return g.lastPlane[a] }

// NewVolume allocates a zero-initialised volume matching the geometry.
func (g *Geometry) NewVolume() (*volume.Volume, error) {
	return volume.New(g.cfg.NVoxels, g.cfg.VoxelSize)
}

