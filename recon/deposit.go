package recon

import "math"

// accumulator receives additive voxel contributions. Implementations decide
// whether additions are atomic or worker-private.
type accumulator interface {
	add(idx int, delta float64)
}

// deposit walks consecutive pairs of the merged α list, locates the voxel
// containing each segment by its midpoint and accumulates Δ = p̂·ℓ̂, where p̂
// is the normalised pixel value and ℓ̂ the segment length normalised by
// dos+dod. Zero-length segments (α ties) deposit nothing. Midpoints that
// round onto a bounding plane are clamped back into the grid.
func (g *Geometry) deposit(ray Ray, alphas []float64, pixelNorm float64, acc accumulator) {
	length := ray.Length()
	invDist := 1 / (g.cfg.DOS + g.cfg.DOD)

	var d [3]float64
	for a := 0; a < 3; a++ {
		d[a] = ray.Delta(a)
	}

	nx, nz := g.cfg.NVoxels[0], g.cfg.NVoxels[2]
	for m := 1; m < len(alphas); m++ {
		da := alphas[m] - alphas[m-1]
		if da <= 0 {
			continue
		}
		mid := (alphas[m] + alphas[m-1]) / 2

		var v [3]int
		for a := 0; a < 3; a++ {
			i := int(math.Floor((ray.Source[a] + mid*d[a] - g.firstPlane[a]) / g.cfg.VoxelSize[a]))
			if i < 0 {
				i = 0
			}
			if i >= g.cfg.NVoxels[a] {
				i = g.cfg.NVoxels[a] - 1
			}
			v[a] = i
		}

		acc.add(v[1]*(nx*nz)+v[2]*nx+v[0], pixelNorm*length*da*invDist)
	}
}
