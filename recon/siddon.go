package recon

import "math"

// traverse enumerates, in ascending order, the parametric positions
// α ∈ [0, 1] at which the ray crosses any orthogonal grid plane, clipped to
// the portion of the ray inside the voxel bounding box. The returned slice
// aliases the scratch arena and is valid until the next call. ok is false
// when the ray misses the volume.
func (g *Geometry) traverse(ray Ray, s *scratch) (alphas []float64, ok bool) {
	s.reset()

	var d [3]float64
	for a := 0; a < 3; a++ {
		d[a] = ray.Delta(a)
	}

	// Bounding interval over the non-parallel axes. A ray parallel to an
	// axis whose source coordinate lies outside that axis's slab never
	// enters the volume.
	alphaMin, alphaMax := 0.0, 1.0
	for a := 0; a < 3; a++ {
		if d[a] == 0 {
			if ray.Source[a] <= g.firstPlane[a] || ray.Source[a] >= g.lastPlane[a] {
				return nil, false
			}
			continue
		}
		a0 := (g.firstPlane[a] - ray.Source[a]) / d[a]
		a1 := (g.lastPlane[a] - ray.Source[a]) / d[a]
		if a0 > a1 {
			a0, a1 = a1, a0
		}
		if a0 > alphaMin {
			alphaMin = a0
		}
		if a1 < alphaMax {
			alphaMax = a1
		}
	}
	if alphaMin >= alphaMax {
		return nil, false
	}

	for a := 0; a < 3; a++ {
		if d[a] != 0 {
			g.axisAlphas(a, ray.Source[a], d[a], alphaMin, alphaMax, s)
		}
	}

	return s.mergeAlphas(alphaMin, alphaMax), true
}

// axisAlphas appends the crossings of the planes orthogonal to axis a whose
// α lies in [alphaMin, alphaMax], ascending in α. Only the first crossing is
// computed from the plane position; the rest advance by the constant
// increment voxelSize/d, which is cheaper than repeated division and keeps
// the list monotonic.
func (g *Geometry) axisAlphas(a int, src, d, alphaMin, alphaMax float64, s *scratch) {
	size := g.cfg.VoxelSize[a]

	var iMin, iMax int
	if d >= 0 {
		iMin = g.nPlanes[a] - int(math.Ceil((g.lastPlane[a]-alphaMin*d-src)/size))
		iMax = int(math.Floor((src + alphaMax*d - g.firstPlane[a]) / size))
	} else {
		iMin = g.nPlanes[a] - int(math.Ceil((g.lastPlane[a]-alphaMax*d-src)/size))
		iMax = int(math.Floor((src + alphaMin*d - g.firstPlane[a]) / size))
	}
	if iMin < 0 {
		iMin = 0
	}
	if last := g.nPlanes[a] - 1; iMax > last {
		iMax = last
	}
	if iMin > iMax {
		// Plane-index range is empty; the axis contributes no crossings.
		return
	}

	n := iMax - iMin + 1
	if d > 0 {
		alpha := (g.firstPlane[a] + float64(iMin)*size - src) / d
		step := size / d
		for k := 0; k < n; k++ {
			s.axis[a] = append(s.axis[a], alpha)
			alpha += step
		}
	} else {
		// Descending plane index gives ascending α.
		alpha := (g.firstPlane[a] + float64(iMax)*size - src) / d
		step := -size / d
		for k := 0; k < n; k++ {
			s.axis[a] = append(s.axis[a], alpha)
			alpha += step
		}
	}
}

// mergeAlphas produces the ascending union of the three per-axis lists,
// bracketed by alphaMin and alphaMax. Each per-axis list is already sorted,
// so a three-way merge suffices. Interior duplicates and crossings that fall
// on the endpoints are dropped, keeping the list strictly increasing up to
// the final alphaMax entry.
func (s *scratch) mergeAlphas(alphaMin, alphaMax float64) []float64 {
	out := append(s.merged[:0], alphaMin)
	var pos [3]int
	for {
		best := -1
		bestVal := math.Inf(1)
		for a := 0; a < 3; a++ {
			if pos[a] < len(s.axis[a]) {
				if v := s.axis[a][pos[a]]; best == -1 || v < bestVal {
					best = a
					bestVal = v
				}
			}
		}
		if best == -1 {
			break
		}
		pos[best]++
		if bestVal <= out[len(out)-1] || bestVal >= alphaMax {
			continue
		}
		out = append(out, bestVal)
	}
	out = append(out, alphaMax)
	s.merged = out
	return out
}
