package recon

import "github.com/go-gl/mathgl/mgl64"

// Ray joins the X-ray source and one detector pixel. The parametric form is
// P(α) = Source + α·(Pixel − Source), α ∈ [0, 1].
type Ray struct {
	Source, Pixel mgl64.Vec3
}

// Delta returns the direction component along axis a.
func (r Ray) Delta(a int) float64 {
	return r.Pixel[a] - r.Source[a]
}

// Length returns the Euclidean source-to-pixel distance.
func (r Ray) Length() float64 {
	return r.Pixel.Sub(r.Source).Len()
}

// Ray builds the ray for detector pixel (row, col) of projection i on an
// nSide×nSide detector. Rows run along the detector's z axis, columns along
// its in-plane axis.
func (g *Geometry) Ray(i, row, col, nSide int) Ray {
	sin, cos := g.sinTable[i], g.cosTable[i]
	h := float64(nSide)*g.cfg.PixelSize/2 - g.cfg.PixelSize/2
	u := -h + float64(col)*g.cfg.PixelSize

	return Ray{
		Source: mgl64.Vec3{-sin * g.cfg.DOS, cos * g.cfg.DOS, 0},
		Pixel: mgl64.Vec3{
			g.cfg.DOD*sin + cos*u,
			-g.cfg.DOD*cos + sin*u,
			-h + float64(row)*g.cfg.PixelSize,
		},
	}
}
