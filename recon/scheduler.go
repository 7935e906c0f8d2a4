package recon

import (
	"fmt"
	"io"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cocosip/go-ct-backproject/projection"
	"github.com/cocosip/go-ct-backproject/volume"
)

// AccumulateMode selects how concurrent workers combine contributions.
type AccumulateMode int

const (
	// AccumulateAtomic shares one dense grid; every addition is a lock-free
	// compare-and-swap on the voxel's bit pattern.
	AccumulateAtomic AccumulateMode = iota

	// AccumulateShadow gives each worker a private grid, reduced in worker
	// order after the last projection. More memory, no atomic costs.
	AccumulateShadow
)

// Options configure the scheduler.
type Options struct {
	// Workers is the number of parallel workers; 0 means GOMAXPROCS.
	Workers int

	// Mode selects the accumulation strategy.
	Mode AccumulateMode
}

// Reconstructor drives the Siddon traversal over every (projection, row,
// column) triple and accumulates contributions into a shared volume.
type Reconstructor struct {
	geo  *Geometry
	opts Options
}

// New creates a reconstructor for the given geometry.
func New(geo *Geometry, opts Options) *Reconstructor {
	return &Reconstructor{geo: geo, opts: opts}
}

// Run consumes every projection from src and backprojects it into vol.
// Workers pull projections from src under a mutex and compute in parallel;
// every Δ is added to the volume exactly once. Sums are deterministic up to
// floating-point associativity, and bit-identical across runs with a single
// worker. On a source error the first error is returned; in-flight
// projections finish but the volume contents are unspecified.
func (r *Reconstructor) Run(src projection.Source, vol *volume.Volume) error {
	if vol.NVoxels != r.geo.cfg.NVoxels {
		return fmt.Errorf("%w: volume %v vs geometry %v", ErrGeometryMismatch, vol.NVoxels, r.geo.cfg.NVoxels)
	}
	if r.opts.Mode != AccumulateAtomic && r.opts.Mode != AccumulateShadow {
		return fmt.Errorf("%w: accumulate mode %d", ErrBadConfig, r.opts.Mode)
	}

	workers := r.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	accs := make([]accumulator, workers)
	var bits atomicGrid
	var shadows []shadowGrid
	if r.opts.Mode == AccumulateAtomic {
		bits = make(atomicGrid, len(vol.Coefficients))
		for i, c := range vol.Coefficients {
			bits[i] = math.Float64bits(c)
		}
		for w := range accs {
			accs[w] = bits
		}
	} else {
		shadows = make([]shadowGrid, workers)
		for w := range shadows {
			shadows[w] = make(shadowGrid, len(vol.Coefficients))
			accs[w] = shadows[w]
		}
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		stop     uint32
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			atomic.StoreUint32(&stop, 1)
		})
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(acc accumulator) {
			defer wg.Done()
			sc := newScratch(r.geo)
			for {
				if atomic.LoadUint32(&stop) != 0 {
					return
				}
				mu.Lock()
				p, err := src.Next()
				mu.Unlock()
				if err == io.EOF {
					return
				}
				if err != nil {
					fail(err)
					return
				}
				if err := r.backproject(p, acc, sc); err != nil {
					fail(err)
					return
				}
			}
		}(accs[w])
	}
	wg.Wait()
	if firstErr != nil {
		return firstErr
	}

	if r.opts.Mode == AccumulateAtomic {
		for i := range vol.Coefficients {
			vol.Coefficients[i] = math.Float64frombits(bits[i])
		}
	} else {
		for _, g := range shadows {
			for i, c := range g {
				if c != 0 {
					vol.Coefficients[i] += c
				}
			}
		}
	}
	return nil
}

// backproject distributes one projection's pixel values back along their
// rays into acc.
func (r *Reconstructor) backproject(p *projection.Projection, acc accumulator, sc *scratch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Index < 0 || p.Index >= r.geo.nTheta {
		return fmt.Errorf("%w: projection index %d, sweep has %d", ErrGeometryMismatch, p.Index, r.geo.nTheta)
	}

	scale := 1 / (p.MaxVal - p.MinVal)
	n := p.NSidePixels
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			pixelNorm := (p.Pixels[row*n+col] - p.MinVal) * scale
			if pixelNorm == 0 {
				continue
			}
			ray := r.geo.Ray(p.Index, row, col, n)
			alphas, ok := r.geo.traverse(ray, sc)
			if !ok {
				continue
			}
			r.geo.deposit(ray, alphas, pixelNorm, acc)
		}
	}
	return nil
}

// atomicGrid is a shared dense grid of float64 bit patterns. add is a
// lock-free CAS loop so many rays may update one voxel concurrently.
type atomicGrid []uint64

func (g atomicGrid) add(idx int, delta float64) {
	addr := &g[idx]
	for {
		old := atomic.LoadUint64(addr)
		upd := math.Float64bits(math.Float64frombits(old) + delta)
		if atomic.CompareAndSwapUint64(addr, old, upd) {
			return
		}
	}
}

// shadowGrid is a worker-private grid; additions need no synchronisation.
type shadowGrid []float64

func (g shadowGrid) add(idx int, delta float64) {
	g[idx] += delta
}
