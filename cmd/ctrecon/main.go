// Command ctrecon reconstructs a 3D absorption-coefficient volume from a
// cone-beam projection stack.
//
// Usage:
//
//	ctrecon [flags] input.{pgm,dat} output.{nrrd,raw}
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cocosip/go-ct-backproject/format"
	"github.com/cocosip/go-ct-backproject/projection"
	_ "github.com/cocosip/go-ct-backproject/projection/dat"
	_ "github.com/cocosip/go-ct-backproject/projection/pgm"
	"github.com/cocosip/go-ct-backproject/recon"
	"github.com/cocosip/go-ct-backproject/volume"
	"github.com/cocosip/go-ct-backproject/volume/nrrd"
	_ "github.com/cocosip/go-ct-backproject/volume/rawvol"
)

var (
	nVoxels    = flag.Int("voxels", 100, "voxel count along each axis")
	voxelSize  = flag.Float64("voxel-size", 100, "voxel edge length in micrometres")
	pixelSize  = flag.Float64("pixel-size", 85, "detector pixel edge length in micrometres")
	aperture   = flag.Float64("aperture", 360, "total angular sweep in degrees")
	workUnits  = flag.Int("work-units", 4, "work units scaling the source/detector distances")
	dos        = flag.Float64("dos", 0, "source-to-centre distance (ignored when work-units > 0)")
	dod        = flag.Float64("dod", 0, "detector-to-centre distance (ignored when work-units > 0)")
	workers    = flag.Int("workers", 0, "parallel workers (0 = all CPUs)")
	accumulate = flag.String("accumulate", "atomic", "accumulation strategy: atomic or shadow")
	encoding   = flag.String("encoding", "binary", "NRRD payload encoding: ascii or binary")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] input.{pgm,dat} output.{nrrd,raw}\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintf(os.Stderr, "ctrecon: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string) error {
	projs, err := readProjections(inPath)
	if err != nil {
		return err
	}

	cfg := recon.Config{
		VoxelSize: [3]float64{*voxelSize, *voxelSize, *voxelSize},
		NVoxels:   [3]int{*nVoxels, *nVoxels, *nVoxels},
		PixelSize: *pixelSize,
		WorkUnits: *workUnits,
		DOS:       *dos,
		DOD:       *dod,
	}
	if len(projs) > 1 {
		cfg.ApertureDeg = *aperture
		cfg.StepDeg = *aperture / float64(len(projs)-1)
	}
	geo, err := recon.NewGeometry(cfg)
	if err != nil {
		return err
	}
	if geo.NTheta() != len(projs) {
		return fmt.Errorf("%w: %d projections for a sweep of %d",
			projection.ErrMalformed, len(projs), geo.NTheta())
	}

	vol, err := geo.NewVolume()
	if err != nil {
		return err
	}

	var mode recon.AccumulateMode
	switch *accumulate {
	case "atomic":
		mode = recon.AccumulateAtomic
	case "shadow":
		mode = recon.AccumulateShadow
	default:
		return fmt.Errorf("unknown accumulation strategy %q", *accumulate)
	}
	rec := recon.New(geo, recon.Options{Workers: *workers, Mode: mode})
	if err := rec.Run(projection.NewSliceSource(projs), vol); err != nil {
		return err
	}

	return writeVolume(outPath, vol)
}

func readProjections(path string) ([]*projection.Projection, error) {
	dec, err := format.GetDecoder(filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%w: no reader for %q", err, filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	projs, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return projs, nil
}

func writeVolume(path string, vol *volume.Volume) error {
	enc, err := volumeEncoder(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := enc.Encode(f, vol); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

func volumeEncoder(path string) (format.VolumeEncoder, error) {
	ext := filepath.Ext(path)
	if ext == ".nrrd" && *encoding == "ascii" {
		return nrrd.New(nrrd.EncodingASCII), nil
	}
	enc, err := format.GetEncoder(ext)
	if err != nil {
		return nil, fmt.Errorf("%w: no writer for %q", err, ext)
	}
	return enc, nil
}
