// Command genmock writes a synthetic moored ADCP NetCDF file with the same
// variable layout as the mooring 1840 record: u, v and percent good stored as
// (time, depth, lat, lon), fill values above the surface and scattered
// sentinel ensembles. Use it for demos and test fixtures.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/mooring1840.nc -times 1440
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/moored-adcp-plots/internal/adapter/nativecdf"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	def := nativecdf.DefaultSyntheticMooring()

	out := flag.String("out", "", "output path for the NetCDF file")
	times := flag.Int("times", def.Times, "number of ensembles")
	depths := flag.Int("depths", def.Depths, "number of depth bins")
	start := flag.String("start", def.Start.Format(time.RFC3339), "time of the first ensemble (RFC3339)")
	step := flag.Duration("step", def.Step, "time between ensembles")
	firstDepth := flag.Float64("first-depth", def.FirstDepth, "depth of bin 0 in metres")
	binSize := flag.Float64("bin-size", def.BinSize, "metres between bins")
	surfaceBin := flag.Int("surface-bin", def.SurfaceBin, "first bin above the surface, 0 for none")
	sentinelEvery := flag.Int("sentinel-every", def.SentinelEvery, "put a sentinel in every n-th ensemble, 0 for none")
	sentinelBin := flag.Int("sentinel-bin", def.SentinelBin, "bin that carries the sentinel values")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *times < 1 || *depths < 1 {
		return fmt.Errorf("-times and -depths must be positive")
	}
	t0, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}

	m := def
	m.Times = *times
	m.Depths = *depths
	m.Start = t0.UTC()
	m.Step = *step
	m.FirstDepth = *firstDepth
	m.BinSize = *binSize
	m.SurfaceBin = *surfaceBin
	m.SentinelEvery = *sentinelEvery
	m.SentinelBin = *sentinelBin

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := nativecdf.WriteFile(*out, m.Globals(), m.Variables()...); err != nil {
		return err
	}

	log.Printf("wrote %s: %d ensembles x %d bins from %s every %s", *out, m.Times, m.Depths, m.Start.Format(time.RFC3339), m.Step)
	return nil
}
