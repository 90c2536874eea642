// Command validate checks a mooring NetCDF file against the cleaning contract
// without rendering anything: the configured variables exist, their shapes
// line up on a time × depth grid, the depth axis is long enough for the
// bad-bin ranges, the time axis decodes and increases, and every series bin
// survives cleaning. It then prints a masked-value summary per velocity
// component.
//
// Usage:
//
//	go run ./cmd/validate -input MADCP_HUD2013021_1840_12556_3600_interpolated.nc
//	go run ./cmd/validate -input mooring.nc -profile mooring1841.yaml -reader libnetcdf
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/moored-adcp-plots/internal/config"
	"github.com/couchcryptid/moored-adcp-plots/internal/domain"
	"github.com/couchcryptid/moored-adcp-plots/internal/source"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	input := flag.String("input", "", "path to the mooring NetCDF file")
	profilePath := flag.String("profile", "", "optional mooring profile YAML")
	reader := flag.String("reader", config.ReaderNative, "reader: native or libnetcdf")
	chunk := flag.Int("chunk-records", 0, "read variables in blocks of this many records, 0 for eager")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(1)
	}

	profile, err := config.LoadProfile(*profilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	cfg := &config.Config{
		InputPath:          *input,
		Reader:             *reader,
		ReaderChunkRecords: *chunk,
		Profile:            profile,
	}
	os.Exit(run(cfg))
}

func run(cfg *config.Config) int {
	fmt.Println("=== Mooring File Contract Validation ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ext, err := source.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	read := &phase{name: "Variables present and aligned"}
	ds, err := ext.Extract(context.Background())
	if err != nil {
		read.errorf("%v", err)
		return report(cfg, []*phase{read}, nil)
	}

	phases := []*phase{read, validateUnits(ds), validateTimeAxis(ds)}
	clean, cleaned := validateCleaning(ds, cfg.Profile)
	phases = append(phases, clean)
	if clean.passed() {
		phases = append(phases, validateSeriesBins(cleaned, cfg.Profile))
		return report(cfg, phases, &cleaned)
	}
	return report(cfg, phases, nil)
}

func validateUnits(ds domain.Dataset) *phase {
	p := &phase{name: "Units attributes present"}
	for _, v := range []struct{ name, units string }{
		{ds.Time.Name, ds.Time.Units},
		{ds.Depth.Name, ds.Depth.Units},
		{ds.U.Name, ds.U.Units},
		{ds.V.Name, ds.V.Units},
		{ds.PercentGood.Name, ds.PercentGood.Units},
	} {
		if v.units == "" {
			p.errorf("%s: no units attribute", v.name)
		}
	}
	return p
}

func validateTimeAxis(ds domain.Dataset) *phase {
	p := &phase{name: "Time axis decodes and increases"}
	ts, err := domain.Times(ds.Time)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	for i := 1; i < len(ts); i++ {
		if !ts[i].After(ts[i-1]) {
			p.errorf("sample %d (%s) not after sample %d (%s)", i, ts[i], i-1, ts[i-1])
			if len(p.errors) >= 5 {
				break
			}
		}
	}
	return p
}

func validateCleaning(ds domain.Dataset, profile config.Profile) (*phase, domain.CleanedDataset) {
	p := &phase{name: "Depth axis long enough for bad bins"}
	cleaned, err := domain.Clean(ds, profile.Cleaner())
	if err != nil {
		var se *domain.DataShapeError
		if errors.As(err, &se) && se.MinLength > 0 {
			p.errorf("%s has %d bins, need at least %d", se.Variable, ds.Depth.Len(), se.MinLength)
		} else {
			p.errorf("%v", err)
		}
	}
	return p, cleaned
}

func validateSeriesBins(cleaned domain.CleanedDataset, profile config.Profile) *phase {
	p := &phase{name: "Series bins on reduced axis"}
	n := cleaned.Depth.Len()
	for _, fig := range profile.Figures {
		if err := fig.CheckBins(n); err != nil {
			p.errorf("%v", err)
		}
	}
	return p
}

func report(cfg *config.Config, phases []*phase, cleaned *domain.CleanedDataset) int {
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("File: %s (reader %s)\n", cfg.InputPath, cfg.Reader)
	if cleaned != nil {
		tn, dn := cleaned.U.Dims()
		fmt.Printf("Reduced grid: %d samples x %d bins, %d bins removed\n", tn, dn, len(cleaned.RemovedBins))
		for _, m := range []domain.MaskedGrid{cleaned.UMasked, cleaned.VMasked} {
			s := domain.Summarize(m)
			fmt.Printf("  %-8s valid %-9d masked %-9d min %8.2f  max %8.2f  mean %8.2f\n",
				m.Name, s.Valid, s.Masked, s.Min, s.Max, s.Mean)
		}
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  %d. %s\n", i+1, e)
		}
	}

	fmt.Println()
	if !allPassed {
		fmt.Println("RESULT: FAIL")
		return 1
	}
	fmt.Println("RESULT: PASS")
	return 0
}
