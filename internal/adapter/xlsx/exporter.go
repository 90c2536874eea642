// Package xlsx exports the cleaned per-bin time series to an Excel workbook.
package xlsx

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/moored-adcp-plots/internal/domain"
)

var header = []any{"time", "u", "v", "percent_good"}

// Exporter writes one sheet per selected reduced-axis bin.
type Exporter struct {
	bins   []int
	logger *slog.Logger
}

// NewExporter returns an Exporter for the given reduced-axis bins.
func NewExporter(bins []int, logger *slog.Logger) *Exporter {
	return &Exporter{bins: bins, logger: logger}
}

// Export builds the workbook in memory. Masked velocities are left as empty
// cells.
func (e *Exporter) Export(ctx context.Context, ds domain.CleanedDataset) ([]byte, error) {
	if len(e.bins) == 0 {
		return nil, fmt.Errorf("xlsx export: no bins selected")
	}
	_, nd := ds.U.Dims()
	for _, b := range e.bins {
		if b < 0 || b >= nd {
			return nil, fmt.Errorf("xlsx export: bin %d outside reduced depth axis of length %d", b, nd)
		}
	}
	ts, err := domain.Times(ds.Time)
	if err != nil {
		return nil, fmt.Errorf("xlsx export: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Warn("close workbook", "error", err)
		}
	}()

	for i, bin := range e.bins {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := sheetName(bin, ds.Depth)
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), name)
		} else {
			_, err = f.NewSheet(name)
		}
		if err != nil {
			return nil, fmt.Errorf("xlsx export: sheet %s: %w", name, err)
		}
		if err := writeBin(f, name, bin, ts, ds); err != nil {
			return nil, fmt.Errorf("xlsx export: sheet %s: %w", name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx export: %w", err)
	}
	e.logger.Debug("workbook built", "sheets", len(e.bins), "rows", len(ts), "bytes", buf.Len())
	return buf.Bytes(), nil
}

func writeBin(f *excelize.File, sheet string, bin int, ts []time.Time, ds domain.CleanedDataset) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetColWidth(1, 1, 22); err != nil {
		return err
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	u := ds.UMasked.Column(bin)
	v := ds.VMasked.Column(bin)
	pg := ds.PercentGood.Column(bin)
	for t := range ts {
		cell, err := excelize.CoordinatesToCellName(1, t+2)
		if err != nil {
			return err
		}
		row := []any{ts[t].Format(time.RFC3339), cellValue(u[t]), cellValue(v[t]), cellValue(pg[t])}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// cellValue leaves NaN as an empty cell.
func cellValue(x float64) any {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return x
}

// sheetName labels a sheet by reduced bin index and depth, e.g. "bin 21 (18 m)".
func sheetName(bin int, depth domain.Axis) string {
	d := fmt.Sprintf("%.0f", depth.Values[bin])
	if depth.Units != "" {
		d += " " + depth.Units
	}
	return fmt.Sprintf("bin %d (%s)", bin, d)
}
