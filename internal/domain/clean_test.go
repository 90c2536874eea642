package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTimes  = 4
	testDepths = 50
)

// makeDataset builds a time × depth dataset where u(t, d) = d, v(t, d) = -d
// and percent good is 100 - d, so removed columns are easy to spot.
func makeDataset(t *testing.T, times, depths int) Dataset {
	t.Helper()
	timeVals := make([]float64, times)
	for i := range timeVals {
		timeVals[i] = 2456480.5 + float64(i)/24
	}
	depthVals := make([]float64, depths)
	for i := range depthVals {
		depthVals[i] = float64(i)
	}
	u := make([]float64, times*depths)
	v := make([]float64, times*depths)
	pg := make([]float64, times*depths)
	for ti := 0; ti < times; ti++ {
		for d := 0; d < depths; d++ {
			u[ti*depths+d] = float64(d)
			v[ti*depths+d] = -float64(d)
			pg[ti*depths+d] = 100 - float64(d)
		}
	}
	return Dataset{
		Time:        Axis{Name: "time", Units: "True Julian Day", Values: timeVals},
		Depth:       Axis{Name: "depth", Units: "m", Values: depthVals},
		U:           NewGrid("u_1205", "cm/s", times, depths, u),
		V:           NewGrid("v_1206", "cm/s", times, depths, v),
		PercentGood: NewGrid("PGd_1203", "%", times, depths, pg),
	}
}

func expectedReducedAxis() []float64 {
	var want []float64
	for i := 0; i <= 21; i++ {
		want = append(want, float64(i))
	}
	for i := 40; i <= 49; i++ {
		want = append(want, float64(i))
	}
	return want
}

func TestClean_RemovesBadBins(t *testing.T) {
	ds := makeDataset(t, testTimes, testDepths)

	out, err := Clean(ds, DefaultCleanerConfig())
	require.NoError(t, err)

	want := expectedReducedAxis()
	require.Len(t, want, 32)
	if diff := cmp.Diff(want, out.Depth.Values); diff != "" {
		t.Fatalf("reduced depth mismatch (-want +got):\n%s", diff)
	}

	for _, g := range []Grid{out.U, out.V, out.PercentGood, out.UMasked.Grid, out.VMasked.Grid} {
		rows, cols := g.Dims()
		assert.Equal(t, testTimes, rows, g.Name)
		assert.Equal(t, 32, cols, g.Name)
	}

	// Columns follow the depth axis: u(t, d) was the original bin index.
	for d, depth := range out.Depth.Values {
		assert.Equal(t, depth, out.U.At(0, d))
		assert.Equal(t, -depth, out.V.At(testTimes-1, d))
		assert.Equal(t, 100-depth, out.PercentGood.At(1, d))
	}
	assert.Equal(t, []int{22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39}, out.RemovedBins)
}

func TestClean_RemovedPositionsNeverAppear(t *testing.T) {
	for _, n := range []int{40, 41, 64, 100} {
		ds := makeDataset(t, 2, n)
		out, err := Clean(ds, DefaultCleanerConfig())
		require.NoError(t, err, "depth length %d", n)

		assert.Equal(t, n-18, out.Depth.Len())
		for _, v := range out.Depth.Values {
			assert.False(t, v >= 22 && v <= 39, "bin %v should have been removed", v)
		}
	}
}

func TestClean_DoesNotModifyInput(t *testing.T) {
	ds := makeDataset(t, testTimes, testDepths)
	_, err := Clean(ds, DefaultCleanerConfig())
	require.NoError(t, err)

	assert.Equal(t, testDepths, ds.Depth.Len())
	_, cols := ds.U.Dims()
	assert.Equal(t, testDepths, cols)
}

func TestClean_DepthTooShort(t *testing.T) {
	ds := makeDataset(t, testTimes, 30)

	_, err := Clean(ds, DefaultCleanerConfig())
	require.Error(t, err)

	var shapeErr *DataShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, "depth", shapeErr.Variable)
	assert.Equal(t, 40, shapeErr.MinLength)
	assert.Contains(t, err.Error(), "at least 40 depth bins")
}

func TestClean_OverlappingRangesRemoveOnce(t *testing.T) {
	ds := makeDataset(t, testTimes, testDepths)
	cfg := CleanerConfig{
		BadBins:       []BinRange{{First: 22, Last: 30}, {First: 25, Last: 39}},
		MaskThreshold: 100,
	}

	out, err := Clean(ds, cfg)
	require.NoError(t, err)
	assert.Equal(t, expectedReducedAxis(), out.Depth.Values)
}

func TestClean_NoBadBins(t *testing.T) {
	ds := makeDataset(t, testTimes, 10)
	out, err := Clean(ds, CleanerConfig{MaskThreshold: 100})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Depth.Len())
	assert.Empty(t, out.RemovedBins)
}

func TestClean_RemovingEveryBinFails(t *testing.T) {
	ds := makeDataset(t, testTimes, 10)
	_, err := Clean(ds, CleanerConfig{BadBins: []BinRange{{First: 0, Last: 9}}, MaskThreshold: 100})

	var shapeErr *DataShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestClean_MisalignedGrid(t *testing.T) {
	ds := makeDataset(t, testTimes, testDepths)
	ds.PercentGood = NewGrid("PGd_1203", "%", testTimes, testDepths-1, make([]float64, testTimes*(testDepths-1)))

	_, err := Clean(ds, DefaultCleanerConfig())
	var shapeErr *DataShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "PGd_1203", shapeErr.Variable)
}

func TestClean_InvalidThreshold(t *testing.T) {
	ds := makeDataset(t, testTimes, testDepths)
	_, err := Clean(ds, CleanerConfig{MaskThreshold: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mask threshold")
}

func TestClean_MasksSentinelVelocity(t *testing.T) {
	ds := makeDataset(t, testTimes, testDepths)
	u := make([]float64, testTimes*testDepths)
	u[5] = 150 // t=0, bin=5
	u[6] = 45  // t=0, bin=6
	ds.U = NewGrid("u_1205", "cm/s", testTimes, testDepths, u)

	out, err := Clean(ds, DefaultCleanerConfig())
	require.NoError(t, err)

	assert.False(t, out.UMasked.Valid(0, 5))
	assert.True(t, math.IsNaN(out.UMasked.At(0, 5)))
	assert.True(t, out.UMasked.Valid(0, 6))
	assert.Equal(t, 45.0, out.UMasked.At(0, 6))

	// The unmasked grid keeps the raw value; shape is unchanged.
	assert.Equal(t, 150.0, out.U.At(0, 5))

	s := Summarize(out.UMasked)
	assert.Equal(t, 45.0, s.Max)
	assert.Equal(t, 1, s.Masked)
}

func TestClean_StampsCleanedAt(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2014, time.July, 20, 12, 0, 0, 0, time.UTC))
	SetClock(fake)
	t.Cleanup(func() { SetClock(nil) })

	out, err := Clean(makeDataset(t, testTimes, testDepths), DefaultCleanerConfig())
	require.NoError(t, err)
	assert.Equal(t, fake.Now(), out.CleanedAt)
}
