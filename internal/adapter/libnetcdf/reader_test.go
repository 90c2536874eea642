//go:build libnetcdf

package libnetcdf_test

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/moored-adcp-plots/internal/adapter/libnetcdf"
	"github.com/couchcryptid/moored-adcp-plots/internal/adapter/nativecdf"
	"github.com/couchcryptid/moored-adcp-plots/internal/domain"
)

func writeMooring(t *testing.T, m nativecdf.SyntheticMooring) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mooring.nc")
	require.NoError(t, nativecdf.WriteFile(path, m.Globals(), m.Variables()...))
	return path
}

func TestReader_MatchesNativeReader(t *testing.T) {
	m := nativecdf.DefaultSyntheticMooring()
	m.Times = 12
	path := writeMooring(t, m)

	native, err := nativecdf.NewReader(path, m.Vars, 0, slog.Default()).Extract(context.Background())
	require.NoError(t, err)

	r, err := libnetcdf.NewReader(path, m.Vars, slog.Default())
	require.NoError(t, err)
	got, err := r.Extract(context.Background())
	require.NoError(t, err)

	assert.Equal(t, native.Time, got.Time)
	assert.Equal(t, native.Depth, got.Depth)
	assert.Equal(t, native.U.Units, got.U.Units)
	for d := 0; d < native.Depth.Len(); d++ {
		assert.Equal(t, native.U.Column(d), got.U.Column(d))
		assert.Equal(t, native.V.Column(d), got.V.Column(d))
		assert.Equal(t, native.PercentGood.Column(d), got.PercentGood.Column(d))
	}
}

func TestReader_MissingVariable(t *testing.T) {
	m := nativecdf.DefaultSyntheticMooring()
	m.Times = 3
	path := writeMooring(t, m)

	vars := m.Vars
	vars.V = "v_missing"
	r, err := libnetcdf.NewReader(path, vars, slog.Default())
	require.NoError(t, err)

	_, err = r.Extract(context.Background())
	var missing *domain.MissingVariableError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "v_missing", missing.Variable)
}

func TestReader_MissingFile(t *testing.T) {
	r, err := libnetcdf.NewReader(filepath.Join(t.TempDir(), "absent.nc"), domain.DefaultVariableNames(), slog.Default())
	require.NoError(t, err)

	_, err = r.Extract(context.Background())
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
