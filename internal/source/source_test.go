package source_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/moored-adcp-plots/internal/adapter/libnetcdf"
	"github.com/couchcryptid/moored-adcp-plots/internal/adapter/nativecdf"
	"github.com/couchcryptid/moored-adcp-plots/internal/config"
	"github.com/couchcryptid/moored-adcp-plots/internal/source"
)

func TestNew_Native(t *testing.T) {
	m := nativecdf.DefaultSyntheticMooring()
	m.Times = 5
	path := filepath.Join(t.TempDir(), "mooring.nc")
	require.NoError(t, nativecdf.WriteFile(path, m.Globals(), m.Variables()...))

	cfg := &config.Config{InputPath: path, Reader: config.ReaderNative, Profile: config.DefaultProfile()}
	ext, err := source.New(cfg, slog.Default())
	require.NoError(t, err)

	ds, err := ext.Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, ds.Time.Len())
	assert.Equal(t, 40, ds.Depth.Len())
}

func TestNew_LibNetCDF(t *testing.T) {
	cfg := &config.Config{InputPath: "absent.nc", Reader: config.ReaderLibNetCDF, Profile: config.DefaultProfile()}
	ext, err := source.New(cfg, slog.Default())
	if !libnetcdf.Available {
		require.ErrorIs(t, err, libnetcdf.ErrUnavailable)
		assert.Nil(t, ext)
		return
	}
	require.NoError(t, err)
	assert.NotNil(t, ext)
}

func TestNew_Unknown(t *testing.T) {
	_, err := source.New(&config.Config{Reader: "hdf5"}, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hdf5")
}
