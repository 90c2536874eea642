//go:build !libnetcdf

package libnetcdf

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/moored-adcp-plots/internal/domain"
)

// Available reports whether this build links the C netCDF library.
const Available = false

// Reader is a placeholder for builds without the C netCDF library.
type Reader struct{}

// NewReader always fails with ErrUnavailable.
func NewReader(string, domain.VariableNames, *slog.Logger) (*Reader, error) {
	return nil, ErrUnavailable
}

// Extract always fails with ErrUnavailable.
func (*Reader) Extract(context.Context) (domain.Dataset, error) {
	return domain.Dataset{}, ErrUnavailable
}
