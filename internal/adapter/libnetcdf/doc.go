// Package libnetcdf reads mooring files through the C netCDF library. It is
// compiled only with the libnetcdf build tag, which requires cgo and the
// netcdf pkg-config entry:
//
//	go build -tags libnetcdf ./...
//
// Other builds get a stub whose constructor returns ErrUnavailable.
package libnetcdf

import "errors"

// ErrUnavailable is returned when the binary was built without libnetcdf.
var ErrUnavailable = errors.New("libnetcdf reader not compiled in; rebuild with -tags libnetcdf")
