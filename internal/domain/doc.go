// Package domain models moored Acoustic Doppler Current Profiler (ADCP) data
// and the cleaning rules applied before it is plotted.
//
// # Data Source
//
// Mooring files are self-describing NetCDF files produced by the Bedford
// Institute of Oceanography processing chain, e.g.
// MADCP_HUD2013021_1840_12556_3600_interpolated.nc (cruise HUD2013021,
// mooring 1840, hourly ensembles). Variables follow the EPIC naming
// convention, where the numeric suffix is the EPIC variable code:
//
//	time      sample time (Julian day number, or CF "<unit> since <date>")
//	depth     bin centre depth, one value per instrument bin
//	u_1205    eastward velocity (EPIC 1205), cm/s
//	v_1206    northward velocity (EPIC 1206), cm/s
//	PGd_1203  percent good (EPIC 1203), %
//
// Every variable carries a "units" attribute. Velocity and percent-good are
// stored as (time, depth, lat, lon) with singleton lat/lon dimensions; they
// are squeezed on load.
//
// # Axis Order
//
// All grids in this package are time × depth: row t is one ensemble, column
// d is one depth bin. Arrays stored depth × time are transposed on load so
// that column removal and masking always act on the same axis.
//
// # Cleaning Rules
//
// Known-bad bins:
//
//	Bins 22 through 39 (by position, not by depth value) are affected by an
//	instrument fault on mooring 1840 and are removed from the depth axis and
//	from every depth-indexed grid before anything else happens. Removal is
//	positional; overlapping configured ranges never remove a bin twice.
//
// Sentinel velocities:
//
//	Any velocity whose magnitude is at least 100 cm/s is not a physical
//	reading (fill values such as 1e35 fall in this class). Such cells are
//	masked, not deleted: grid shape is unchanged and masked cells read as
//	NaN so that plots leave them blank and statistics skip them.
//
// Percent-good values are never masked.
package domain
