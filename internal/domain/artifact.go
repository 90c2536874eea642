package domain

import "time"

// Artifact kinds.
const (
	ArtifactContour = "contour"
	ArtifactSeries  = "series"
	ArtifactXLSX    = "xlsx"
)

// Artifact describes one output file written by a run.
type Artifact struct {
	RunID       string         `json:"run_id"`
	Mooring     string         `json:"mooring"`
	Kind        string         `json:"kind"`
	Path        string         `json:"path"`
	Bytes       int            `json:"bytes"`
	BinsRemoved []int          `json:"bins_removed"`
	Masked      map[string]int `json:"masked"`
	RenderedAt  time.Time      `json:"rendered_at"`
}
