package indexModel

import (
	"context"
	"strconv"
	"strings"
)

type Source string

const (
	SourceEDLS   Source = "edls"
	SourceForces Source = "forces"
)

// TrackerState is the per-source watermark persisted between indexing runs.
type TrackerState struct {
	LastRun      string `json:"last_run,omitempty"`
	EDLSCount    int    `json:"edls_count"`
	ForcesCount  int    `json:"forces_count"`
	EDLSLastId   string `json:"edls_last_id,omitempty"`
	ForcesLastId string `json:"forces_last_id,omitempty"`
}

type IndexReport struct {
	EDLSIndexed   int `json:"edls_indexed"`
	ForcesIndexed int `json:"forces_indexed"`
	Total         int `json:"total"`
	Failed        int `json:"failed"`
}

type TrackerStore interface {
	Load(ctx context.Context) (TrackerState, error)
	Save(ctx context.Context, state TrackerState) error
	Reset(ctx context.Context) error
}

// CompareIds orders numerically when both ids are integers and lexically otherwise.
func CompareIds(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}
