package recorder

import (
	"encoding/json"
	"time"

	"MarketLens/internal/model"

	"github.com/google/uuid"
)

// Run kinds.
const (
	KindOverview  = "overview"
	KindCompare   = "compare"
	KindDashboard = "dashboard"
)

// Run describes one orchestrated request: which symbols were asked for and
// which of them were skipped. Computed results are never recorded.
type Run struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Timeframe string          `json:"timeframe,omitempty"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"-"`
	Requested []string        `json:"requested"`
	Skipped   []model.Skipped `json:"skipped,omitempty"`
}

// MarshalJSON encodes Duration as whole milliseconds under duration_ms, the
// same unit the run log stores.
func (r Run) MarshalJSON() ([]byte, error) {
	type plain Run
	return json.Marshal(struct {
		plain
		DurationMS int64 `json:"duration_ms"`
	}{plain(r), r.Duration.Milliseconds()})
}

// NewRun starts a run record with a fresh id.
func NewRun(kind string, timeframe string, requested []string, startedAt time.Time) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		Timeframe: timeframe,
		StartedAt: startedAt,
		Requested: requested,
	}
}

// Recorder persists the run log.
type Recorder interface {
	RecordRun(run *Run) error
	RecentRuns(limit int) ([]Run, error)
	Close() error
}
