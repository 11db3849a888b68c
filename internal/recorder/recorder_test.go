package recorder

import (
	"encoding/json"
	"testing"
	"time"

	"MarketLens/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MarshalJSONUsesMilliseconds(t *testing.T) {
	run := NewRun(KindOverview, "1M", []string{"AAPL"}, time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC))
	run.Duration = 1500*time.Millisecond + 700*time.Microsecond
	run.Skipped = []model.Skipped{{Symbol: "AAPL", Kind: "source", Err: "timeout"}}

	data, err := json.Marshal(run)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 1500.0, got["duration_ms"])
	assert.NotContains(t, got, "duration_ns")
	assert.NotContains(t, got, "Duration")
	assert.Equal(t, run.ID, got["id"])
	assert.Equal(t, "1M", got["timeframe"])
	assert.Equal(t, "2024-07-01T08:00:00Z", got["started_at"])
	assert.Len(t, got["skipped"], 1)
}
