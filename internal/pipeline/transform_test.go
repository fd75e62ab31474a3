package pipeline_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/shot-insights-etl/internal/domain"
	"github.com/couchcryptid/shot-insights-etl/internal/insights"
	"github.com/couchcryptid/shot-insights-etl/internal/observability"
	"github.com/couchcryptid/shot-insights-etl/internal/pipeline"
	"github.com/couchcryptid/shot-insights-etl/internal/reference"
	"github.com/jonboulle/clockwork"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var processedAt = time.Date(2024, time.June, 1, 9, 30, 0, 0, time.UTC)

func newTestTransformer(t *testing.T, metrics *observability.Metrics) *pipeline.ShotTransformer {
	t.Helper()
	model, err := insights.NewBenchmarkModel(reference.Default())
	require.NoError(t, err)
	engine := insights.NewEngine(model, insights.WithWorkers(2), insights.WithLogger(discardLogger()))
	return pipeline.NewTransformer(engine, discardLogger(), metrics)
}

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(processedAt))
	t.Cleanup(func() { domain.SetClock(nil) })
}

// arccosExport wraps the adapter fixtures in the export envelope.
func arccosExport(t *testing.T) json.RawMessage {
	t.Helper()
	read := func(name string) json.RawMessage {
		data, err := os.ReadFile(filepath.Join("..", "adapter", "arccos", "testdata", name))
		require.NoError(t, err)
		return data
	}
	data, err := json.Marshal(map[string]json.RawMessage{
		"rounds":  read("round.json"),
		"terrain": read("terrain.json"),
		"course":  read("course.json"),
	})
	require.NoError(t, err)
	return data
}

func decodeBatch(t *testing.T, out domain.OutputEvent) domain.ShotBatch {
	t.Helper()
	var batch domain.ShotBatch
	require.NoError(t, json.Unmarshal(out.Value, &batch))
	return batch
}

func TestShotTransformer_ArccosExport(t *testing.T) {
	freezeClock(t)
	metrics := observability.NewMetricsForTesting()
	tfm := newTestTransformer(t, metrics)

	value, err := json.Marshal(domain.BatchPayload{BatchID: "round-1234567", Arccos: arccosExport(t)})
	require.NoError(t, err)

	out, err := tfm.Transform(context.Background(), domain.RawEvent{Value: value})
	require.NoError(t, err)

	assert.Equal(t, []byte("round-1234567"), out.Key)
	assert.Equal(t, "7", out.Headers["shot_count"])
	assert.Equal(t, "arccos", out.Headers["source"])
	assert.Equal(t, processedAt.Format(time.RFC3339), out.Headers["processed_at"])

	batch := decodeBatch(t, out)
	require.Len(t, batch.Shots, 7)
	assert.True(t, processedAt.Equal(batch.ProcessedAt))
	for _, s := range batch.Shots {
		assert.NotEmpty(t, s.ShotType, "hole %d shot %d", s.HoleID, s.ShotID)
		assert.NotEmpty(t, s.StartLie, "hole %d shot %d", s.HoleID, s.ShotID)
		assert.True(t, s.StartDistanceYards.Valid(), "hole %d shot %d", s.HoleID, s.ShotID)
	}

	first := batch.Shots[0]
	assert.Equal(t, domain.ShotTypeTee, first.ShotType)
	assert.Equal(t, domain.LieTee, first.StartLie)

	assert.InDelta(t, 7, shotsDerived(t, metrics), 0)
}

func TestShotTransformer_FlatShots(t *testing.T) {
	freezeClock(t)
	tfm := newTestTransformer(t, nil)

	first, err := tfm.Transform(context.Background(), domain.RawEvent{Value: mustJSON(t, map[string]any{"arccos": arccosExport(t)})})
	require.NoError(t, err)
	derived := decodeBatch(t, first)

	// Feeding derived shots back in derives the same values.
	value := mustJSON(t, domain.BatchPayload{BatchID: "replay", Source: "gsl", Shots: derived.Shots})
	out, err := tfm.Transform(context.Background(), domain.RawEvent{Value: value})
	require.NoError(t, err)

	again := decodeBatch(t, out)
	assert.Equal(t, "gsl", again.Source)
	require.Len(t, again.Shots, len(derived.Shots))
	for i := range derived.Shots {
		assert.Equal(t, derived.Shots[i].ShotType, again.Shots[i].ShotType)
		assert.Equal(t, derived.Shots[i].MissDirection, again.Shots[i].MissDirection)
		assert.Equal(t, derived.Shots[i].StrokesGained.Valid(), again.Shots[i].StrokesGained.Valid())
		if derived.Shots[i].StrokesGained.Valid() {
			assert.InDelta(t, float64(derived.Shots[i].StrokesGained), float64(again.Shots[i].StrokesGained), 1e-9)
		}
	}
}

func TestShotTransformer_Errors(t *testing.T) {
	tfm := newTestTransformer(t, nil)

	tests := []struct {
		name  string
		value string
		want  error
	}{
		{"not json", `{"shots":`, nil},
		{"empty batch", `{"batch_id":"b-1"}`, domain.ErrEmptyBatch},
		{"shot without user", `[{"round_id":1,"hole_id":1,"shot_id":1,"hole_no_of_shots":1}]`, insights.ErrInvalidShot},
		{"incomplete export", `{"arccos":{"rounds":[]}}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tfm.Transform(context.Background(), domain.RawEvent{Value: []byte(tt.value)})
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestShotTransformer_MalformedExportNamesBatch(t *testing.T) {
	tfm := newTestTransformer(t, nil)

	_, err := tfm.Transform(context.Background(), domain.RawEvent{
		Value: []byte(`{"batch_id":"b-7","arccos":"not an object"}`),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aggregate batch b-7")
	assert.Contains(t, err.Error(), "parse arccos export")
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func shotsDerived(t *testing.T, m *observability.Metrics) float64 {
	t.Helper()
	var total float64
	for _, shotType := range []string{
		domain.ShotTypeTee, domain.ShotTypeApproach, domain.ShotTypeGreenside, domain.ShotTypePutt,
	} {
		var metric dto.Metric
		require.NoError(t, m.ShotsDerived.WithLabelValues(shotType).Write(&metric))
		total += metric.GetCounter().GetValue()
	}
	return total
}
