package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/shot-insights-etl/internal/adapter/arccos"
	"github.com/couchcryptid/shot-insights-etl/internal/domain"
	"github.com/couchcryptid/shot-insights-etl/internal/insights"
	"github.com/couchcryptid/shot-insights-etl/internal/observability"
)

// Deriver runs the insights engine over one batch.
type Deriver interface {
	Derive(shots []domain.ShotRecord) (insights.Summary, error)
}

// ShotTransformer implements Transformer: it parses a shot batch, flattens
// raw Arccos exports, derives insights, and serializes the result.
type ShotTransformer struct {
	engine  Deriver
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a ShotTransformer. metrics may be nil.
func NewTransformer(engine Deriver, logger *slog.Logger, metrics *observability.Metrics) *ShotTransformer {
	return &ShotTransformer{
		engine:  engine,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *ShotTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	batch, err := domain.ParseShotBatch(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	if len(batch.Arccos) > 0 && len(batch.Shots) == 0 {
		export, err := arccos.ParseExport(batch.Arccos)
		if err != nil {
			return domain.OutputEvent{}, fmt.Errorf("aggregate batch %s: %w", batch.ID, err)
		}
		if batch.Shots, err = export.Shots(); err != nil {
			return domain.OutputEvent{}, fmt.Errorf("aggregate batch %s: %w", batch.ID, err)
		}
	}

	start := time.Now()
	summary, err := t.engine.Derive(batch.Shots)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("derive batch %s: %w", batch.ID, err)
	}
	t.observe(summary, time.Since(start))

	t.logger.Debug("batch derived",
		"batch_id", batch.ID,
		"source", batch.Source,
		"shots", summary.Shots,
		"holes", summary.Holes,
		"undefined_strokes_gained", summary.UndefinedStrokesGained,
	)

	return domain.SerializeShotBatch(batch)
}

func (t *ShotTransformer) observe(summary insights.Summary, elapsed time.Duration) {
	if t.metrics == nil {
		return
	}
	t.metrics.DeriveDuration.Observe(elapsed.Seconds())
	t.metrics.StrokesGainedUndefined.Add(float64(summary.UndefinedStrokesGained))
	for shotType, n := range summary.ShotTypes {
		t.metrics.ShotsDerived.WithLabelValues(shotType).Add(float64(n))
	}
}
