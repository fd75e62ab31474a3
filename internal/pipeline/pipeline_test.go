package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/shot-insights-etl/internal/domain"
	"github.com/couchcryptid/shot-insights-etl/internal/observability"
	"github.com/couchcryptid/shot-insights-etl/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- mocks ---

// mockExtractor hands out its events once, then blocks until the context is
// cancelled to simulate an idle topic.
type mockExtractor struct {
	events []domain.RawEvent
	failN  int
	calls  atomic.Int64
	done   atomic.Bool
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	if int(m.calls.Add(1)) <= m.failN {
		return nil, errors.New("broker unavailable")
	}
	if !m.done.Swap(true) && len(m.events) > 0 {
		return m.events[:min(batchSize, len(m.events))], nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

type mockTransformer struct {
	failKeys map[string]bool
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	if m.failKeys[string(raw.Key)] {
		return domain.OutputEvent{}, errors.New("bad batch")
	}
	return domain.OutputEvent{Key: raw.Key, Value: raw.Value}, nil
}

type mockLoader struct {
	mu     sync.Mutex
	loaded []domain.OutputEvent
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.OutputEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, events...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rawBatch(key string, committed *[]string) domain.RawEvent {
	return domain.RawEvent{
		Key:   []byte(key),
		Value: []byte(`{"batch_id":"` + key + `","shots":[]}`),
		Topic: "raw-shot-batches",
		Commit: func(context.Context) error {
			*committed = append(*committed, key)
			return nil
		},
	}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	var committed []string
	ext := &mockExtractor{events: []domain.RawEvent{rawBatch("b-1", &committed), rawBatch("b-2", &committed)}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)
	require.Error(t, p.CheckReadiness(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Len(t, ldr.loaded, 2)
	assert.Equal(t, []string{"b-1", "b-2"}, committed)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{}, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Run_PoisonPillIsCommittedAndSkipped(t *testing.T) {
	var committed []string
	ext := &mockExtractor{events: []domain.RawEvent{rawBatch("bad", &committed), rawBatch("good", &committed)}}
	tfm := &mockTransformer{failKeys: map[string]bool{"bad": true}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, []byte("good"), ldr.loaded[0].Key)
	assert.ElementsMatch(t, []string{"bad", "good"}, committed)
}

func TestPipeline_Run_AllRejectedStaysNotReady(t *testing.T) {
	var committed []string
	ext := &mockExtractor{events: []domain.RawEvent{rawBatch("bad", &committed)}}
	tfm := &mockTransformer{failKeys: map[string]bool{"bad": true}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_LoadFailureDoesNotCommit(t *testing.T) {
	var committed []string
	ext := &mockExtractor{events: []domain.RawEvent{rawBatch("b-1", &committed)}}
	ldr := &mockLoader{err: errors.New("sink down")}

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, committed)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_RetriesExtractErrors(t *testing.T) {
	var committed []string
	ext := &mockExtractor{failN: 1, events: []domain.RawEvent{rawBatch("b-1", &committed)}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Len(t, ldr.loaded, 1)
	assert.GreaterOrEqual(t, ext.calls.Load(), int64(2))
}

func TestPipeline_Run_RespectsBatchSize(t *testing.T) {
	var committed []string
	ext := &mockExtractor{events: []domain.RawEvent{
		rawBatch("b-1", &committed), rawBatch("b-2", &committed), rawBatch("b-3", &committed),
	}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 2)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Len(t, ldr.loaded, 2)
}
