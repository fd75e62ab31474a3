package insights

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/shot-insights-etl/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidShot is returned when a batch violates the shot identity rules.
// The whole batch is rejected.
var ErrInvalidShot = errors.New("invalid shot")

// Summary describes one derivation run.
type Summary struct {
	Shots                  int
	Holes                  int
	UndefinedStrokesGained int
	ShotTypes              map[string]int
}

// Engine derives shot insights over a batch. It holds no per-batch state and
// is safe for concurrent use.
type Engine struct {
	model   *BenchmarkModel
	policy  LastShotPolicy
	workers int
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the goroutines used by the per-shot phases.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLastShotPolicy selects the strokes-gained formula for a hole's last shot.
func WithLastShotPolicy(p LastShotPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine over a benchmark model.
func NewEngine(model *BenchmarkModel, opts ...Option) *Engine {
	e := &Engine{
		model:   model,
		policy:  LastShotReference,
		workers: 1,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Derive augments shots in place with every derived field and leaves them
// sorted by user, round start, round, hole and shot. Each phase finishes on
// the whole batch before the next starts. Deriving the same input twice
// gives the same output.
func (e *Engine) Derive(shots []domain.ShotRecord) (Summary, error) {
	if err := validateShots(shots); err != nil {
		return Summary{}, err
	}

	StandardizeLies(shots)
	e.forEachShot(shots, locateShot)
	fillHoleYards(shots)
	ClassifyShots(shots)
	e.forEachShot(shots, func(s *domain.ShotRecord) {
		measureMiss(s)
		labelMiss(s)
	})
	undefined := CalculateStrokesGained(shots, e.model, e.policy)

	summary := Summary{
		Shots:                  len(shots),
		UndefinedStrokesGained: undefined,
		ShotTypes:              make(map[string]int),
	}
	for i := range shots {
		summary.ShotTypes[shots[i].ShotType]++
		if i == 0 || shots[i].Hole() != shots[i-1].Hole() {
			summary.Holes++
		}
	}

	e.logger.Debug("shots derived",
		"shots", summary.Shots,
		"holes", summary.Holes,
		"undefined_strokes_gained", summary.UndefinedStrokesGained,
		"last_shot_policy", e.policy.String(),
	)
	return summary, nil
}

// forEachShot applies fn to every shot, fanning out across the configured
// workers. fn must touch only the shot it is given.
func (e *Engine) forEachShot(shots []domain.ShotRecord, fn func(*domain.ShotRecord)) {
	if e.workers <= 1 || len(shots) < e.workers {
		for i := range shots {
			fn(&shots[i])
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(e.workers)
	chunk := (len(shots) + e.workers - 1) / e.workers
	for lo := 0; lo < len(shots); lo += chunk {
		part := shots[lo:min(lo+chunk, len(shots))]
		g.Go(func() error {
			for i := range part {
				fn(&part[i])
			}
			return nil
		})
	}
	_ = g.Wait() // fn cannot fail
}

type shotKey struct {
	hole   domain.HoleKey
	shotID int
}

func validateShots(shots []domain.ShotRecord) error {
	seen := make(map[shotKey]struct{}, len(shots))
	for i := range shots {
		s := &shots[i]
		switch {
		case s.UserID == "":
			return fmt.Errorf("%w: round %d hole %d shot %d has no user", ErrInvalidShot, s.RoundID, s.HoleID, s.ShotID)
		case s.ShotID < 1:
			return fmt.Errorf("%w: round %d hole %d has shot id %d", ErrInvalidShot, s.RoundID, s.HoleID, s.ShotID)
		case s.HoleShots < 1:
			return fmt.Errorf("%w: round %d hole %d has %d shots", ErrInvalidShot, s.RoundID, s.HoleID, s.HoleShots)
		}
		k := shotKey{hole: s.Hole(), shotID: s.ShotID}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: duplicate shot %d on round %d hole %d", ErrInvalidShot, s.ShotID, s.RoundID, s.HoleID)
		}
		seen[k] = struct{}{}
	}
	return nil
}
