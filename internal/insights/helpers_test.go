package insights

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/shot-insights-etl/internal/domain"
	"github.com/stretchr/testify/require"
)

const (
	teeLat = 52.166022757016
	teeLon = 0.166272406133
	pinLat = 52.165891736696
	pinLon = 0.172658975318
)

var roundStart = time.Date(2020, time.December, 3, 12, 20, 14, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

func testTables() BenchmarkTables {
	return BenchmarkTables{
		Tee:     []CurvePoint{{100, 3.0}, {200, 3.2}, {300, 3.8}, {500, 4.4}},
		Fairway: []CurvePoint{{20, 2.4}, {100, 2.8}, {200, 3.2}},
		Rough:   []CurvePoint{{20, 2.6}, {100, 3.0}, {200, 3.4}},
		Sand:    []CurvePoint{{20, 2.5}, {100, 3.2}, {200, 3.6}},
		Green:   []CurvePoint{{0.5, 1.0}, {5, 1.5}, {10, 1.8}, {30, 2.2}},
	}
}

func testModel(t *testing.T) *BenchmarkModel {
	t.Helper()
	m, err := NewBenchmarkModel(testTables())
	require.NoError(t, err)
	return m
}

// parFiveHole plays the reference tee and pin in five shots: drive, lay-up
// into the rough, pitch onto the green, lag putt, tap-in.
func parFiveHole(user string, roundID int64, holeID int) []domain.ShotRecord {
	base := domain.ShotRecord{
		RoundID:        roundID,
		HoleID:         holeID,
		UserID:         user,
		RoundStartTime: roundStart,
		PinLat:         pinLat,
		PinLong:        pinLon,
		HolePar:        5,
		HoleShots:      5,
		IsFairwayRight: ptr(false),
		IsFairwayLeft:  ptr(false),
		IsGIR:          ptr(false),
	}

	legs := []struct {
		startLat, startLon float64
		endLat, endLon     *float64
		startTerrain       string
		endTerrain         string
		club               int
	}{
		{teeLat, teeLon, ptr(52.16600), ptr(0.16900), "tee", "fairway", 1},
		{52.16600, 0.16900, ptr(52.16592), ptr(0.17150), "fairway", "rough", 5},
		{52.16592, 0.17150, ptr(52.16589), ptr(0.17255), "rough", "green", 12},
		{52.16589, 0.17255, ptr(52.165891), ptr(0.17264), "green", "green", 14},
		{52.165891, 0.17264, nil, nil, "green", "", 14},
	}

	shots := make([]domain.ShotRecord, len(legs))
	for i, l := range legs {
		s := base
		s.ShotID = i + 1
		s.StartLat, s.StartLong = l.startLat, l.startLon
		s.EndLat, s.EndLong = l.endLat, l.endLon
		s.StartTerrain, s.EndTerrain = l.startTerrain, l.endTerrain
		s.ClubType = l.club
		shots[i] = s
	}
	return shots
}
