package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testShotJSON = `{"round_id":101,"hole_id":1,"shot_id":1,"user_id":"u-1","round_start_time":"2020-12-03T12:20:14Z","start_lat":52.166022757016,"start_long":0.166272406133,"pin_lat":52.165891736696,"pin_long":0.172658975318,"hole_par":4,"hole_no_of_shots":4,"start_terrain":"tee","end_terrain":"fairway","club_type":1}`

func TestParseShotBatch(t *testing.T) {
	t.Run("payload object", func(t *testing.T) {
		raw := RawEvent{Value: []byte(`{"batch_id":"b-1","source":"arccos","shots":[` + testShotJSON + `]}`)}
		batch, err := ParseShotBatch(raw)

		require.NoError(t, err)
		assert.Equal(t, "b-1", batch.ID)
		assert.Equal(t, "arccos", batch.Source)
		require.Len(t, batch.Shots, 1)
		shot := batch.Shots[0]
		assert.Equal(t, int64(101), shot.RoundID)
		assert.Equal(t, "tee", shot.StartTerrain)
		assert.Nil(t, shot.EndLat)
		assert.Nil(t, shot.IsGIR)
		assert.Equal(t, time.Date(2020, 12, 3, 12, 20, 14, 0, time.UTC), shot.RoundStartTime)
	})

	t.Run("bare array", func(t *testing.T) {
		raw := RawEvent{Value: []byte(`[` + testShotJSON + `]`)}
		batch, err := ParseShotBatch(raw)

		require.NoError(t, err)
		assert.Equal(t, DefaultSource, batch.Source)
		assert.Len(t, batch.Shots, 1)
		assert.NotEmpty(t, batch.ID)
	})

	t.Run("source from header", func(t *testing.T) {
		raw := RawEvent{Value: []byte(`[` + testShotJSON + `]`), Headers: map[string]string{"source": "gsl"}}
		batch, err := ParseShotBatch(raw)

		require.NoError(t, err)
		assert.Equal(t, "gsl", batch.Source)
	})

	t.Run("arccos export", func(t *testing.T) {
		raw := RawEvent{Value: []byte(`{"arccos":{"rounds":[]}}`)}
		batch, err := ParseShotBatch(raw)

		require.NoError(t, err)
		assert.Empty(t, batch.Shots)
		assert.JSONEq(t, `{"rounds":[]}`, string(batch.Arccos))
	})

	t.Run("deterministic ID", func(t *testing.T) {
		raw := RawEvent{Value: []byte(`[` + testShotJSON + `]`)}
		b1, err := ParseShotBatch(raw)
		require.NoError(t, err)
		b2, err := ParseShotBatch(raw)
		require.NoError(t, err)

		assert.Equal(t, b1.ID, b2.ID)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseShotBatch(RawEvent{Value: []byte("{invalid json")})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse shot batch")
	})

	t.Run("empty batch", func(t *testing.T) {
		_, err := ParseShotBatch(RawEvent{Value: []byte(`{"shots":[]}`)})
		require.ErrorIs(t, err, ErrEmptyBatch)

		_, err = ParseShotBatch(RawEvent{Value: nil})
		require.ErrorIs(t, err, ErrEmptyBatch)
	})
}

func TestSerializeShotBatch(t *testing.T) {
	fixed := time.Date(2024, 4, 26, 12, 30, 45, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	batch := ShotBatch{
		ID:     "b-2",
		Source: "arccos",
		Shots: []ShotRecord{{
			RoundID:       1,
			HoleID:        1,
			ShotID:        1,
			ShotType:      ShotTypePutt,
			StrokesGained: Undefined(),
		}},
	}

	out, err := SerializeShotBatch(batch)
	require.NoError(t, err)

	assert.Equal(t, []byte("b-2"), out.Key)
	assert.Equal(t, "arccos", out.Headers["source"])
	assert.Equal(t, "b-2", out.Headers["batch_id"])
	assert.Equal(t, "1", out.Headers["shot_count"])
	assert.Equal(t, fixed.Format(time.RFC3339), out.Headers["processed_at"])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Value, &decoded))
	assert.Equal(t, "2024-04-26T12:30:45Z", decoded["processed_at"])
	shots := decoded["shots"].([]any)
	shot := shots[0].(map[string]any)
	assert.Nil(t, shot["strokes_gained_calculated"])
	assert.Equal(t, "Putt", shot["shot_type"])

	var roundtrip ShotBatch
	require.NoError(t, json.Unmarshal(out.Value, &roundtrip))
	assert.True(t, math.IsNaN(float64(roundtrip.Shots[0].StrokesGained)))
}
