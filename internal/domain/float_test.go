package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat_JSON(t *testing.T) {
	tests := []struct {
		name string
		in   Float
		want string
	}{
		{"finite", Float(478.25), "478.25"},
		{"zero", Float(0), "0"},
		{"negative", Float(-1.5), "-1.5"},
		{"nan", Undefined(), "null"},
		{"inf", Float(math.Inf(1)), "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestFloat_UnmarshalNull(t *testing.T) {
	var v struct {
		A Float `json:"a"`
		B Float `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":null,"b":2.5}`), &v))

	assert.True(t, math.IsNaN(float64(v.A)))
	assert.False(t, v.A.Valid())
	assert.Equal(t, Float(2.5), v.B)
}

func TestFloat_Or(t *testing.T) {
	assert.Equal(t, 3.0, Float(3).Or(7))
	assert.Equal(t, 7.0, Undefined().Or(7))
}

func TestShotRecord_Less(t *testing.T) {
	a := ShotRecord{UserID: "a", RoundID: 1, HoleID: 1, ShotID: 2}
	b := ShotRecord{UserID: "a", RoundID: 1, HoleID: 2, ShotID: 1}
	c := ShotRecord{UserID: "b", RoundID: 0, HoleID: 0, ShotID: 0}

	assert.True(t, a.Less(&b))
	assert.True(t, b.Less(&c))
	assert.False(t, c.Less(&a))
	assert.False(t, a.Less(&a))
}
