package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Float is a float64 whose undefined state is NaN. It marshals NaN and
// infinities as JSON null and unmarshals null back to NaN.
type Float float64

// Undefined returns the NaN sentinel.
func Undefined() Float { return Float(math.NaN()) }

// Valid reports whether f holds a finite number.
func (f Float) Valid() bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Or returns f when it is defined, otherwise fallback.
func (f Float) Or(fallback float64) float64 {
	if f.Valid() {
		return float64(f)
	}
	return fallback
}

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(f), 'g', -1, 64), nil
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}
