package arccos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Arccos exports are loosely typed: numbers may arrive quoted, booleans as
// "T"/"F" or 1/0, and absent values as null, "" or "None". The types below
// accept all of these.

func isAbsent(b []byte) bool {
	switch string(bytes.TrimSpace(b)) {
	case "null", `""`, `"None"`, `"NaN"`, `"nan"`:
		return true
	}
	return false
}

func unquote(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '"' {
		return string(b), false
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// number is a possibly absent numeric field.
type number struct {
	v  float64
	ok bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	*n = number{}
	if isAbsent(b) {
		return nil
	}
	s, _ := unquote(b)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", b)
	}
	if math.IsNaN(v) {
		return nil
	}
	*n = number{v: v, ok: true}
	return nil
}

func (n number) asInt() int { return int(n.v) }

func (n number) ptr() *float64 {
	if !n.ok {
		return nil
	}
	v := n.v
	return &v
}

// flag is a possibly absent boolean field.
type flag struct {
	v  bool
	ok bool
}

func (f *flag) UnmarshalJSON(b []byte) error {
	*f = flag{}
	if isAbsent(b) {
		return nil
	}
	s, _ := unquote(b)
	switch s {
	case "T", "t", "true", "True", "1", "1.0":
		*f = flag{v: true, ok: true}
	case "F", "f", "false", "False", "0", "0.0":
		*f = flag{v: false, ok: true}
	default:
		return fmt.Errorf("invalid boolean %s", b)
	}
	return nil
}

func (f flag) ptr() *bool {
	if !f.ok {
		return nil
	}
	v := f.v
	return &v
}

// text is a string field that may arrive as a bare number.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	*t = ""
	if isAbsent(b) {
		return nil
	}
	s, quoted := unquote(b)
	if !quoted {
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("invalid text %s", b)
		}
	}
	*t = text(s)
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// timestamp is a possibly absent time. Values without a zone are UTC.
type timestamp struct {
	time.Time
}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	t.Time = time.Time{}
	if isAbsent(b) {
		return nil
	}
	s, quoted := unquote(b)
	if !quoted {
		return fmt.Errorf("invalid time %s", b)
	}
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid time %q", s)
}
