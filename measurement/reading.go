// Package measurement defines air quality readings as served by the air-monitoring
// backend and the aggregations the dashboard computes over them.
package measurement

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the layout of Reading.Date.
	DateLayout = "2006-01-02"

	// TimeLayout is the layout of Reading.Time, e.g. "03:04 PM".
	TimeLayout = "03:04 PM"
)

// Reading is one sensor record. A nil value field means the backend didn't send a
// usable value for it; such fields are skipped by every aggregation in this package.
type Reading struct {
	ID          string    `json:"_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Temperature *float64  `json:"temperature,omitempty"`
	Humidity    *float64  `json:"humidity,omitempty"`
	Dust        *float64  `json:"dust,omitempty"`

	// Display strings derived from Timestamp. See WithDisplayTime.
	Date string `json:"date,omitempty"`
	Time string `json:"time,omitempty"`
}

// Value returns the value of the given type and whether the reading has one.
func (r Reading) Value(t Type) (float64, bool) {
	var p *float64
	switch t {
	case Temperature:
		p = r.Temperature
	case Humidity:
		p = r.Humidity
	case Dust:
		p = r.Dust
	}

	if p == nil {
		return 0, false
	}
	return *p, true
}

// ValueMap returns all values present in the reading.
func (r Reading) ValueMap() map[Type]float64 {
	m := make(map[Type]float64)
	for _, t := range Types() {
		if v, ok := r.Value(t); ok {
			m[t] = v
		}
	}
	return m
}

// WithDisplayTime returns a copy of r with Date and Time derived from Timestamp in loc.
// A zero Timestamp yields empty display strings.
func (r Reading) WithDisplayTime(loc *time.Location) Reading {
	if r.Timestamp.IsZero() {
		r.Date, r.Time = "", ""
		return r
	}
	if loc == nil {
		loc = time.UTC
	}

	local := r.Timestamp.In(loc)
	r.Date = local.Format(DateLayout)
	r.Time = local.Format(TimeLayout)
	return r
}

func (r Reading) String() string {
	var parts []string
	for _, t := range Types() {
		if v, ok := r.Value(t); ok {
			parts = append(parts, FormatValue(v, t))
		}
	}
	return fmt.Sprintf("%s %s [%s]", r.ID, r.Timestamp.Format(time.RFC3339), strings.Join(parts, " "))
}

// FormatValue formats v in its shortest decimal form followed by the unit of t.
func FormatValue(v float64, t Type) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + t.Unit()
}

// UnmarshalJSON decodes a reading without failing on bad value fields. Values may be
// JSON numbers or numeric strings; anything else, including NaN and infinities,
// decodes as absent. The timestamp may be an RFC 3339 string or epoch milliseconds.
func (r *Reading) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID          json.RawMessage `json:"_id"`
		Timestamp   json.RawMessage `json:"timestamp"`
		Temperature json.RawMessage `json:"temperature"`
		Humidity    json.RawMessage `json:"humidity"`
		Dust        json.RawMessage `json:"dust"`
		Date        json.RawMessage `json:"date"`
		Time        json.RawMessage `json:"time"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("measurement: decoding reading: %w", err)
	}

	*r = Reading{
		ID:          rawString(raw.ID),
		Timestamp:   rawTimestamp(raw.Timestamp),
		Temperature: rawNumber(raw.Temperature),
		Humidity:    rawNumber(raw.Humidity),
		Dust:        rawNumber(raw.Dust),
		Date:        rawString(raw.Date),
		Time:        rawString(raw.Time),
	}
	return nil
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func rawNumber(raw json.RawMessage) *float64 {
	// Unmarshaling null into a float64 is a no-op, not an error.
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}

		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func rawTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}
		}
		return ts.UTC()
	}

	var millis float64
	if err := json.Unmarshal(raw, &millis); err == nil {
		return time.UnixMilli(int64(millis)).UTC()
	}

	return time.Time{}
}
