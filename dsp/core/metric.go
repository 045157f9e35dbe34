package core

import (
	"encoding/json"
	"math"
	"strconv"
)

// Metric is a scalar measurement that is either Computed or Unavailable.
//
// Loudness-family values are Unavailable when nothing survives gating,
// while dynamics values are Computed(0) when there is not enough signal.
// Keeping the two apart avoids overloading -Inf and 0.
type Metric struct {
	value float64
	ok    bool
}

// Computed wraps a finite measurement.
func Computed(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{}
	}

	return Metric{value: v, ok: true}
}

// Unavailable reports "not yet computable".
func Unavailable() Metric {
	return Metric{}
}

// FromDB maps -Inf/NaN to Unavailable and anything else to Computed.
func FromDB(db float64) Metric {
	return Computed(db)
}

// Available reports whether the metric holds a value.
func (m Metric) Available() bool { return m.ok }

// Value returns the measurement and whether it is available.
func (m Metric) Value() (float64, bool) { return m.value, m.ok }

// Or returns the value, or fallback when unavailable.
func (m Metric) Or(fallback float64) float64 {
	if !m.ok {
		return fallback
	}

	return m.value
}

// DB returns the value with Unavailable mapped to -Inf.
func (m Metric) DB() float64 {
	return m.Or(math.Inf(-1))
}

// Sub returns m - o, Unavailable if either side is.
func (m Metric) Sub(o Metric) Metric {
	if !m.ok || !o.ok {
		return Unavailable()
	}

	return Computed(m.value - o.value)
}

// String formats the metric with one decimal, or "n/a".
func (m Metric) String() string {
	if !m.ok {
		return "n/a"
	}

	return strconv.FormatFloat(m.value, 'f', 1, 64)
}

// MarshalJSON encodes Unavailable as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.ok {
		return []byte("null"), nil
	}

	return json.Marshal(m.value)
}

// UnmarshalJSON decodes null as Unavailable.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Unavailable()
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	*m = Computed(v)

	return nil
}
