package analysis

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-loudness/dsp/core"
)

// Field names one real-time metric.
type Field int

const (
	FieldMomentary Field = iota
	FieldShortTerm
	FieldIntegrated
	FieldLoudnessRange
	FieldRMS
	FieldSamplePeak
	FieldTruePeak
	FieldPSR
	FieldPLR
	FieldCrestFactor
	FieldDR14
	FieldPureDynamics

	numFields
)

var fieldNames = [numFields]string{
	"momentary_lufs",
	"short_term_lufs",
	"integrated_lufs",
	"loudness_range_lu",
	"rms_dbfs",
	"sample_peak_dbfs",
	"true_peak_dbtp",
	"psr_db",
	"plr_db",
	"crest_factor_db",
	"dr14",
	"pure_dynamics",
}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return "unknown"
	}

	return fieldNames[f]
}

// Fields returns every metric field in display order.
func Fields() []Field {
	out := make([]Field, numFields)
	for i := range out {
		out[i] = Field(i)
	}

	return out
}

// Snapshot is a copy of the real-time metrics.
type Snapshot struct {
	Values [numFields]core.Metric

	// Sequence counts publications; zero means nothing was published.
	Sequence uint64
}

// Value returns one field of the snapshot.
func (s *Snapshot) Value(f Field) core.Metric {
	if f < 0 || f >= numFields {
		return core.Unavailable()
	}

	return s.Values[f]
}

// Metrics holds the latest real-time values as atomically stored float64
// bits. One goroutine publishes; any number may read. Each value is read
// atomically, a Snapshot taken during a publication may mix two
// consecutive updates.
type Metrics struct {
	values [numFields]atomic.Uint64
	seq    atomic.Uint64
}

// NewMetrics returns metrics with every field Unavailable.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.clear()

	return m
}

// Load returns the current value of f.
func (m *Metrics) Load(f Field) core.Metric {
	if f < 0 || f >= numFields {
		return core.Unavailable()
	}

	return core.Computed(math.Float64frombits(m.values[f].Load()))
}

// Snapshot copies all fields.
func (m *Metrics) Snapshot() Snapshot {
	var s Snapshot

	s.Sequence = m.seq.Load()
	for f := range s.Values {
		s.Values[f] = m.Load(Field(f))
	}

	return s
}

// Sequence returns the number of publications so far.
func (m *Metrics) Sequence() uint64 { return m.seq.Load() }

func (m *Metrics) publish(values *[numFields]core.Metric) {
	for f, v := range values {
		m.values[f].Store(math.Float64bits(v.Or(math.NaN())))
	}

	m.seq.Add(1)
}

func (m *Metrics) clear() {
	nan := math.Float64bits(math.NaN())
	for f := range m.values {
		m.values[f].Store(nan)
	}
}
