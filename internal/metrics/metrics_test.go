package metrics

import (
	"io"
	"math"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-loudness/measure/analysis"
)

type stubSource struct {
	*analysis.RealtimeSession
	chunks, dropped uint64
}

func (s *stubSource) Chunks() uint64  { return s.chunks }
func (s *stubSource) Dropped() uint64 { return s.dropped }

func newStub() *stubSource {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &stubSource{RealtimeSession: analysis.NewRealtimeSession(analysis.WithLogger(logger))}
}

func sine(sr float64, frames int, amp float64) []float64 {
	out := make([]float64, frames)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*1000*float64(i)/sr)
	}

	return out
}

func gather(t *testing.T, src Source) map[string]*dto.MetricFamily {
	t.Helper()

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(NewCollector(src, prometheus.Labels{"stream": "test"})))

	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		out[mf.GetName()] = mf
	}

	return out
}

func TestCollectorOmitsUnavailableReadings(t *testing.T) {
	families := gather(t, newStub())

	assert.NotContains(t, families, "loudscan_momentary_lufs")
	require.Contains(t, families, "loudscan_updates_total")
	assert.Zero(t, families["loudscan_updates_total"].GetMetric()[0].GetCounter().GetValue())
}

func TestCollectorExportsLiveReadings(t *testing.T) {
	src := newStub()
	src.chunks, src.dropped = 7, 2

	format := analysis.Format{SampleRate: 48000, Channels: 1}
	samples := sine(format.SampleRate, 48000, 0.5)

	for off := 0; off < len(samples); off += 9600 {
		require.NoError(t, src.Process(analysis.Chunk{Samples: samples[off : off+9600], Format: format}))
	}

	families := gather(t, src)

	peak := families["loudscan_sample_peak_dbfs"]
	require.NotNil(t, peak)
	assert.InDelta(t, -6.02, peak.GetMetric()[0].GetGauge().GetValue(), 0.05)
	assert.Equal(t, "stream", peak.GetMetric()[0].GetLabel()[0].GetName())

	require.Contains(t, families, "loudscan_momentary_lufs")
	assert.InDelta(t, -9.03, families["loudscan_momentary_lufs"].GetMetric()[0].GetGauge().GetValue(), 0.2)

	assert.InDelta(t, 5, families["loudscan_updates_total"].GetMetric()[0].GetCounter().GetValue(), 0)
	assert.InDelta(t, 7, families["loudscan_monitor_chunks_total"].GetMetric()[0].GetCounter().GetValue(), 0)
	assert.InDelta(t, 2, families["loudscan_monitor_dropped_chunks_total"].GetMetric()[0].GetCounter().GetValue(), 0)
}

func TestHandlerServesTextFormat(t *testing.T) {
	src := newStub()
	format := analysis.Format{SampleRate: 48000, Channels: 1}
	require.NoError(t, src.Process(analysis.Chunk{Samples: sine(48000, 9600, 0.25), Format: format}))

	handler, _ := Handler(src, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "loudscan_sample_peak_dbfs")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
