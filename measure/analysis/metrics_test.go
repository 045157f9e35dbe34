package analysis

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/algo-loudness/dsp/core"
)

func computed(v float64) core.Metric { return core.Computed(v) }

func TestFieldNames(t *testing.T) {
	fields := Fields()

	assert.Len(t, fields, 12)
	assert.Equal(t, "momentary_lufs", FieldMomentary.String())
	assert.Equal(t, "pure_dynamics", FieldPureDynamics.String())
	assert.Equal(t, "unknown", Field(-1).String())
	assert.Equal(t, "unknown", Field(99).String())
}

func TestMetricsPublishAndLoad(t *testing.T) {
	m := NewMetrics()
	assert.False(t, m.Load(FieldDR14).Available())
	assert.False(t, m.Load(Field(99)).Available())

	var values [numFields]core.Metric
	values[FieldDR14] = computed(7.5)
	values[FieldIntegrated] = core.Computed(math.Inf(-1))

	m.publish(&values)

	snap := m.Snapshot()
	assert.Equal(t, uint64(1), snap.Sequence)
	assert.InDelta(t, 7.5, snap.Value(FieldDR14).Or(0), 0)
	assert.False(t, snap.Value(FieldIntegrated).Available())
	assert.False(t, snap.Value(Field(42)).Available())

	m.clear()
	assert.False(t, m.Load(FieldDR14).Available())
	assert.Equal(t, uint64(1), m.Sequence())
}

func TestMetricsConcurrentReaders(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		var values [numFields]core.Metric
		for i := range 1000 {
			for f := range values {
				values[f] = computed(float64(i))
			}

			m.publish(&values)
		}
	}()

	for range 4 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 1000 {
				snap := m.Snapshot()
				for _, v := range snap.Values {
					if x, ok := v.Value(); ok {
						assert.GreaterOrEqual(t, x, 0.0)
					}
				}
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, uint64(1000), m.Sequence())
}
