// Package metrics exports real-time loudness readings to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cwbudde/algo-loudness/measure/analysis"
)

const namespace = "loudscan"

// Source provides the live readings and monitor counters.
type Source interface {
	Metrics() *analysis.Metrics
	Dropped() uint64
	Chunks() uint64
}

// Collector reads a Source on every scrape. Unavailable readings are
// omitted rather than exported as NaN.
type Collector struct {
	src     Source
	gauges  []*prometheus.Desc
	seq     *prometheus.Desc
	chunks  *prometheus.Desc
	dropped *prometheus.Desc
}

// NewCollector returns a collector over src. The label set is constant
// and attached to every series.
func NewCollector(src Source, labels prometheus.Labels) *Collector {
	c := &Collector{src: src}

	for _, f := range analysis.Fields() {
		c.gauges = append(c.gauges, prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", f.String()),
			"Live "+f.String()+" reading.",
			nil, labels,
		))
	}

	c.seq = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "updates_total"),
		"Number of published metric snapshots.",
		nil, labels,
	)
	c.chunks = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "monitor", "chunks_total"),
		"Chunks analysed by the monitor.",
		nil, labels,
	)
	c.dropped = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "monitor", "dropped_chunks_total"),
		"Chunks skipped because the monitor fell behind.",
		nil, labels,
	)

	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.gauges {
		ch <- d
	}

	ch <- c.seq
	ch <- c.chunks
	ch <- c.dropped
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.src.Metrics().Snapshot()

	for i, f := range analysis.Fields() {
		v, ok := snap.Value(f).Value()
		if !ok {
			continue
		}

		ch <- prometheus.MustNewConstMetric(c.gauges[i], prometheus.GaugeValue, v)
	}

	ch <- prometheus.MustNewConstMetric(c.seq, prometheus.CounterValue, float64(snap.Sequence))
	ch <- prometheus.MustNewConstMetric(c.chunks, prometheus.CounterValue, float64(c.src.Chunks()))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(c.src.Dropped()))
}

// Handler registers a collector for src on a private registry and serves
// it together with the Go runtime collectors.
func Handler(src Source, labels prometheus.Labels) (http.Handler, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		NewCollector(src, labels),
		prometheus.NewGoCollector(),
	)

	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), reg
}
