package loudness

import (
	"math"

	"github.com/cwbudde/algo-loudness/dsp/core"
)

const (
	// HistogramMinLUFS and HistogramMaxLUFS bound the histogram.
	HistogramMinLUFS = -70.0
	HistogramMaxLUFS = 10.0

	// HistogramStep is the bin width in LU.
	HistogramStep = 0.1

	// HistogramBins covers the range inclusively.
	HistogramBins = 801

	// AbsoluteGate drops blocks at or below this level.
	AbsoluteGate = -70.0

	// RelativeGate is applied below the absolute-gated mean.
	RelativeGate = -10.0

	// RangeRelativeGate is the relative gate of the loudness range.
	RangeRelativeGate = -20.0

	rangeLowPercentile  = 0.10
	rangeHighPercentile = 0.95
)

// binPower holds the mean square at each bin centre.
var binPower = func() [HistogramBins]float64 {
	var p [HistogramBins]float64
	for i := range p {
		p[i] = core.LUFSToMeanSquare(binLUFS(i))
	}

	return p
}()

func binLUFS(i int) float64 {
	return HistogramMinLUFS + float64(i)*HistogramStep
}

func binIndex(lufs float64) int {
	i := int(math.Round((lufs - HistogramMinLUFS) / HistogramStep))

	return min(max(i, 0), HistogramBins-1)
}

// Histogram counts block loudness values in 0.1 dB bins. Values outside
// the range are clamped into the edge bins; values at or below the
// absolute gate are not counted.
type Histogram struct {
	counts [HistogramBins]int
	total  int
}

// Add counts one block of the given loudness.
func (h *Histogram) Add(lufs float64) {
	if !(lufs > AbsoluteGate) {
		return
	}

	h.counts[binIndex(lufs)]++
	h.total++
}

// Remove uncounts a block previously passed to Add.
func (h *Histogram) Remove(lufs float64) {
	if !(lufs > AbsoluteGate) {
		return
	}

	i := binIndex(lufs)
	if h.counts[i] == 0 {
		return
	}

	h.counts[i]--
	h.total--
}

// Len returns the number of counted blocks.
func (h *Histogram) Len() int { return h.total }

// Reset clears all bins.
func (h *Histogram) Reset() {
	*h = Histogram{}
}

// gatedMean returns the mean power and block count of bins at or above
// threshold.
func (h *Histogram) gatedMean(threshold float64) (float64, int) {
	sum := 0.0
	n := 0

	for i := binIndex(threshold); i < HistogramBins; i++ {
		c := h.counts[i]
		if c == 0 || binLUFS(i) < threshold {
			continue
		}

		sum += float64(c) * binPower[i]
		n += c
	}

	if n == 0 {
		return 0, 0
	}

	return sum / float64(n), n
}

func (h *Histogram) relativeThreshold(gate float64) float64 {
	mean, _ := h.gatedMean(HistogramMinLUFS)

	return core.MeanSquareToLUFS(mean) + gate
}

// Integrated applies the two-stage gate and returns the gated loudness.
// It is Unavailable when no block survives.
func (h *Histogram) Integrated() core.Metric {
	if h.total == 0 {
		return core.Unavailable()
	}

	mean, n := h.gatedMean(h.relativeThreshold(RelativeGate))
	if n == 0 {
		return core.Unavailable()
	}

	return core.FromDB(core.MeanSquareToLUFS(mean))
}

// Range returns the loudness range of the counted short-term values: the
// spread between the 10th and 95th percentile after a relative gate 20 LU
// below the mean. It is Unavailable without data.
func (h *Histogram) Range() core.Metric {
	if h.total == 0 {
		return core.Unavailable()
	}

	thr := h.relativeThreshold(RangeRelativeGate)
	start := binIndex(thr)
	if binLUFS(start) < thr {
		start++
	}

	n := 0
	for i := start; i < HistogramBins; i++ {
		n += h.counts[i]
	}

	if n == 0 {
		return core.Unavailable()
	}

	lowIdx := int(float64(n-1)*rangeLowPercentile + 0.5)
	highIdx := int(float64(n-1)*rangeHighPercentile + 0.5)

	var low, high float64
	seen := 0
	haveLow := false

	for i := start; i < HistogramBins; i++ {
		seen += h.counts[i]
		if !haveLow && seen > lowIdx {
			low = binLUFS(i)
			haveLow = true
		}

		if seen > highIdx {
			high = binLUFS(i)
			break
		}
	}

	return core.Computed(high - low)
}
