package core

// ProcessorConfig is the stream format a processor is bound to. A change of
// either field requires a fresh processor.
type ProcessorConfig struct {
	SampleRate float64
	Channels   int
}

// DefaultProcessorConfig returns 48 kHz stereo.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{SampleRate: 48000, Channels: 2}
}

// Frames returns the number of frames in the given seconds, rounded and
// at least 1.
func (c ProcessorConfig) Frames(seconds float64) int {
	return max(1, int(seconds*c.SampleRate+0.5))
}

// EnsureLen returns buf resliced to n, reallocating only when its capacity
// is too small.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}

	if cap(buf) >= n {
		return buf[:n]
	}

	return make([]float64, n)
}
