package weighting

// Channel gains from BS.1770: front and centre channels 1.0, surrounds
// 1.41 (+1.5 dB), LFE excluded.
const (
	gainFront    = 1.0
	gainSurround = 1.41
	gainLFE      = 0.0

	// MaxChannels is the largest layout with a defined weight table.
	MaxChannels = 24
)

// ChannelWeights returns the loudness weight for each channel of an
// n-channel interleaved layout in SMPTE order (L R C LFE Ls Rs ...).
//
// Mono to quad are unweighted. From five channels on, index 3 is LFE when
// the layout carries one (6 channels and up) and everything behind the
// front triplet is a surround. Layouts of 12 channels and more (e.g. 22.2)
// carry a second LFE at index 9. Counts above MaxChannels are clamped.
func ChannelWeights(n int) []float64 {
	if n < 1 {
		return nil
	}

	if n > MaxChannels {
		n = MaxChannels
	}

	w := make([]float64, n)
	for i := range w {
		w[i] = gainFront
	}

	if n <= 4 {
		return w
	}

	if n == 5 {
		// L R C Ls Rs without LFE.
		w[3], w[4] = gainSurround, gainSurround
		return w
	}

	for i := 4; i < n; i++ {
		w[i] = gainSurround
	}

	w[3] = gainLFE
	if n >= 12 {
		w[9] = gainLFE
	}

	return w
}
