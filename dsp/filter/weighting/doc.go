// Package weighting provides the ITU-R BS.1770 K-weighting stage.
//
// K-weighting is two cascaded second-order sections per channel: a
// high-shelf pre-filter (about +4 dB above 1.68 kHz, modelling the
// acoustic effect of the head) and the RLB high-pass (about 38 Hz).
// Coefficients are solved per sample rate with the bilinear transform of
// the analog prototypes and memoised in an explicit [Cache].
//
// [Filter] applies the cascade to interleaved PCM and reduces every frame
// to one channel-weighted power value using [ChannelWeights]. It mutates
// its state in strict sample order and is not safe for concurrent use.
package weighting
