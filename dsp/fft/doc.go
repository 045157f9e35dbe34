// Package fft implements the forward discrete Fourier transform used by the
// spectral loudness model.
//
// Power-of-two sizes run an in-place radix-4 decimation-in-time transform
// with a single radix-2 stage when log2(n) is odd. Other sizes are split
// recursively by their smallest prime factor; prime sizes above a small
// threshold use Bluestein's chirp-z algorithm on a power-of-two
// convolution. All size-dependent tables live in an explicit [Cache] that
// an analysis session owns.
//
// Transforms are unscaled: X[k] = sum x[n] exp(-2 pi i k n / N).
package fft
