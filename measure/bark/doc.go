// Package bark implements a critical-band model of auditory perception.
//
// Spectra from [fft.Cache.PowerSpectrum] are folded into 25 bands on the
// Traunmüller Bark scale with a Gaussian spreading kernel. From the band
// powers the package derives Zwicker specific loudness, a simultaneous
// masking ratio, harmonic complexity, spectral shape descriptors and a
// continuous genre factor.
//
// Band powers are linear mean-square values relative to digital full
// scale; a full-scale sine maps to [FullScaleSPL].
package bark
