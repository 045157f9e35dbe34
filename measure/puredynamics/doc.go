// Package puredynamics computes the Pure Dynamics score, a psychoacoustic
// measure of perceived dynamic spread.
//
// The score runs a fixed pipeline over a series of 100 ms blocks:
//
//  1. init: genre factor, silence gate and loudness variance
//  2. loudness correction: Fastl pleasantness and EBU-anchored terms
//  3. preliminary transient score (offline only)
//  4. habituation towards stable levels
//  5. binaural offset from the stereo image
//  6. transient detection with a refractory mask
//  7. multi-timescale cognitive loudness
//  8. transient boost application
//  9. dynamic spread against a long-term baseline
//
// The same code serves whole tracks and live streams; a [Context]
// selects window sizes, history depth and whether global statistics of
// the whole track are available. Not enough signal yields Computed(0),
// never an error.
//
// All tuned constants live in [Model]. Any change to them must bump
// [ModelVersion].
package puredynamics
