// Package biquad provides the second-order IIR runtime used by the
// K-weighting stage.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Sections can be cascaded
// via [Chain]. Coefficient design lives in dsp/filter/weighting.
package biquad
