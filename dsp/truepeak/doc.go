// Package truepeak estimates inter-sample peaks by polyphase oversampling.
//
// The interpolation filter is a Kaiser-windowed sinc split into one
// sub-filter per output phase. Each phase is normalised to unit DC gain so
// that a constant input is reproduced exactly at every oversampled
// position.
package truepeak
