package analysis

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-loudness/dsp/filter/weighting"
)

var (
	// ErrFormatChanged is returned when a chunk's sample rate or channel
	// count differs from the session's.
	ErrFormatChanged = errors.New("analysis: stream format changed")

	// ErrEmptyChunk is returned for chunks without a single complete frame.
	ErrEmptyChunk = errors.New("analysis: empty chunk")

	// ErrClosed is returned when a finalized session receives more input.
	ErrClosed = errors.New("analysis: session closed")

	// ErrInvalidFormat is returned for unsupported stream formats.
	ErrInvalidFormat = errors.New("analysis: invalid format")
)

func validateFormat(f Format) error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be > 0: %g", ErrInvalidFormat, f.SampleRate)
	}

	if f.Channels < 1 || f.Channels > weighting.MaxChannels {
		return fmt.Errorf("%w: channels must be in [1, %d]: %d", ErrInvalidFormat, weighting.MaxChannels, f.Channels)
	}

	return nil
}
