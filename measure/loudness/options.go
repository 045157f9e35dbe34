package loudness

import (
	"github.com/cwbudde/algo-loudness/dsp/core"
	"github.com/cwbudde/algo-loudness/dsp/filter/weighting"
)

// MeterConfig defines configuration for the loudness meter.
type MeterConfig struct {
	core.ProcessorConfig

	// Window is the integration look-back in steps; 0 integrates the
	// whole stream.
	Window int

	// Coefficients supplies shared K-weighting designs. Nil designs
	// privately.
	Coefficients *weighting.Cache
}

// MeterOption mutates a MeterConfig.
type MeterOption func(*MeterConfig)

// DefaultMeterConfig returns 48 kHz stereo whole-stream integration.
func DefaultMeterConfig() MeterConfig {
	return MeterConfig{
		ProcessorConfig: core.DefaultProcessorConfig(),
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) MeterOption {
	return func(cfg *MeterConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithChannels sets the number of interleaved channels. Counts outside
// [1, weighting.MaxChannels] are ignored.
func WithChannels(channels int) MeterOption {
	return func(cfg *MeterConfig) {
		if channels > 0 && channels <= weighting.MaxChannels {
			cfg.Channels = channels
		}
	}
}

// WithWindow bounds integration to the given number of 100 ms steps.
func WithWindow(steps int) MeterOption {
	return func(cfg *MeterConfig) {
		if steps >= 0 {
			cfg.Window = steps
		}
	}
}

// WithCoefficientCache shares K-weighting designs between meters.
func WithCoefficientCache(c *weighting.Cache) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.Coefficients = c
	}
}

// ApplyMeterOptions applies zero or more options to the default config.
func ApplyMeterOptions(opts ...MeterOption) MeterConfig {
	cfg := DefaultMeterConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
