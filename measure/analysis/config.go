package analysis

import (
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-loudness/measure/puredynamics"
)

// Bounds of the numeric configuration. Values outside are clamped.
const (
	MinChunkDuration = 10 * time.Millisecond
	MaxChunkDuration = 1000 * time.Millisecond
	MinRefreshRate   = 10 * time.Millisecond
	MaxRefreshRate   = 1000 * time.Millisecond
	MinSamplePoints  = 1
	MaxSamplePoints  = 1000
	MinHistory       = 3 * time.Second
	MaxHistory       = 10 * time.Minute
	MaxCatchUp       = 64
)

// Config holds the settings of a session, a Runner or a Monitor.
type Config struct {
	// ChunkDuration is the length of one processed chunk.
	ChunkDuration time.Duration

	// RefreshRate is the streaming poll cadence. ChunkDuration never
	// exceeds it.
	RefreshRate time.Duration

	// SamplePointsPerSecond is the resolution of the waveform capture.
	SamplePointsPerSecond int

	// Workers bounds the number of tracks analysed concurrently.
	Workers int

	// History is the look-back of the realtime session.
	History time.Duration

	// CatchUp caps the chunks a Monitor processes per poll.
	CatchUp int

	// TruePeak enables the oversampling peak meter.
	TruePeak bool

	// Model overrides the Pure Dynamics constants.
	Model *puredynamics.Model

	// Caches shares coefficient and transform tables. Nil allocates
	// private ones per session.
	Caches *Caches

	Logger logrus.FieldLogger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns 200 ms chunks refreshed every 200 ms, 100 waveform
// points per second, one worker per CPU and a 60 s realtime history.
func DefaultConfig() Config {
	return Config{
		ChunkDuration:         200 * time.Millisecond,
		RefreshRate:           200 * time.Millisecond,
		SamplePointsPerSecond: 100,
		Workers:               runtime.GOMAXPROCS(0),
		History:               60 * time.Second,
		CatchUp:               4,
		TruePeak:              true,
		Logger:                logrus.StandardLogger(),
	}
}

// WithChunkDuration sets the chunk length, clamped to [10 ms, 1 s].
func WithChunkDuration(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.ChunkDuration = clampDuration(d, MinChunkDuration, MaxChunkDuration)
	}
}

// WithRefreshRate sets the poll cadence, clamped to [10 ms, 1 s].
func WithRefreshRate(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.RefreshRate = clampDuration(d, MinRefreshRate, MaxRefreshRate)
	}
}

// WithSamplePointsPerSecond sets the waveform resolution, clamped to
// [1, 1000].
func WithSamplePointsPerSecond(n int) Option {
	return func(cfg *Config) {
		cfg.SamplePointsPerSecond = max(MinSamplePoints, min(MaxSamplePoints, n))
	}
}

// WithWorkers sets the batch concurrency. Values below 1 select one worker
// per CPU.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}

		cfg.Workers = n
	}
}

// WithHistory sets the realtime look-back, clamped to [3 s, 10 min].
func WithHistory(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.History = clampDuration(d, MinHistory, MaxHistory)
	}
}

// WithCatchUp sets the per-poll chunk cap, clamped to [1, 64].
func WithCatchUp(n int) Option {
	return func(cfg *Config) {
		cfg.CatchUp = max(1, min(MaxCatchUp, n))
	}
}

// WithTruePeak toggles oversampled peak metering.
func WithTruePeak(enabled bool) Option {
	return func(cfg *Config) {
		cfg.TruePeak = enabled
	}
}

// WithModel overrides the Pure Dynamics constants.
func WithModel(m *puredynamics.Model) Option {
	return func(cfg *Config) {
		cfg.Model = m
	}
}

// WithCaches shares tables between sessions.
func WithCaches(c *Caches) Option {
	return func(cfg *Config) {
		cfg.Caches = c
	}
}

// WithLogger sets the logger. Nil keeps the current one.
func WithLogger(l logrus.FieldLogger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// ApplyOptions applies zero or more options to the default config and
// enforces ChunkDuration <= RefreshRate.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	cfg.ChunkDuration = min(cfg.ChunkDuration, cfg.RefreshRate)

	return cfg
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	return max(lo, min(hi, d))
}
