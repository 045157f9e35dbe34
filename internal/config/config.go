// Package config loads the loudscan TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-loudness/measure/analysis"
)

// ErrUnknownKey is returned for keys the file format does not define.
var ErrUnknownKey = errors.New("config: unknown key")

// File mirrors the configuration file.
type File struct {
	Analysis Analysis `toml:"analysis"`
	Monitor  Monitor  `toml:"monitor"`
	Log      Log      `toml:"log"`
}

// Analysis holds the session settings. Out-of-range values are clamped
// when converted to options.
type Analysis struct {
	ChunkMS         int  `toml:"chunk_ms"`
	RefreshMS       int  `toml:"refresh_ms"`
	PointsPerSecond int  `toml:"points_per_second"`
	Workers         int  `toml:"workers"`
	HistorySeconds  int  `toml:"history_seconds"`
	CatchUp         int  `toml:"catch_up"`
	TruePeak        bool `toml:"true_peak"`
}

// Monitor holds the live-monitoring settings.
type Monitor struct {
	Listen string `toml:"listen"`
	Loop   bool   `toml:"loop"`
}

// Log selects the log level and output format ("text" or "json").
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() File {
	return File{
		Analysis: Analysis{
			ChunkMS:         200,
			RefreshMS:       200,
			PointsPerSecond: 100,
			HistorySeconds:  60,
			CatchUp:         4,
			TruePeak:        true,
		},
		Monitor: Monitor{
			Listen: ":9109",
			Loop:   true,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (File, error) {
	f := Default()
	if path == "" {
		return f, nil
	}

	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return File{}, fmt.Errorf("load %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}

		return File{}, fmt.Errorf("%w in %s: %s", ErrUnknownKey, path, strings.Join(keys, ", "))
	}

	return f, nil
}

// Options converts the analysis section to session options.
func (f File) Options() []analysis.Option {
	a := f.Analysis

	return []analysis.Option{
		analysis.WithRefreshRate(time.Duration(a.RefreshMS) * time.Millisecond),
		analysis.WithChunkDuration(time.Duration(a.ChunkMS) * time.Millisecond),
		analysis.WithSamplePointsPerSecond(a.PointsPerSecond),
		analysis.WithWorkers(a.Workers),
		analysis.WithHistory(time.Duration(a.HistorySeconds) * time.Second),
		analysis.WithCatchUp(a.CatchUp),
		analysis.WithTruePeak(a.TruePeak),
	}
}

// Logger builds a logrus logger writing to w.
func (f File) Logger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(f.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	if w == nil {
		w = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)

	switch strings.ToLower(f.Log.Format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("log format %q: want text or json", f.Log.Format)
	}

	return logger, nil
}
