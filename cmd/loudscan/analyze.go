package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cwbudde/algo-loudness/internal/pcm"
	"github.com/cwbudde/algo-loudness/measure/analysis"
)

type analyzeCmd struct {
	JSON    bool          `help:"Print results as JSON"`
	Album   bool          `help:"Append per-album averages"`
	Workers int           `short:"w" help:"Tracks analysed concurrently (0 uses the config value)"`
	Chunk   time.Duration `help:"Chunk duration override, e.g. 100ms"`

	Files []string `arg:"" name:"files" help:"WAV files to analyse" type:"existingfile"`
}

func (c *analyzeCmd) Run(g *Globals) error {
	f, logger, err := g.setup()
	if err != nil {
		return err
	}

	opts := append(f.Options(), analysis.WithLogger(logger))
	if c.Workers > 0 {
		opts = append(opts, analysis.WithWorkers(c.Workers))
	}

	if c.Chunk > 0 {
		opts = append(opts,
			analysis.WithRefreshRate(max(c.Chunk, time.Duration(f.Analysis.RefreshMS)*time.Millisecond)),
			analysis.WithChunkDuration(c.Chunk),
		)
	}

	paths := make([]string, len(c.Files))
	for i, p := range c.Files {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}

		paths[i] = p
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := analysis.NewRunner(pcm.OpenSource, opts...)
	logger.WithField("workers", runner.Config().Workers).Debugf("analysing %d files", len(paths))

	results, runErr := runner.Run(ctx, paths)

	var albums []analysis.Album
	if c.Album {
		albums = analysis.Albums(results)
	}

	if c.JSON {
		err = writeJSON(os.Stdout, results, albums)
	} else {
		err = writeTable(os.Stdout, results, albums)
	}

	if err != nil {
		return err
	}

	return runErr
}
