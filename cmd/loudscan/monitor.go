package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-loudness/internal/metrics"
	"github.com/cwbudde/algo-loudness/internal/pcm"
	"github.com/cwbudde/algo-loudness/measure/analysis"
)

type monitorCmd struct {
	Listen   string        `short:"l" help:"Serve Prometheus metrics on this address (overrides config)"`
	NoServe  bool          `help:"Do not serve metrics"`
	Once     bool          `help:"Stop at the end of the file instead of looping"`
	Interval time.Duration `default:"1s" help:"Console print interval"`

	File string `arg:"" name:"file" help:"WAV file replayed as the live input" type:"existingfile"`
}

func (c *monitorCmd) Run(g *Globals) error {
	f, logger, err := g.setup()
	if err != nil {
		return err
	}

	samples, format, err := pcm.Decode(c.File)
	if err != nil {
		return err
	}

	loop := f.Monitor.Loop && !c.Once
	live := pcm.NewLive(samples, format, loop, nil)
	mon := analysis.NewMonitor(live, append(f.Options(), analysis.WithLogger(logger))...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listen := f.Monitor.Listen
	if c.Listen != "" {
		listen = c.Listen
	}

	if listen != "" && !c.NoServe {
		srv := serveMetrics(listen, mon, filepath.Base(c.File), logger)
		defer func() {
			shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			_ = srv.Shutdown(shutdown)
		}()
	}

	if err := mon.Start(ctx); err != nil {
		return err
	}
	defer mon.Stop()

	logger.WithFields(logrus.Fields{
		"file":        c.File,
		"sample_rate": format.SampleRate,
		"channels":    format.Channels,
		"loop":        loop,
	}).Info("monitoring")

	ticker := time.NewTicker(max(c.Interval, 100*time.Millisecond))
	defer ticker.Stop()

	duration := time.Duration(float64(len(samples)/format.Channels) / format.SampleRate * float64(time.Second))
	started := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			printSnapshot(os.Stdout, mon.Metrics().Snapshot())

			if !loop && time.Since(started) > duration+time.Second {
				return nil
			}
		}
	}
}

func serveMetrics(addr string, src metrics.Source, stream string, logger logrus.FieldLogger) *http.Server {
	handler, _ := metrics.Handler(src, prometheus.Labels{"stream": stream})

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithField("addr", addr).Info("serving metrics")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("metrics server stopped")
		}
	}()

	return srv
}

func printSnapshot(w io.Writer, snap analysis.Snapshot) {
	fmt.Fprintf(w, "M %6s  S %6s  I %6s  LRA %5s  TP %6s  DR %5s  PD %5s\n",
		format1(snap.Value(analysis.FieldMomentary)),
		format1(snap.Value(analysis.FieldShortTerm)),
		format1(snap.Value(analysis.FieldIntegrated)),
		format1(snap.Value(analysis.FieldLoudnessRange)),
		format1(snap.Value(analysis.FieldTruePeak)),
		format1(snap.Value(analysis.FieldDR14)),
		format1(snap.Value(analysis.FieldPureDynamics)),
	)
}
