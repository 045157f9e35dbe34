package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-loudness/dsp/buffer"
)

// Source delivers the decoded samples of one track.
type Source interface {
	Format() Format
	Metadata() Metadata

	// Read fills dst with interleaved samples of whole frames and returns
	// the number of samples written. It returns io.EOF once exhausted.
	Read(dst []float64) (int, error)

	Close() error
}

// Opener opens a track for analysis.
type Opener func(path string) (Source, error)

// Runner analyses tracks with bounded concurrency. Each track is processed
// sequentially by one worker.
type Runner struct {
	cfg  Config
	open Opener

	mu    sync.Mutex
	pools map[int]*buffer.Pool
}

// NewRunner returns a Runner opening tracks with open. All tracks share
// one set of caches.
func NewRunner(open Opener, opts ...Option) *Runner {
	cfg := ApplyOptions(opts...)
	cfg.caches()

	return &Runner{cfg: cfg, open: open, pools: make(map[int]*buffer.Pool)}
}

// pool returns the chunk buffer pool for buffers of n samples.
func (r *Runner) pool(n int) *buffer.Pool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pools[n]
	if !ok {
		p = buffer.NewPool(n)
		r.pools[n] = p
	}

	return p
}

// Config returns the runner configuration.
func (r *Runner) Config() Config { return r.cfg }

// Run analyses paths and returns the successful results in input order.
// A failing track is logged and skipped; its error is part of the joined
// error returned alongside the results. Cancelling ctx stops all workers
// between chunks.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	errs := make([]error, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup

	for range max(1, min(r.cfg.Workers, len(paths))) {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobs {
				results[i], errs[i] = r.analyzePath(ctx, paths[i])
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(paths); j++ {
				errs[j] = ctx.Err()
			}

			break feed
		}
	}

	close(jobs)
	wg.Wait()

	out := make([]Result, 0, len(paths))

	var failed []error

	for i, err := range errs {
		if err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", paths[i], err))
			continue
		}

		out = append(out, results[i])
	}

	return out, errors.Join(failed...)
}

func (r *Runner) analyzePath(ctx context.Context, path string) (Result, error) {
	log := r.cfg.Logger.WithField("track", path)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	src, err := r.open(path)
	if err != nil {
		log.WithError(err).Error("open failed")
		return Result{}, err
	}

	defer func() {
		if cerr := src.Close(); cerr != nil {
			log.WithError(cerr).Warn("close failed")
		}
	}()

	res, err := r.Analyze(ctx, src)
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			log.WithError(err).Error("analysis failed")
		}

		return Result{}, err
	}

	log.WithFields(logrus.Fields{
		"integrated": res.Integrated.String(),
		"dr14":       res.DR14.String(),
		"pd":         res.PureDynamics.String(),
	}).Debug("track analysed")

	return res, nil
}

// Analyze runs one source to completion in chunks of the configured
// duration. The source is not closed.
func (r *Runner) Analyze(ctx context.Context, src Source) (Result, error) {
	format := src.Format()

	session, err := newTrackSession(format, src.Metadata(), r.cfg)
	if err != nil {
		return Result{}, err
	}

	pool := r.pool(format.Frames(r.cfg.ChunkDuration) * format.Channels)
	buf := pool.Get()
	defer pool.Put(buf)

	chunks := 0

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		n, err := src.Read(buf)
		if n > 0 {
			perr := session.Process(Chunk{Samples: buf[:n], Format: format})
			if perr != nil && !errors.Is(perr, ErrEmptyChunk) {
				return Result{}, perr
			}

			chunks++
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return Result{}, fmt.Errorf("read chunk %d: %w", chunks, err)
		}
	}

	return session.Finalize(), nil
}
