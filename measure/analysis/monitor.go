package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrRunning is returned by Start when the poll loop is already active.
var ErrRunning = errors.New("analysis: monitor already running")

// LiveSource is a stream whose write head advances in real time.
type LiveSource interface {
	Format() Format

	// Head returns the number of frames written so far.
	Head() int64

	// ReadAt copies interleaved frames starting at frame into dst and
	// returns the number of samples copied.
	ReadAt(dst []float64, frame int64) (int, error)
}

// Monitor polls a LiveSource and feeds fixed-duration chunks to a
// RealtimeSession. Each poll processes at most CatchUp chunks; an older
// backlog is dropped and the read cursor resynchronised.
type Monitor struct {
	cfg     Config
	src     LiveSource
	session *RealtimeSession
	log     logrus.FieldLogger

	mu     sync.Mutex
	cursor int64
	synced bool
	buf    []float64

	dropped atomic.Uint64
	chunks  atomic.Uint64

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor returns a Monitor reading src into a fresh RealtimeSession.
func NewMonitor(src LiveSource, opts ...Option) *Monitor {
	cfg := ApplyOptions(opts...)

	return &Monitor{
		cfg:     cfg,
		src:     src,
		session: newRealtimeSession(cfg),
		log:     cfg.Logger.WithField("component", "monitor"),
	}
}

// Session returns the session fed by the monitor.
func (m *Monitor) Session() *RealtimeSession { return m.session }

// Metrics returns the live readings of the session.
func (m *Monitor) Metrics() *Metrics { return m.session.metrics }

// Dropped returns the number of chunks skipped on resynchronisation.
func (m *Monitor) Dropped() uint64 { return m.dropped.Load() }

// Chunks returns the number of chunks processed.
func (m *Monitor) Chunks() uint64 { return m.chunks.Load() }

// Tick performs one poll and returns the number of chunks processed. The
// first poll only aligns the cursor with the write head.
func (m *Monitor) Tick(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	format := m.src.Format()
	chunkFrames := int64(format.Frames(m.cfg.ChunkDuration))
	head := m.src.Head()

	if !m.synced || head < m.cursor {
		m.cursor = head
		m.synced = true

		return 0, nil
	}

	pending := (head - m.cursor) / chunkFrames
	if limit := int64(max(1, m.cfg.CatchUp)); pending > limit {
		skip := pending - limit
		m.cursor += skip * chunkFrames
		m.dropped.Add(uint64(skip))

		m.log.WithFields(logrus.Fields{
			"dropped": skip,
			"backlog": pending,
		}).Warn("monitor fell behind, resynchronising")

		pending = limit
	}

	need := int(chunkFrames) * format.Channels
	if cap(m.buf) < need {
		m.buf = make([]float64, need)
	}

	processed := 0

	for range pending {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		n, err := m.src.ReadAt(m.buf[:need], m.cursor)
		if err != nil {
			return processed, fmt.Errorf("read at frame %d: %w", m.cursor, err)
		}

		m.cursor += chunkFrames

		if err := m.session.Process(Chunk{Samples: m.buf[:n], Format: format}); err != nil {
			if errors.Is(err, ErrEmptyChunk) {
				continue
			}

			return processed, err
		}

		processed++
		m.chunks.Add(1)
	}

	return processed, nil
}

// Start runs Tick every RefreshRate until Stop is called or ctx ends.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done != nil {
		return ErrRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go m.loop(ctx, m.done)

	return nil
}

func (m *Monitor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.cfg.RefreshRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Tick(ctx); err != nil && ctx.Err() == nil {
				m.log.WithError(err).Error("poll failed")
			}
		}
	}
}

// Stop ends the poll loop and waits for it to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}
