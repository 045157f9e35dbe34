package analysis

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// memSource serves a fixed interleaved buffer.
type memSource struct {
	format  Format
	meta    Metadata
	samples []float64
	pos     int
	closed  bool
	readErr error
}

func newMemSource(samples []float64, format Format, meta Metadata) *memSource {
	return &memSource{format: format, meta: meta, samples: samples}
}

func (s *memSource) Format() Format     { return s.format }
func (s *memSource) Metadata() Metadata { return s.meta }

func (s *memSource) Read(dst []float64) (int, error) {
	if s.readErr != nil {
		return 0, s.readErr
	}

	if s.pos >= len(s.samples) {
		return 0, io.EOF
	}

	n := copy(dst, s.samples[s.pos:])
	n -= n % s.format.Channels
	s.pos += n

	return n, nil
}

func (s *memSource) Close() error {
	s.closed = true
	return nil
}

// liveStub exposes a generated signal behind a manually advanced head.
type liveStub struct {
	mu     sync.Mutex
	format Format
	head   int64
	signal func(frame int64, ch int) float64
}

func (l *liveStub) Format() Format { return l.format }

func (l *liveStub) Head() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.head
}

func (l *liveStub) advance(frames int64) {
	l.mu.Lock()
	l.head += frames
	l.mu.Unlock()
}

func (l *liveStub) rewind() {
	l.mu.Lock()
	l.head = 0
	l.mu.Unlock()
}

func (l *liveStub) ReadAt(dst []float64, frame int64) (int, error) {
	ch := l.format.Channels
	frames := len(dst) / ch

	for i := range frames {
		for c := range ch {
			dst[i*ch+c] = l.signal(frame+int64(i), c)
		}
	}

	return frames * ch, nil
}

func quietLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	return logger, hook
}
