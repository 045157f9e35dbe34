package pcm

import (
	"sync"
	"time"

	"github.com/cwbudde/algo-loudness/measure/analysis"
)

// Live replays decoded samples as if they were arriving from a capture
// device: the write head advances with the wall clock. It implements
// analysis.LiveSource.
type Live struct {
	samples []float64
	format  analysis.Format
	frames  int64
	loop    bool
	now     func() time.Time

	mu    sync.Mutex
	start time.Time
}

// NewLive returns a stream over samples that starts now. With loop the
// material repeats forever; otherwise the head stops at the end. A nil
// clock selects time.Now.
func NewLive(samples []float64, format analysis.Format, loop bool, clock func() time.Time) *Live {
	if clock == nil {
		clock = time.Now
	}

	return &Live{
		samples: samples,
		format:  format,
		frames:  int64(len(samples) / max(1, format.Channels)),
		loop:    loop,
		now:     clock,
		start:   clock(),
	}
}

// Format returns the stream format.
func (l *Live) Format() analysis.Format { return l.format }

// Restart moves the head back to the beginning.
func (l *Live) Restart() {
	l.mu.Lock()
	l.start = l.now()
	l.mu.Unlock()
}

// Head returns the number of frames written since the start.
func (l *Live) Head() int64 {
	l.mu.Lock()
	elapsed := l.now().Sub(l.start)
	l.mu.Unlock()

	head := int64(elapsed.Seconds() * l.format.SampleRate)
	if !l.loop {
		head = min(head, l.frames)
	}

	return max(head, 0)
}

// ReadAt copies frames starting at frame into dst. Frames past the end of
// non-looping material read as silence.
func (l *Live) ReadAt(dst []float64, frame int64) (int, error) {
	ch := l.format.Channels
	n := len(dst) - len(dst)%ch

	for i := 0; i < n; i += ch {
		f := frame + int64(i/ch)

		switch {
		case l.frames == 0:
			clear(dst[i : i+ch])
		case l.loop:
			f %= l.frames
			copy(dst[i:i+ch], l.samples[f*int64(ch):(f+1)*int64(ch)])
		case f < l.frames:
			copy(dst[i:i+ch], l.samples[f*int64(ch):(f+1)*int64(ch)])
		default:
			clear(dst[i : i+ch])
		}
	}

	return n, nil
}
