package buffer

import "sync/atomic"

const captureDirty = 4

// Capture passes the latest block of samples from one writer goroutine to
// one reader goroutine without locking either side.
//
// Three slots rotate between the writer, the reader and a shared middle
// slot exchanged with atomic swaps, so a published block is never written
// while the reader holds it. Older unread blocks are overwritten.
type Capture struct {
	slots  [3][]float64
	seq    [3]uint64
	back   int
	front  int
	middle atomic.Uint32
	next   uint64
}

// NewCapture returns a capture buffer whose blocks hold up to size samples.
func NewCapture(size int) *Capture {
	if size < 1 {
		size = 1
	}

	c := &Capture{back: 0, front: 2}
	for i := range c.slots {
		c.slots[i] = make([]float64, 0, size)
	}

	c.middle.Store(1)

	return c
}

// Publish copies block into the writer slot and makes it visible to the
// reader. Samples beyond the configured size are dropped. Writer side only.
func (c *Capture) Publish(block []float64) {
	slot := c.slots[c.back][:0]
	if len(block) > cap(slot) {
		block = block[len(block)-cap(slot):]
	}

	c.slots[c.back] = append(slot, block...)
	c.next++
	c.seq[c.back] = c.next

	prev := c.middle.Swap(uint32(c.back) | captureDirty)
	c.back = int(prev &^ captureDirty)
}

// Latest returns the most recently published block and its sequence number.
// The slice stays valid until the next call to Latest. Reader side only.
func (c *Capture) Latest() ([]float64, uint64) {
	if c.middle.Load()&captureDirty != 0 {
		prev := c.middle.Swap(uint32(c.front))
		c.front = int(prev &^ captureDirty)
	}

	return c.slots[c.front], c.seq[c.front]
}
