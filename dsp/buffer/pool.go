package buffer

import "sync"

// Pool recycles interleaved sample slices between chunk decodes to reduce
// GC pressure in long batch runs.
type Pool struct {
	size int
	pool sync.Pool
}

// NewPool returns a Pool handing out slices of length size.
func NewPool(size int) *Pool {
	if size < 0 {
		size = 0
	}

	p := &Pool{size: size}
	p.pool.New = func() any {
		s := make([]float64, size)
		return &s
	}

	return p
}

// Size returns the slice length handed out by Get.
func (p *Pool) Size() int { return p.size }

// Get returns a zeroed slice of length Size(). Return it with Put.
func (p *Pool) Get() []float64 {
	s := *(p.pool.Get().(*[]float64))
	s = s[:p.size]

	for i := range s {
		s[i] = 0
	}

	return s
}

// Put returns s to the pool. Slices of the wrong capacity are discarded.
func (p *Pool) Put(s []float64) {
	if cap(s) < p.size {
		return
	}

	s = s[:p.size]
	p.pool.Put(&s)
}
