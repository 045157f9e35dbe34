package fft

import (
	"math"
	"math/bits"
	"sync"
)

// directMax is the largest prime size evaluated as a direct DFT.
const directMax = 31

// Cache owns the bit-reversal, twiddle and chirp tables keyed by size.
// Tables are computed on first use and never change afterwards. A Cache
// may be shared between goroutines; the transforms themselves allocate
// their scratch space per call.
type Cache struct {
	mu        sync.Mutex
	pow2      map[int]*pow2Tables
	twiddles  map[int][]complex128
	bluestein map[int]*chirpTables
	builds    int
}

type pow2Tables struct {
	rev []int
	// w[k] = exp(-2 pi i k / n), k < n.
	w []complex128
}

type chirpTables struct {
	m     int
	chirp []complex128
	// Transformed conjugate chirp, length m.
	kernel []complex128
}

// NewCache returns an empty table cache.
func NewCache() *Cache {
	return &Cache{
		pow2:      make(map[int]*pow2Tables),
		twiddles:  make(map[int][]complex128),
		bluestein: make(map[int]*chirpTables),
	}
}

// Builds returns how many tables have been computed so far.
func (c *Cache) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.builds
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func (c *Cache) pow2Tables(n int) *pow2Tables {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.pow2[n]; ok {
		return t
	}

	shift := bits.UintSize - bits.TrailingZeros(uint(n))
	t := &pow2Tables{
		rev: make([]int, n),
		w:   rootsOfUnity(n),
	}

	for i := range t.rev {
		t.rev[i] = int(bits.Reverse(uint(i)) >> shift)
	}

	c.pow2[n] = t
	c.builds++

	return t
}

func (c *Cache) twiddleTable(n int) []complex128 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if w, ok := c.twiddles[n]; ok {
		return w
	}

	w := rootsOfUnity(n)
	c.twiddles[n] = w
	c.builds++

	return w
}

func (c *Cache) chirpTables(n int) *chirpTables {
	c.mu.Lock()
	t, ok := c.bluestein[n]
	c.mu.Unlock()

	if ok {
		return t
	}

	m := 1
	for m < 2*n-1 {
		m <<= 1
	}

	t = &chirpTables{
		m:      m,
		chirp:  make([]complex128, n),
		kernel: make([]complex128, m),
	}

	// k^2 mod 2n keeps the phase argument small for large k.
	n2 := uint64(2 * n)
	for k := range n {
		kk := uint64(k) * uint64(k) % n2
		phase := -math.Pi * float64(kk) / float64(n)
		t.chirp[k] = complex(math.Cos(phase), math.Sin(phase))
	}

	t.kernel[0] = conj(t.chirp[0])
	for k := 1; k < n; k++ {
		v := conj(t.chirp[k])
		t.kernel[k] = v
		t.kernel[m-k] = v
	}

	c.ForwardPow2(t.kernel)

	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.bluestein[n]; ok {
		return prev
	}

	c.bluestein[n] = t
	c.builds++

	return t
}

func rootsOfUnity(n int) []complex128 {
	w := make([]complex128, n)
	for k := range w {
		phase := -2 * math.Pi * float64(k) / float64(n)
		w[k] = complex(math.Cos(phase), math.Sin(phase))
	}

	return w
}

func conj(z complex128) complex128 {
	return complex(real(z), -imag(z))
}
