package buffer

// Ring is a fixed-capacity circular buffer. Pushing into a full ring
// evicts the oldest element. Index 0 is the oldest element.
type Ring[T any] struct {
	data  []T
	start int
	size  int
}

// NewRing returns an empty ring holding at most capacity elements.
// A capacity below 1 is raised to 1.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}

	return &Ring[T]{data: make([]T, capacity)}
}

// Len returns the number of stored elements.
func (r *Ring[T]) Len() int { return r.size }

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.data) }

// Full reports whether the next Push evicts.
func (r *Ring[T]) Full() bool { return r.size == len(r.data) }

// Push appends v, returning the evicted element and true when the ring was full.
func (r *Ring[T]) Push(v T) (evicted T, ok bool) {
	if r.size < len(r.data) {
		r.data[(r.start+r.size)%len(r.data)] = v
		r.size++

		return evicted, false
	}

	evicted = r.data[r.start]
	r.data[r.start] = v
	r.start = (r.start + 1) % len(r.data)

	return evicted, true
}

// At returns the i-th element, 0 being the oldest. It panics when i is out of range.
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.size {
		panic("buffer: ring index out of range")
	}

	return r.data[(r.start+i)%len(r.data)]
}

// Newest returns the most recently pushed element.
func (r *Ring[T]) Newest() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}

	return r.At(r.size - 1), true
}

// Oldest returns the element that would be evicted next.
func (r *Ring[T]) Oldest() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}

	return r.data[r.start], true
}

// Trim keeps only the n newest elements. Trim(0) empties the ring.
func (r *Ring[T]) Trim(n int) {
	if n < 0 {
		n = 0
	}

	if n >= r.size {
		return
	}

	drop := r.size - n

	var zero T
	for i := range drop {
		r.data[(r.start+i)%len(r.data)] = zero
	}

	r.start = (r.start + drop) % len(r.data)
	r.size = n
}

// Reset empties the ring without releasing storage.
func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.data {
		r.data[i] = zero
	}

	r.start = 0
	r.size = 0
}

// AppendTo appends the stored elements, oldest first, to dst.
func (r *Ring[T]) AppendTo(dst []T) []T {
	for i := range r.size {
		dst = append(dst, r.data[(r.start+i)%len(r.data)])
	}

	return dst
}

// Values returns a copy of the stored elements, oldest first.
func (r *Ring[T]) Values() []T {
	return r.AppendTo(make([]T, 0, r.size))
}

// Do calls fn for every element, oldest first.
func (r *Ring[T]) Do(fn func(i int, v T)) {
	for i := range r.size {
		fn(i, r.data[(r.start+i)%len(r.data)])
	}
}
