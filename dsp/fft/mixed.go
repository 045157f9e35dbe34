package fft

// Forward transforms x in place for any length. Power-of-two lengths take
// the radix-4 path; lengths <= 1 are left untouched.
func (c *Cache) Forward(x []complex128) {
	n := len(x)
	if n <= 1 {
		return
	}

	if IsPowerOfTwo(n) {
		c.ForwardPow2(x)
		return
	}

	out := make([]complex128, n)
	c.transform(out, x, 1)
	copy(x, out)
}

// transform writes the DFT of the strided sequence src[0], src[stride], ...
// of length len(dst) into dst.
func (c *Cache) transform(dst, src []complex128, stride int) {
	n := len(dst)

	if n == 1 {
		dst[0] = src[0]
		return
	}

	if IsPowerOfTwo(n) {
		for i := range dst {
			dst[i] = src[i*stride]
		}

		c.ForwardPow2(dst)

		return
	}

	p := smallestFactor(n)
	if p == n {
		if n <= directMax {
			c.direct(dst, src, stride)
		} else {
			c.bluesteinTransform(dst, src, stride)
		}

		return
	}

	// Decimate in time: sub-transform r holds the residues r (mod p).
	m := n / p
	for r := range p {
		c.transform(dst[r*m:(r+1)*m], src[r*stride:], stride*p)
	}

	w := c.twiddleTable(n)
	tmp := make([]complex128, p)

	for k := range m {
		for r := range p {
			tmp[r] = dst[r*m+k]
		}

		for s := range p {
			kk := k + s*m

			var acc complex128
			for r := range p {
				acc += tmp[r] * w[(r*kk)%n]
			}

			dst[kk] = acc
		}
	}
}

// direct evaluates the DFT by definition.
func (c *Cache) direct(dst, src []complex128, stride int) {
	n := len(dst)
	w := c.twiddleTable(n)

	for k := range n {
		var acc complex128
		for j := range n {
			acc += src[j*stride] * w[(j*k)%n]
		}

		dst[k] = acc
	}
}

func smallestFactor(n int) int {
	if n%2 == 0 {
		return 2
	}

	for f := 3; f*f <= n; f += 2 {
		if n%f == 0 {
			return f
		}
	}

	return n
}
