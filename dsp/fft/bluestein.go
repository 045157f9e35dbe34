package fft

// bluesteinTransform evaluates a prime-length DFT as a circular
// convolution with a chirp, carried out on the power-of-two path:
//
//	X[k] = c[k] * sum_j (x[j] c[j]) conj(c[k-j]),  c[k] = exp(-i pi k^2 / n)
func (c *Cache) bluesteinTransform(dst, src []complex128, stride int) {
	n := len(dst)
	t := c.chirpTables(n)

	a := make([]complex128, t.m)
	for k := range n {
		a[k] = src[k*stride] * t.chirp[k]
	}

	c.ForwardPow2(a)

	// Inverse transform through conjugation: ifft(y) = conj(fft(conj(y))) / m.
	for i := range a {
		a[i] = conj(a[i] * t.kernel[i])
	}

	c.ForwardPow2(a)

	scale := 1 / float64(t.m)
	for k := range n {
		v := conj(a[k])
		dst[k] = complex(real(v)*scale, imag(v)*scale) * t.chirp[k]
	}
}
