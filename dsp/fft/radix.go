package fft

import "math/bits"

// ForwardPow2 transforms x in place. Inputs whose length is <= 1 or not a
// power of two are left untouched.
func (c *Cache) ForwardPow2(x []complex128) {
	n := len(x)
	if n <= 1 || !IsPowerOfTwo(n) {
		return
	}

	t := c.pow2Tables(n)

	for i, j := range t.rev {
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}

	size := 4
	if bits.TrailingZeros(uint(n))%2 == 1 {
		for i := 0; i < n; i += 2 {
			a, b := x[i], x[i+1]
			x[i], x[i+1] = a+b, a-b
		}

		size = 8
	}

	for ; size <= n; size <<= 2 {
		radix4Stage(x, t.w, size)
	}
}

// radix4Stage combines four bit-reversed sub-transforms of length size/4
// into transforms of length size. Within a block the sub-transforms of the
// residues 0, 2, 1 and 3 (mod 4) appear in that order.
func radix4Stage(x, w []complex128, size int) {
	n := len(x)
	q := size / 4
	stride := n / size

	for base := 0; base < n; base += size {
		for k := range q {
			i0 := base + k
			i1 := i0 + q
			i2 := i1 + q
			i3 := i2 + q

			a0 := x[i0]
			a1 := x[i2]
			a2 := x[i1]
			a3 := x[i3]

			if k > 0 {
				a1 *= w[k*stride]
				a2 *= w[2*k*stride]
				a3 *= w[3*k*stride]
			}

			s02 := a0 + a2
			d02 := a0 - a2
			s13 := a1 + a3
			d13 := a1 - a3
			// -i * (a1 - a3)
			jd13 := complex(imag(d13), -real(d13))

			x[i0] = s02 + s13
			x[i1] = d02 + jd13
			x[i2] = s02 - s13
			x[i3] = d02 - jd13
		}
	}
}
