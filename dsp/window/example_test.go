package window

import "fmt"

func ExampleGenerate() {
	// The symmetric Hann used for filter design ends on zero at both sides.
	w := Generate(TypeHann, 5)
	fmt.Printf("%.2f %.2f %.2f %.2f %.2f\n", w[0], w[1], w[2], w[3], w[4])
	// Output:
	// 0.00 0.50 1.00 0.50 0.00
}

func ExampleCache() {
	c := NewCache()

	// Analysis frames share one periodic window per size.
	frame := []float64{1, 1, 1, 1}
	for i, v := range c.Get(TypeHann, len(frame)) {
		frame[i] *= v
	}

	fmt.Printf("%.2f %.2f %.2f %.2f energy=%.2f\n", frame[0], frame[1], frame[2], frame[3], Energy(frame))
	// Output:
	// 0.00 0.50 1.00 0.50 energy=1.50
}

func ExampleApply() {
	buf := []float64{0.5, 0.5, 0.5, 0.5}
	Apply(TypeHann, buf, WithPeriodic())
	fmt.Printf("%.2f %.2f %.2f %.2f\n", buf[0], buf[1], buf[2], buf[3])
	// Output:
	// 0.00 0.25 0.50 0.25
}
