package neat

import "math"

// SoftMax is the normalized exponential activation.
// Over a window it produces non-negative values that sum to 1.
type SoftMax struct{}

// Name returns the registry key "softmax".
func (*SoftMax) Name() string { return "softmax" }

// Activate normalizes d[start:start+size] in place. Values are shifted by the
// window maximum before exponentiating so large inputs cannot overflow.
func (*SoftMax) Activate(d []float64, start, size int) {
	if size <= 0 {
		return
	}
	window := d[start : start+size]

	m := MaxFloat(window)
	sum := 0.0
	for i, v := range window {
		e := math.Exp(v - m)
		window[i] = e
		sum += e
	}
	for i := range window {
		window[i] /= sum
	}
}

// Derivative returns 1 for every input.
// Softmax couples all window elements, so a scalar of two scalars cannot
// express its Jacobian; this keeps the per-element contract callers rely on.
func (*SoftMax) Derivative(_, _ float64) float64 {
	return 1.0
}

// HasDerivative always reports true.
func (*SoftMax) HasDerivative() bool { return true }

// Clone returns a new SoftMax.
func (*SoftMax) Clone() ActivationFunction { return &SoftMax{} }
