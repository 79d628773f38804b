package neat

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownActivation is returned when an activation name is not registered.
var ErrUnknownActivation = errors.New("unknown activation function")

// ActivationFunction transforms a window of values in place.
// Implementations hold no state, so one instance can be shared by many networks.
// A network that needs its own copy should Clone it.
type ActivationFunction interface {
	// Name is the registry key of this function.
	Name() string
	// Activate applies the function to d[start:start+size] in place.
	Activate(d []float64, start, size int)
	// Derivative returns the slope at b, where a is the already activated value of b.
	Derivative(b, a float64) float64
	// HasDerivative reports whether Derivative is meaningful for this function.
	HasDerivative() bool
	// Clone returns an independent copy.
	Clone() ActivationFunction
}

// ActivationFunctions maps function names to constructors.
// This allows configuration and checkpoints to refer to activations by name.
var ActivationFunctions = map[string]func() ActivationFunction{
	"softmax":  func() ActivationFunction { return &SoftMax{} },
	"sigmoid":  func() ActivationFunction { return newKernel("sigmoid", Sigmoid, sigmoidDerivative) },
	"tanh":     func() ActivationFunction { return newKernel("tanh", Tanh, tanhDerivative) },
	"identity": func() ActivationFunction { return newKernel("identity", Identity, constantDerivative) },
	"linear":   func() ActivationFunction { return newKernel("linear", Identity, constantDerivative) }, // Alias for identity
	"relu":     func() ActivationFunction { return newKernel("relu", ReLU, reluDerivative) },
	"gaussian": func() ActivationFunction { return newKernel("gaussian", Gaussian, gaussianDerivative) },
	"sine":     func() ActivationFunction { return newKernel("sine", Sine, sineDerivative) },
	"clamped":  func() ActivationFunction { return newKernel("clamped", Clamped, clampedDerivative) },
	"absolute": func() ActivationFunction { return newKernel("absolute", Absolute, nil) },
	"step":     func() ActivationFunction { return newKernel("step", Step, nil) },
}

// GetActivation returns a fresh instance of the named activation function.
func GetActivation(name string) (ActivationFunction, error) {
	if ctor, ok := ActivationFunctions[name]; ok {
		return ctor(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownActivation, name)
}

// ActivationNames lists the registered activation names in sorted order.
func ActivationNames() []string {
	names := make([]string, 0, len(ActivationFunctions))
	for name := range ActivationFunctions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// kernel adapts a scalar function to ActivationFunction by applying it element-wise.
type kernel struct {
	name  string
	fn    func(x float64) float64
	deriv func(x, fx float64) float64 // nil when the kernel is not differentiable
}

func newKernel(name string, fn func(float64) float64, deriv func(float64, float64) float64) *kernel {
	return &kernel{name: name, fn: fn, deriv: deriv}
}

func (k *kernel) Name() string { return k.name }

func (k *kernel) Activate(d []float64, start, size int) {
	for i := start; i < start+size; i++ {
		d[i] = k.fn(d[i])
	}
}

func (k *kernel) Derivative(b, a float64) float64 {
	if k.deriv == nil {
		return 0
	}
	return k.deriv(b, a)
}

func (k *kernel) HasDerivative() bool { return k.deriv != nil }

func (k *kernel) Clone() ActivationFunction {
	c := *k
	return &c
}

// --- Scalar kernels ---

// sigmoidSteepness is the slope used by NEAT's steepened sigmoid.
const sigmoidSteepness = 4.9

// Sigmoid is the steepened logistic function 1 / (1 + exp(-4.9x)).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-sigmoidSteepness*x))
}

func sigmoidDerivative(_, fx float64) float64 {
	return sigmoidSteepness * fx * (1.0 - fx)
}

// Tanh activation function.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

func tanhDerivative(_, fx float64) float64 {
	return 1.0 - fx*fx
}

// Identity activation function (linear).
func Identity(x float64) float64 {
	return x
}

func constantDerivative(_, _ float64) float64 {
	return 1.0
}

// ReLU (Rectified Linear Unit) activation function.
func ReLU(x float64) float64 {
	return math.Max(0, x)
}

func reluDerivative(x, _ float64) float64 {
	if x > 0 {
		return 1.0
	}
	return 0.0
}

// Gaussian activation function.
func Gaussian(x float64) float64 {
	return math.Exp(-x * x / 2.0)
}

func gaussianDerivative(x, fx float64) float64 {
	return -x * fx
}

// Sine activation function.
func Sine(x float64) float64 {
	return math.Sin(x)
}

func sineDerivative(x, _ float64) float64 {
	return math.Cos(x)
}

// Clamped activation function (clamps output between -1 and 1).
func Clamped(x float64) float64 {
	return clamp(x, -1.0, 1.0)
}

func clampedDerivative(x, _ float64) float64 {
	if x > -1.0 && x < 1.0 {
		return 1.0
	}
	return 0.0
}

// Absolute value activation function.
func Absolute(x float64) float64 {
	return math.Abs(x)
}

// Step returns 1 for positive input and 0 otherwise.
func Step(x float64) float64 {
	if x > 0 {
		return 1.0
	}
	return 0.0
}
