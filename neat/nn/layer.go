package nn

// Layer reports how many neurons sit on one side of a network.
// The network uses it to size input and output vectors.
type Layer interface {
	NeuronCount() int
}

// BasicLayer is a Layer with a fixed neuron count.
type BasicLayer struct {
	Count int
}

// NewBasicLayer creates a layer of n neurons.
func NewBasicLayer(n int) *BasicLayer {
	return &BasicLayer{Count: n}
}

// NeuronCount returns the layer size.
func (l *BasicLayer) NeuronCount() int {
	return l.Count
}
