package nn

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/baldhumanity/neat-synapse/neat"
)

var (
	// ErrInvalidInputShape is returned when the input vector does not match the from layer.
	ErrInvalidInputShape = errors.New("input length does not match from layer size")
	// ErrUnsupportedRepresentation is returned when a dense matrix is used with a NEAT network.
	ErrUnsupportedRepresentation = errors.New("unsupported network representation: NEAT network cannot have a simple matrix")
	// ErrMalformedTopology is returned by Validate and NewNetwork for unusable neuron lists.
	ErrMalformedTopology = errors.New("malformed network topology")
)

// SynapseType identifies the kind of connection structure between two layers.
type SynapseType string

// SynapseTypeNEAT is the sparse, explicit-link structure implemented by Network.
const SynapseTypeNEAT SynapseType = "neat"

// Capabilities are fixed facts about a synapse type that trainers and evolvers query.
type Capabilities struct {
	MatrixTrainable bool // A generic weight-matrix update path exists
	Comparable      bool // An equality or complexity metric is defined
}

// Network evaluates a NEAT network between a from layer and a to layer.
//
// NEAT networks have no real hidden layers: the evolved hidden neurons live in one
// ordered list, with links that can be feed-forward, recurrent or self-connected.
// The list holds all Input neurons first, then exactly one Bias neuron, then the
// Hidden and Output neurons ordered by depth.
//
// A Network is not safe for concurrent use. Outside snapshot mode neuron outputs
// persist between Compute calls as recurrent memory, so callers must serialize
// calls on the same instance. Use Clone to evaluate independently.
type Network struct {
	neurons            []Neuron
	activationFunction neat.ActivationFunction
	networkDepth       int
	snapshot           bool

	fromLayer Layer
	toLayer   Layer
}

// NewNetwork creates a network over a copy of the given neurons.
// The neuron order is taken as the evaluation order; use Validate to check it.
func NewNetwork(fromLayer, toLayer Layer, neurons []Neuron, activationFunction neat.ActivationFunction, networkDepth int) (*Network, error) {
	if activationFunction == nil {
		return nil, fmt.Errorf("%w: activation function is required", ErrMalformedTopology)
	}
	if networkDepth < 1 {
		return nil, fmt.Errorf("%w: network depth must be at least 1, got %d", ErrMalformedTopology, networkDepth)
	}
	if err := checkLinks(neurons); err != nil {
		return nil, err
	}
	return &Network{
		neurons:            copyNeurons(neurons),
		activationFunction: activationFunction,
		networkDepth:       networkDepth,
		fromLayer:          fromLayer,
		toLayer:            toLayer,
	}, nil
}

// checkLinks makes sure every link source is inside the neuron slice.
func checkLinks(neurons []Neuron) error {
	for i, n := range neurons {
		for _, link := range n.InboundLinks {
			if link.From < 0 || link.From >= len(neurons) {
				return fmt.Errorf("%w: neuron %d (index %d) links from index %d, network has %d neurons",
					ErrMalformedTopology, n.ID, i, link.From, len(neurons))
			}
		}
	}
	return nil
}

// Compute calculates the output vector for the given input.
//
// In normal mode the network is swept once and neuron outputs are kept, so the
// next call sees them through recurrent links. In snapshot mode the network is
// swept networkDepth times to flush out recurrent links, then every neuron
// output is reset to 0.
func (net *Network) Compute(input []float64) ([]float64, error) {
	if len(input) != net.FromNeuronCount() {
		return nil, fmt.Errorf("%w: got %d values, from layer has %d neurons", ErrInvalidInputShape, len(input), net.FromNeuronCount())
	}
	if net.activationFunction == nil {
		return nil, fmt.Errorf("%w: activation function is required", ErrMalformedTopology)
	}

	result := make([]float64, net.ToNeuronCount())

	flushCount := 1
	if net.snapshot {
		flushCount = net.networkDepth
	}

	var d [1]float64

	// iterate through the network flushCount times
	for i := 0; i < flushCount; i++ {
		outputIndex := 0
		index := 0

		clear(result)

		// populate the input neurons
		for index < len(net.neurons) && index < len(input) && net.neurons[index].Type == neat.Input {
			net.neurons[index].Output = input[index]
			index++
		}

		// set the bias neuron
		if index < len(net.neurons) {
			net.neurons[index].Output = 1
			index++
		}

		for ; index < len(net.neurons); index++ {
			current := &net.neurons[index]

			// Links read whatever their source holds right now: a value from this
			// sweep for earlier neurons, the previous one for later neurons.
			// Links edited to point outside the network contribute nothing.
			sum := 0.0
			for _, link := range current.InboundLinks {
				if link.From < 0 || link.From >= len(net.neurons) {
					continue
				}
				sum += link.Weight * net.neurons[link.From].Output
			}

			d[0] = sum / current.ActivationResponse
			net.activationFunction.Activate(d[:], 0, 1)
			current.Output = d[0]

			if current.Type == neat.Output && outputIndex < len(result) {
				result[outputIndex] = current.Output
				outputIndex++
			}
		}
	}

	if net.snapshot {
		net.Reset()
	}

	return result, nil
}

// Reset sets every neuron output to 0.
func (net *Network) Reset() {
	for i := range net.neurons {
		net.neurons[i].Output = 0
	}
}

// Validate checks the ordering invariant: the Input neurons form a prefix whose
// length matches the from layer, exactly one Bias neuron follows, and the number
// of Output neurons matches the to layer. Compute never calls it.
func (net *Network) Validate() error {
	index := 0
	for index < len(net.neurons) && net.neurons[index].Type == neat.Input {
		index++
	}
	if index != net.FromNeuronCount() {
		return fmt.Errorf("%w: %d leading input neurons, from layer has %d", ErrMalformedTopology, index, net.FromNeuronCount())
	}
	if index >= len(net.neurons) || net.neurons[index].Type != neat.Bias {
		return fmt.Errorf("%w: expected bias neuron at index %d", ErrMalformedTopology, index)
	}

	outputs := 0
	for i := index + 1; i < len(net.neurons); i++ {
		switch net.neurons[i].Type {
		case neat.Input, neat.Bias:
			return fmt.Errorf("%w: %s neuron %d at index %d after the bias neuron",
				ErrMalformedTopology, net.neurons[i].Type, net.neurons[i].ID, i)
		case neat.Output:
			outputs++
		}
	}
	if outputs != net.ToNeuronCount() {
		return fmt.Errorf("%w: %d output neurons, to layer has %d", ErrMalformedTopology, outputs, net.ToNeuronCount())
	}
	return checkLinks(net.neurons)
}

// Clone returns an independent deep copy. Neurons, links and outputs are copied,
// the activation function is cloned, and the layer references are shared.
func (net *Network) Clone() *Network {
	c := &Network{
		neurons:      copyNeurons(net.neurons),
		networkDepth: net.networkDepth,
		snapshot:     net.snapshot,
		fromLayer:    net.fromLayer,
		toLayer:      net.toLayer,
	}
	if net.activationFunction != nil {
		c.activationFunction = net.activationFunction.Clone()
	}
	return c
}

// Neurons returns the network's neuron slice. Changes to link weights made
// through it affect later Compute calls.
func (net *Network) Neurons() []Neuron {
	return net.neurons
}

// Neuron returns the neuron at index i.
func (net *Network) Neuron(i int) *Neuron {
	return &net.neurons[i]
}

// NeuronCount returns the number of neurons, bias included.
func (net *Network) NeuronCount() int {
	return len(net.neurons)
}

// LinkCount returns the total number of links.
func (net *Network) LinkCount() int {
	count := 0
	for _, n := range net.neurons {
		count += len(n.InboundLinks)
	}
	return count
}

// ActivationFunction returns the activation function applied to every non-input neuron.
func (net *Network) ActivationFunction() neat.ActivationFunction {
	return net.activationFunction
}

// SetActivationFunction replaces the activation function. It cannot be nil.
func (net *Network) SetActivationFunction(activationFunction neat.ActivationFunction) error {
	if activationFunction == nil {
		return fmt.Errorf("%w: activation function is required", ErrMalformedTopology)
	}
	net.activationFunction = activationFunction
	return nil
}

// NetworkDepth returns the number of sweeps used in snapshot mode.
func (net *Network) NetworkDepth() int {
	return net.networkDepth
}

// SetNetworkDepth changes the number of sweeps used in snapshot mode.
func (net *Network) SetNetworkDepth(depth int) error {
	if depth < 1 {
		return fmt.Errorf("network depth must be at least 1, got %d", depth)
	}
	net.networkDepth = depth
	return nil
}

// Snapshot reports whether snapshot mode is used.
func (net *Network) Snapshot() bool {
	return net.snapshot
}

// SetSnapshot turns snapshot mode on or off.
func (net *Network) SetSnapshot(snapshot bool) {
	net.snapshot = snapshot
}

// FromLayer returns the input layer.
func (net *Network) FromLayer() Layer {
	return net.fromLayer
}

// SetFromLayer sets the input layer.
func (net *Network) SetFromLayer(layer Layer) {
	net.fromLayer = layer
}

// ToLayer returns the output layer.
func (net *Network) ToLayer() Layer {
	return net.toLayer
}

// SetToLayer sets the output layer.
func (net *Network) SetToLayer(layer Layer) {
	net.toLayer = layer
}

// FromNeuronCount returns the size of the input layer, or 0 without one.
func (net *Network) FromNeuronCount() int {
	if net.fromLayer == nil {
		return 0
	}
	return net.fromLayer.NeuronCount()
}

// ToNeuronCount returns the size of the output layer, or 0 without one.
func (net *Network) ToNeuronCount() int {
	if net.toLayer == nil {
		return 0
	}
	return net.toLayer.NeuronCount()
}

// --- Dense matrix surface ---
// A NEAT network is a sparse link graph and has no matrix form.

// SetMatrix always fails with ErrUnsupportedRepresentation.
func (net *Network) SetMatrix(_ mat.Matrix) error {
	return ErrUnsupportedRepresentation
}

// Matrix always returns nil.
func (net *Network) Matrix() mat.Matrix {
	return nil
}

// MatrixSize always returns 0.
func (net *Network) MatrixSize() int {
	return 0
}

// --- Capability flags ---

// Type returns SynapseTypeNEAT.
func (net *Network) Type() SynapseType {
	return SynapseTypeNEAT
}

// Capabilities reports that the network cannot be trained through a weight
// matrix and defines no equality or complexity metric.
func (net *Network) Capabilities() Capabilities {
	return Capabilities{}
}

// IsTeachable is false: weights are not adjusted through a simple matrix.
func (net *Network) IsTeachable() bool {
	return false
}

// IsSelfConnected is false: from layer / to layer identity is not tracked.
// Neuron-level self links are unaffected by this flag.
func (net *Network) IsSelfConnected() bool {
	return false
}

// Name is always empty.
func (net *Network) Name() string {
	return ""
}

// Description is always empty.
func (net *Network) Description() string {
	return ""
}
