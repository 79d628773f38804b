package nn

import "github.com/baldhumanity/neat-synapse/neat"

// Link is a weighted inbound connection.
// From indexes the source neuron in the owning network's neuron slice, so a link
// may point backwards, forwards, or at its own neuron.
type Link struct {
	From   int
	Weight float64
}

// Neuron is one evaluation unit of a NEAT network.
type Neuron struct {
	ID                 int
	Type               neat.NeuronType
	ActivationResponse float64 // Divisor applied to the weighted sum before activation
	Output             float64 // Last computed or seeded value; persists between calls
	InboundLinks       []Link
}

// NewNeuron creates a neuron with no inbound links.
func NewNeuron(id int, neuronType neat.NeuronType, activationResponse float64) Neuron {
	return Neuron{
		ID:                 id,
		Type:               neuronType,
		ActivationResponse: activationResponse,
	}
}

// Connect appends an inbound link from the neuron at index from.
func (n *Neuron) Connect(from int, weight float64) {
	n.InboundLinks = append(n.InboundLinks, Link{From: from, Weight: weight})
}

// copyNeurons deep-copies a neuron slice, including each link slice.
func copyNeurons(neurons []Neuron) []Neuron {
	out := make([]Neuron, len(neurons))
	for i, n := range neurons {
		out[i] = n
		if n.InboundLinks != nil {
			out[i].InboundLinks = append([]Link(nil), n.InboundLinks...)
		}
	}
	return out
}
