package neat

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// NeuronType tags the role of a neuron in a NEAT network.
type NeuronType int

const (
	Input NeuronType = iota
	Bias
	Hidden
	Output
)

// String returns the neuron type name.
func (t NeuronType) String() string {
	switch t {
	case Input:
		return "Input"
	case Bias:
		return "Bias"
	case Hidden:
		return "Hidden"
	case Output:
		return "Output"
	default:
		return fmt.Sprintf("NeuronType(%d)", int(t))
	}
}

// --------------------------- NodeGene ---------------------------

// NodeGene represents a node (neuron) in the neural network genome.
type NodeGene struct {
	Key      int // Negative for inputs and bias, >=0 for outputs/hidden
	Type     NeuronType
	Response float64 // Activation response; the weighted sum is divided by it
}

// NewNodeGene creates a new NodeGene with its response initialized according to the config.
// Input and bias nodes are never activated, so their response is fixed at 1.
func NewNodeGene(key int, nodeType NeuronType, config *GenomeConfig) *NodeGene {
	ng := &NodeGene{Key: key, Type: nodeType, Response: 1.0}
	if nodeType == Hidden || nodeType == Output {
		ng.Response = initFloatAttribute(config.ResponseInitMean, config.ResponseInitStdev, config.ResponseInitType, config.ResponseMinValue, config.ResponseMaxValue)
	}
	return ng
}

// String returns a string representation of the NodeGene.
func (ng *NodeGene) String() string {
	return fmt.Sprintf("NodeGene(Key: %d, Type: %s, Response: %.3f)", ng.Key, ng.Type, ng.Response)
}

// Copy creates a deep copy of the NodeGene.
func (ng *NodeGene) Copy() *NodeGene {
	return &NodeGene{
		Key:      ng.Key,
		Type:     ng.Type,
		Response: ng.Response,
	}
}

// Mutate adjusts the response of hidden and output nodes based on mutation rates in the config.
func (ng *NodeGene) Mutate(config *GenomeConfig) {
	if ng.Type != Hidden && ng.Type != Output {
		return
	}
	ng.Response = mutateFloatAttribute(ng.Response, config.ResponseMutateRate, config.ResponseReplaceRate, config.ResponseMutatePower, config.ResponseInitMean, config.ResponseInitStdev, config.ResponseInitType, config.ResponseMinValue, config.ResponseMaxValue)
}

// --------------------------- ConnectionGene ---------------------------

// ConnectionGene represents a connection between two nodes in the genome.
type ConnectionGene struct {
	Key     ConnectionKey
	Weight  float64
	Enabled bool
}

// ConnectionKey uniquely identifies a connection gene.
type ConnectionKey struct {
	InNodeID  int
	OutNodeID int
}

// IsSelfConnection reports whether the connection loops back into its own source.
func (k ConnectionKey) IsSelfConnection() bool {
	return k.InNodeID == k.OutNodeID
}

// NewConnectionGene creates a new ConnectionGene with attributes initialized according to the config.
func NewConnectionGene(key ConnectionKey, config *GenomeConfig) *ConnectionGene {
	cg := &ConnectionGene{
		Key:     key,
		Enabled: initBoolAttribute(config.EnabledDefault),
	}
	cg.Weight = initFloatAttribute(config.WeightInitMean, config.WeightInitStdev, config.WeightInitType, config.WeightMinValue, config.WeightMaxValue)
	return cg
}

// String returns a string representation of the ConnectionGene.
func (cg *ConnectionGene) String() string {
	return fmt.Sprintf("ConnGene(Key: %d->%d, Weight: %.3f, Enabled: %t)",
		cg.Key.InNodeID, cg.Key.OutNodeID, cg.Weight, cg.Enabled)
}

// Copy creates a deep copy of the ConnectionGene.
func (cg *ConnectionGene) Copy() *ConnectionGene {
	return &ConnectionGene{
		Key:     cg.Key,
		Weight:  cg.Weight,
		Enabled: cg.Enabled,
	}
}

// Mutate adjusts the weight and enabled flag based on mutation rates in the config.
// Re-enabling is refused when the genome is feed-forward and the link would close a cycle.
func (cg *ConnectionGene) Mutate(genome *Genome, config *GenomeConfig) {
	cg.Weight = mutateFloatAttribute(cg.Weight, config.WeightMutateRate, config.WeightReplaceRate, config.WeightMutatePower, config.WeightInitMean, config.WeightInitStdev, config.WeightInitType, config.WeightMinValue, config.WeightMaxValue)
	cg.Enabled = mutateBoolAttribute(cg.Enabled, config.EnabledMutateRate, genome, cg)
}

// --------------------------- Attribute Helpers ---------------------------

func initFloatAttribute(mean, stdev float64, initType string, minVal, maxVal float64) float64 {
	var val float64
	switch strings.ToLower(initType) {
	case "gaussian", "normal", "":
		val = rand.NormFloat64()*stdev + mean
	case "uniform":
		rangeMin := math.Max(minVal, mean-(2*stdev))
		rangeMax := math.Min(maxVal, mean+(2*stdev))
		if rangeMax < rangeMin {
			rangeMax = rangeMin
		}
		val = rand.Float64()*(rangeMax-rangeMin) + rangeMin
	default:
		fmt.Printf("Warning: Unknown float init_type '%s', using gaussian\n", initType)
		val = rand.NormFloat64()*stdev + mean
	}
	return clamp(val, minVal, maxVal)
}

func mutateFloatAttribute(value, mutateRate, replaceRate, mutatePower, initMean, initStdev float64, initType string, minVal, maxVal float64) float64 {
	r := rand.Float64()
	if r < mutateRate {
		value += rand.NormFloat64() * mutatePower
		return clamp(value, minVal, maxVal)
	}
	if r < mutateRate+replaceRate {
		return initFloatAttribute(initMean, initStdev, initType, minVal, maxVal)
	}
	return value
}

func initBoolAttribute(defaultValStr string) bool {
	return parseBoolAttribute(defaultValStr)
}

func mutateBoolAttribute(value bool, mutateRate float64, genome *Genome, cg *ConnectionGene) bool {
	if mutateRate <= 0 || rand.Float64() >= mutateRate {
		return value
	}
	newState := rand.Float64() < 0.5
	if !value && newState && genome.Config.FeedForward {
		if createsCycle(genome, cg.Key.InNodeID, cg.Key.OutNodeID) {
			return false
		}
	}
	return newState
}
