package nn

import (
	"errors"
	"fmt"

	"github.com/baldhumanity/neat-synapse/neat"
)

var (
	// ErrUnknownProperty is returned for a property name the network does not have.
	ErrUnknownProperty = errors.New("unknown network property")
	// ErrPropertyType is returned when a property value has the wrong type.
	ErrPropertyType = errors.New("wrong type for network property")
)

// Stable property names for generic persistence.
const (
	PropNeurons            = "neurons"
	PropActivationFunction = "activationFunction"
	PropNetworkDepth       = "networkDepth"
	PropSnapshot           = "snapshot"
	PropFromLayer          = "fromLayer"
	PropToLayer            = "toLayer"
)

// PropertyInfo describes one named property.
// Layers are not persisted; a loader re-links them from its own topology.
type PropertyInfo struct {
	Name      string
	Persisted bool
}

var networkProperties = []PropertyInfo{
	{Name: PropNeurons, Persisted: true},
	{Name: PropActivationFunction, Persisted: true},
	{Name: PropNetworkDepth, Persisted: true},
	{Name: PropSnapshot, Persisted: true},
	{Name: PropFromLayer, Persisted: false},
	{Name: PropToLayer, Persisted: false},
}

// Properties lists the network's named properties in a stable order.
func (net *Network) Properties() []PropertyInfo {
	return append([]PropertyInfo(nil), networkProperties...)
}

// Property returns the value of a named property.
//
//	neurons            []Neuron
//	activationFunction neat.ActivationFunction
//	networkDepth       int
//	snapshot           bool
//	fromLayer, toLayer Layer
func (net *Network) Property(name string) (interface{}, error) {
	switch name {
	case PropNeurons:
		return net.neurons, nil
	case PropActivationFunction:
		return net.activationFunction, nil
	case PropNetworkDepth:
		return net.networkDepth, nil
	case PropSnapshot:
		return net.snapshot, nil
	case PropFromLayer:
		return net.fromLayer, nil
	case PropToLayer:
		return net.toLayer, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
}

// SetProperty assigns a named property. Values must have the types listed on Property.
func (net *Network) SetProperty(name string, value interface{}) error {
	switch name {
	case PropNeurons:
		neurons, ok := value.([]Neuron)
		if !ok {
			return propertyTypeError(name, value)
		}
		if err := checkLinks(neurons); err != nil {
			return err
		}
		net.neurons = copyNeurons(neurons)
	case PropActivationFunction:
		fn, ok := value.(neat.ActivationFunction)
		if !ok || fn == nil {
			return propertyTypeError(name, value)
		}
		return net.SetActivationFunction(fn)
	case PropNetworkDepth:
		depth, ok := value.(int)
		if !ok {
			return propertyTypeError(name, value)
		}
		return net.SetNetworkDepth(depth)
	case PropSnapshot:
		snapshot, ok := value.(bool)
		if !ok {
			return propertyTypeError(name, value)
		}
		net.snapshot = snapshot
	case PropFromLayer:
		layer, ok := value.(Layer)
		if !ok {
			return propertyTypeError(name, value)
		}
		net.fromLayer = layer
	case PropToLayer:
		layer, ok := value.(Layer)
		if !ok {
			return propertyTypeError(name, value)
		}
		net.toLayer = layer
	default:
		return fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
	return nil
}

func propertyTypeError(name string, value interface{}) error {
	return fmt.Errorf("%w: %s cannot be set from %T", ErrPropertyType, name, value)
}
