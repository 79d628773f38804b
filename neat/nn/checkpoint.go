package nn

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/baldhumanity/neat-synapse/neat"
)

// checkpointVersion is bumped when the saved property layout changes.
const checkpointVersion = 1

// NetworkSaveData is the gob payload of a network checkpoint.
// It holds the persisted properties by name; the activation function is stored
// by its registry name and the layers are left out.
type NetworkSaveData struct {
	Version    int
	Properties map[string]interface{}
}

func registerCheckpointTypes() {
	// Basic types are pre-registered by gob.
	gob.Register([]Neuron{})
}

// SaveNetwork writes a gzip-compressed gob checkpoint of net to w.
func SaveNetwork(w io.Writer, net *Network) error {
	saveData := NetworkSaveData{
		Version:    checkpointVersion,
		Properties: make(map[string]interface{}),
	}

	for _, prop := range net.Properties() {
		if !prop.Persisted {
			continue
		}
		value, err := net.Property(prop.Name)
		if err != nil {
			return err
		}
		if fn, ok := value.(neat.ActivationFunction); ok {
			value = fn.Name()
		}
		saveData.Properties[prop.Name] = value
	}

	gzWriter := gzip.NewWriter(w)
	registerCheckpointTypes()
	if err := gob.NewEncoder(gzWriter).Encode(saveData); err != nil {
		_ = gzWriter.Close()
		return fmt.Errorf("failed to encode network data: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush network checkpoint: %w", err)
	}
	return nil
}

// LoadNetwork reads a checkpoint written by SaveNetwork.
// The layers are not part of the checkpoint and are linked from the arguments.
func LoadNetwork(r io.Reader, fromLayer, toLayer Layer) (*Network, error) {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	registerCheckpointTypes()
	saveData := NetworkSaveData{}
	if err := gob.NewDecoder(gzReader).Decode(&saveData); err != nil {
		return nil, fmt.Errorf("failed to decode network data from checkpoint: %w", err)
	}
	if saveData.Version != checkpointVersion {
		return nil, fmt.Errorf("unsupported checkpoint version %d", saveData.Version)
	}

	net := &Network{networkDepth: 1}
	for _, prop := range net.Properties() {
		if !prop.Persisted {
			continue
		}
		value, ok := saveData.Properties[prop.Name]
		if !ok {
			return nil, fmt.Errorf("checkpoint is missing property %q", prop.Name)
		}
		if prop.Name == PropActivationFunction {
			name, ok := value.(string)
			if !ok {
				return nil, propertyTypeError(prop.Name, value)
			}
			fn, err := neat.GetActivation(name)
			if err != nil {
				return nil, err
			}
			value = fn
		}
		if err := net.SetProperty(prop.Name, value); err != nil {
			return nil, err
		}
	}

	net.fromLayer = fromLayer
	net.toLayer = toLayer
	return net, nil
}

// SaveCheckpoint saves the network to a file.
func (net *Network) SaveCheckpoint(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	if err := writeCheckpoint(file, net); err != nil {
		return fmt.Errorf("failed to write checkpoint file '%s': %w", filePath, err)
	}

	fmt.Printf("Checkpoint saved to %s\n", filePath)
	return nil
}

// writeCheckpoint saves net to wc and closes it. A failed close is reported,
// since buffered data may not have reached the file.
func writeCheckpoint(wc io.WriteCloser, net *Network) error {
	if err := SaveNetwork(wc, net); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

// LoadCheckpoint loads a network from a checkpoint file.
func LoadCheckpoint(filePath string, fromLayer, toLayer Layer) (*Network, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	net, err := LoadNetwork(file, fromLayer, toLayer)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Checkpoint loaded from %s (%d neurons)\n", filePath, net.NeuronCount())
	return net, nil
}
