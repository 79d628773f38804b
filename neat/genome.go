package neat

import (
	"errors"
	"fmt"
	"sort"
)

// Errors returned by explicit topology edits.
var (
	ErrUnknownNode       = errors.New("unknown node")
	ErrDuplicateLink     = errors.New("connection already exists")
	ErrInvalidLinkTarget = errors.New("input and bias nodes cannot receive connections")
	ErrRecurrentLink     = errors.New("connection would create a cycle in a feed-forward genome")
)

// Genome is the encoding an evolutionary process hands to the network decoder.
// It consists of NodeGenes and ConnectionGenes.
type Genome struct {
	Key         int                               // Unique identifier for this genome.
	Nodes       map[int]*NodeGene                 // Map node ID -> NodeGene, including inputs and bias
	Connections map[ConnectionKey]*ConnectionGene // Map connection key -> ConnectionGene
	Config      *GenomeConfig
}

// NewGenome creates a new Genome instance with the specified key and config reference.
func NewGenome(key int, config *GenomeConfig) *Genome {
	return &Genome{
		Key:         key,
		Nodes:       make(map[int]*NodeGene),
		Connections: make(map[ConnectionKey]*ConnectionGene),
		Config:      config,
	}
}

// ConfigureNew initializes a new genome based on the configuration.
// It creates input, bias, output, and hidden nodes, and sets up initial connections.
func (g *Genome) ConfigureNew() {
	for _, nodeKey := range g.Config.InputKeys {
		g.Nodes[nodeKey] = NewNodeGene(nodeKey, Input, g.Config)
	}
	g.Nodes[g.Config.BiasKey] = NewNodeGene(g.Config.BiasKey, Bias, g.Config)
	for _, nodeKey := range g.Config.OutputKeys {
		g.Nodes[nodeKey] = NewNodeGene(nodeKey, Output, g.Config)
	}
	for i := 0; i < g.Config.NumHidden; i++ {
		nodeKey := g.Config.GetNewNodeKey()
		if _, exists := g.Nodes[nodeKey]; exists {
			panic(fmt.Sprintf("Attempted to create duplicate node key: %d", nodeKey))
		}
		g.Nodes[nodeKey] = NewNodeGene(nodeKey, Hidden, g.Config)
	}

	g.setupInitialConnections()
}

// setupInitialConnections creates the initial connections based on the config string.
// The bias node is wired like an input.
func (g *Genome) setupInitialConnections() {
	sources := append(append([]int{}, g.Config.InputKeys...), g.Config.BiasKey)
	outputKeys := g.Config.OutputKeys
	hiddenKeys := g.HiddenKeys()

	connect := func(in, out int) {
		connKey := ConnectionKey{InNodeID: in, OutNodeID: out}
		g.Connections[connKey] = NewConnectionGene(connKey, g.Config)
	}

	switch g.Config.InitialConnection {
	case "unconnected":
		// No connections are made.
	case "fs_neat_nohidden", "fs_neat":
		for _, ik := range sources {
			for _, ok := range outputKeys {
				connect(ik, ok)
			}
		}
	case "fs_neat_hidden":
		for _, ik := range sources {
			for _, hk := range hiddenKeys {
				connect(ik, hk)
			}
		}
		for _, hk := range hiddenKeys {
			for _, ok := range outputKeys {
				connect(hk, ok)
			}
		}
	case "full_nodirect", "full", "full_direct":
		for _, ik := range sources {
			for _, hk := range hiddenKeys {
				connect(ik, hk)
			}
			if g.Config.InitialConnection == "full_direct" || len(hiddenKeys) == 0 {
				for _, ok := range outputKeys {
					connect(ik, ok)
				}
			}
		}
		for _, hk1 := range hiddenKeys {
			// Hidden-to-hidden links, self-connections included, are recurrent.
			if !g.Config.FeedForward {
				for _, hk2 := range hiddenKeys {
					connect(hk1, hk2)
				}
			}
			for _, ok := range outputKeys {
				connect(hk1, ok)
			}
		}
	default:
		fmt.Printf("Warning: Unknown initial_connection '%s', leaving genome unconnected\n", g.Config.InitialConnection)
	}
}

// HiddenKeys returns the keys of hidden nodes in ascending order.
func (g *Genome) HiddenKeys() []int {
	keys := []int{}
	for key, node := range g.Nodes {
		if node.Type == Hidden {
			keys = append(keys, key)
		}
	}
	sort.Ints(keys)
	return keys
}

// Copy creates a deep copy of the genome. The config reference is shared.
func (g *Genome) Copy() *Genome {
	c := NewGenome(g.Key, g.Config)
	for key, node := range g.Nodes {
		c.Nodes[key] = node.Copy()
	}
	for key, conn := range g.Connections {
		c.Connections[key] = conn.Copy()
	}
	return c
}

// Mutate perturbs node responses and connection weights and toggles connections.
// Structural changes go through AddConnection and SplitConnection.
func (g *Genome) Mutate() {
	for _, node := range g.Nodes {
		node.Mutate(g.Config)
	}
	for _, conn := range g.Connections {
		conn.Mutate(g, g.Config)
	}
}

// AddConnection adds an enabled connection with the given weight.
// Any node may be the source; only hidden and output nodes may be the target.
// Recurrent and self connections are allowed unless the genome is feed-forward.
func (g *Genome) AddConnection(inNode, outNode int, weight float64) error {
	if _, ok := g.Nodes[inNode]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, inNode)
	}
	target, ok := g.Nodes[outNode]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, outNode)
	}
	if target.Type == Input || target.Type == Bias {
		return fmt.Errorf("%w: %d", ErrInvalidLinkTarget, outNode)
	}

	connKey := ConnectionKey{InNodeID: inNode, OutNodeID: outNode}
	if _, exists := g.Connections[connKey]; exists {
		return fmt.Errorf("%w: %d->%d", ErrDuplicateLink, inNode, outNode)
	}
	if g.Config.FeedForward && createsCycle(g, inNode, outNode) {
		return fmt.Errorf("%w: %d->%d", ErrRecurrentLink, inNode, outNode)
	}

	g.Connections[connKey] = &ConnectionGene{Key: connKey, Weight: weight, Enabled: true}
	return nil
}

// SplitConnection adds a new hidden node in the middle of an existing connection.
// The original connection is disabled; the incoming link gets weight 1 and the
// outgoing link inherits the original weight. It returns the new node key.
func (g *Genome) SplitConnection(key ConnectionKey) (int, error) {
	connToSplit, ok := g.Connections[key]
	if !ok {
		return 0, fmt.Errorf("cannot split connection %d->%d: not found", key.InNodeID, key.OutNodeID)
	}

	connToSplit.Enabled = false

	newNodeKey := g.Config.GetNewNodeKey()
	g.Nodes[newNodeKey] = NewNodeGene(newNodeKey, Hidden, g.Config)

	conn1Key := ConnectionKey{InNodeID: key.InNodeID, OutNodeID: newNodeKey}
	g.Connections[conn1Key] = &ConnectionGene{Key: conn1Key, Weight: 1.0, Enabled: true}

	conn2Key := ConnectionKey{InNodeID: newNodeKey, OutNodeID: key.OutNodeID}
	g.Connections[conn2Key] = &ConnectionGene{Key: conn2Key, Weight: connToSplit.Weight, Enabled: true}

	return newNodeKey, nil
}

// createsCycle reports whether a connection inNode->outNode would close a cycle
// over the genome's enabled connections.
func createsCycle(genome *Genome, inNode, outNode int) bool {
	if inNode == outNode {
		return true
	}

	// Check if outNode can reach inNode through existing enabled connections.
	visited := make(map[int]bool)
	queue := []int{outNode}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == inNode {
			return true
		}
		if visited[current] {
			continue
		}
		visited[current] = true

		for connKey, conn := range genome.Connections {
			if conn.Enabled && connKey.InNodeID == current {
				queue = append(queue, connKey.OutNodeID)
			}
		}
	}

	return false
}
