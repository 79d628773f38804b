package nn

import (
	"fmt"
	"sort"

	"github.com/baldhumanity/neat-synapse/neat"
)

// CreateNetwork builds a runnable network from a genome.
// Neurons are ordered inputs first (key -1, -2, ...), then the bias, then hidden
// neurons by depth and key, then outputs by key. The network depth is the longest
// feed-forward path, with cycles broken at the smallest node key.
func CreateNetwork(g *neat.Genome, activationFunction neat.ActivationFunction) (*Network, error) {
	return createNetwork(g, activationFunction, 0)
}

// CreateNetworkFromConfig builds a network using the activation function,
// depth override and snapshot flag from the [Network] config section.
func CreateNetworkFromConfig(g *neat.Genome, config *neat.Config) (*Network, error) {
	activationFunction, err := neat.GetActivation(config.Network.ActivationFunction)
	if err != nil {
		return nil, fmt.Errorf("failed to get activation function '%s': %w", config.Network.ActivationFunction, err)
	}
	net, err := createNetwork(g, activationFunction, config.Network.NetworkDepth)
	if err != nil {
		return nil, err
	}
	net.SetSnapshot(config.Network.Snapshot)
	return net, nil
}

func createNetwork(g *neat.Genome, activationFunction neat.ActivationFunction, depthOverride int) (*Network, error) {
	var inputKeys, hiddenKeys, outputKeys []int
	biasKey, biasCount := 0, 0
	for key, node := range g.Nodes {
		switch node.Type {
		case neat.Input:
			inputKeys = append(inputKeys, key)
		case neat.Bias:
			biasKey = key
			biasCount++
		case neat.Hidden:
			hiddenKeys = append(hiddenKeys, key)
		case neat.Output:
			outputKeys = append(outputKeys, key)
		default:
			return nil, fmt.Errorf("%w: node %d has unknown type %s", ErrMalformedTopology, key, node.Type)
		}
	}
	if biasCount != 1 {
		return nil, fmt.Errorf("%w: genome %d has %d bias nodes, want 1", ErrMalformedTopology, g.Key, biasCount)
	}
	// Input keys count down from -1.
	sort.Sort(sort.Reverse(sort.IntSlice(inputKeys)))
	sort.Ints(outputKeys)

	// Gather enabled connections, grouped by target node.
	incoming := make(map[int][]*neat.ConnectionGene)
	for key, conn := range g.Connections {
		if !conn.Enabled {
			continue
		}
		if _, ok := g.Nodes[key.InNodeID]; !ok {
			return nil, fmt.Errorf("%w: connection %d->%d starts at an unknown node", ErrMalformedTopology, key.InNodeID, key.OutNodeID)
		}
		target, ok := g.Nodes[key.OutNodeID]
		if !ok {
			return nil, fmt.Errorf("%w: connection %d->%d ends at an unknown node", ErrMalformedTopology, key.InNodeID, key.OutNodeID)
		}
		if target.Type == neat.Input || target.Type == neat.Bias {
			return nil, fmt.Errorf("%w: connection %d->%d targets a %s node", ErrMalformedTopology, key.InNodeID, key.OutNodeID, target.Type)
		}
		incoming[key.OutNodeID] = append(incoming[key.OutNodeID], conn)
	}
	for _, conns := range incoming {
		sort.Slice(conns, func(i, j int) bool { return conns[i].Key.InNodeID < conns[j].Key.InNodeID })
	}

	depths := nodeDepths(g, incoming)

	// Hidden neurons by depth, ties broken by key.
	sort.Slice(hiddenKeys, func(i, j int) bool {
		di, dj := depths[hiddenKeys[i]], depths[hiddenKeys[j]]
		if di != dj {
			return di < dj
		}
		return hiddenKeys[i] < hiddenKeys[j]
	})

	order := make([]int, 0, len(g.Nodes))
	order = append(order, inputKeys...)
	order = append(order, biasKey)
	order = append(order, hiddenKeys...)
	order = append(order, outputKeys...)

	index := make(map[int]int, len(order))
	for i, key := range order {
		index[key] = i
	}

	neurons := make([]Neuron, len(order))
	for i, key := range order {
		node := g.Nodes[key]
		neurons[i] = NewNeuron(key, node.Type, node.Response)
		for _, conn := range incoming[key] {
			neurons[i].Connect(index[conn.Key.InNodeID], conn.Weight)
		}
	}

	networkDepth := depthOverride
	if networkDepth <= 0 {
		networkDepth = 1
		for _, d := range depths {
			if d > networkDepth {
				networkDepth = d
			}
		}
	}

	net, err := NewNetwork(NewBasicLayer(len(inputKeys)), NewBasicLayer(len(outputKeys)), neurons, activationFunction, networkDepth)
	if err != nil {
		return nil, err
	}
	if err := net.Validate(); err != nil {
		return nil, fmt.Errorf("decoded genome %d is invalid: %w", g.Key, err)
	}
	return net, nil
}

// nodeDepths assigns each node its distance from the inputs using Kahn's algorithm.
// Inputs and the bias have depth 0; any other node is one deeper than its deepest
// resolved source. When only cycles remain, the smallest unresolved key is released
// and its links from unresolved sources are treated as recurrent.
func nodeDepths(g *neat.Genome, incoming map[int][]*neat.ConnectionGene) map[int]int {
	inDegree := make(map[int]int, len(g.Nodes))
	outgoing := make(map[int][]int, len(g.Nodes))
	for key := range g.Nodes {
		inDegree[key] = 0
	}
	for target, conns := range incoming {
		for _, conn := range conns {
			outgoing[conn.Key.InNodeID] = append(outgoing[conn.Key.InNodeID], target)
			inDegree[target]++
		}
	}

	depths := make(map[int]int, len(g.Nodes))
	resolve := func(key int) {
		node := g.Nodes[key]
		if node.Type == neat.Input || node.Type == neat.Bias {
			depths[key] = 0
			return
		}
		d := 0
		for _, conn := range incoming[key] {
			if sd, ok := depths[conn.Key.InNodeID]; ok && sd > d {
				d = sd
			}
		}
		depths[key] = d + 1
	}

	unresolved := make([]int, 0, len(g.Nodes))
	for key := range g.Nodes {
		unresolved = append(unresolved, key)
	}
	sort.Ints(unresolved)

	queue := []int{}
	for _, key := range unresolved {
		if inDegree[key] == 0 {
			queue = append(queue, key)
		}
	}

	for len(depths) < len(g.Nodes) {
		if len(queue) == 0 {
			// Only cycles remain: release the smallest unresolved key.
			for _, key := range unresolved {
				if _, done := depths[key]; !done {
					queue = append(queue, key)
					break
				}
			}
		}

		u := queue[0]
		queue = queue[1:]
		if _, done := depths[u]; done {
			continue
		}
		resolve(u)

		neighbors := outgoing[u]
		sort.Ints(neighbors)
		for _, v := range neighbors {
			inDegree[v]--
			if _, done := depths[v]; !done && inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
		sort.Ints(queue)
	}

	return depths
}
