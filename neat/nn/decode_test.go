package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neat-synapse/neat"
)

func newGenome(inputs, outputs, hidden int, initial string) *neat.Genome {
	gc := neat.DefaultGenomeConfig(inputs, outputs)
	gc.NumHidden = hidden
	gc.InitialConnection = initial
	g := neat.NewGenome(1, gc)
	g.ConfigureNew()
	return g
}

func neuronIDs(net *Network) []int {
	ids := make([]int, 0, net.NeuronCount())
	for _, n := range net.Neurons() {
		ids = append(ids, n.ID)
	}
	return ids
}

func setWeight(t *testing.T, g *neat.Genome, in, out int, weight float64) {
	t.Helper()
	conn, ok := g.Connections[neat.ConnectionKey{InNodeID: in, OutNodeID: out}]
	require.True(t, ok, "no connection %d->%d", in, out)
	conn.Weight = weight
}

func TestCreateNetworkDirect(t *testing.T) {
	g := newGenome(2, 1, 0, "fs_neat")
	setWeight(t, g, -1, 0, 1)
	setWeight(t, g, -2, 0, 2)
	setWeight(t, g, -3, 0, 3)

	net, err := CreateNetwork(g, mustActivation(t, "identity"))
	require.NoError(t, err)

	assert.Equal(t, []int{-1, -2, -3, 0}, neuronIDs(net))
	assert.Equal(t, 1, net.NetworkDepth())
	assert.Equal(t, 2, net.FromNeuronCount())
	assert.Equal(t, 1, net.ToNeuronCount())
	assert.False(t, net.Snapshot())

	// Links are ordered by source key and point at neuron indices.
	out := net.Neuron(3)
	assert.Equal(t, []Link{{From: 2, Weight: 3}, {From: 1, Weight: 2}, {From: 0, Weight: 1}}, out.InboundLinks)

	result, err := net.Compute([]float64{1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 6.0, result[0], 1e-12)
}

func TestCreateNetworkSplitDepth(t *testing.T) {
	g := newGenome(1, 1, 0, "fs_neat")
	setWeight(t, g, -1, 0, 0.5)
	setWeight(t, g, -2, 0, 0)

	hidden, err := g.SplitConnection(neat.ConnectionKey{InNodeID: -1, OutNodeID: 0})
	require.NoError(t, err)

	net, err := CreateNetwork(g, mustActivation(t, "identity"))
	require.NoError(t, err)

	assert.Equal(t, []int{-1, -2, hidden, 0}, neuronIDs(net))
	assert.Equal(t, 2, net.NetworkDepth())
	// The disabled original link is left out.
	assert.Equal(t, 3, net.LinkCount())

	net.SetSnapshot(true)
	result, err := net.Compute([]float64{4})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, result[0], 1e-12)
}

func TestCreateNetworkRecurrent(t *testing.T) {
	g := newGenome(1, 1, 2, "unconnected")
	require.NoError(t, g.AddConnection(-1, 1, 1))
	require.NoError(t, g.AddConnection(1, 2, 1))
	require.NoError(t, g.AddConnection(2, 1, 0.5))
	require.NoError(t, g.AddConnection(2, 0, 1))

	net, err := CreateNetwork(g, mustActivation(t, "identity"))
	require.NoError(t, err)

	assert.Equal(t, []int{-1, -2, 1, 2, 0}, neuronIDs(net))
	assert.Equal(t, 2, net.NetworkDepth())

	// The back link from 2 into 1 reads the previous sweep.
	hidden := net.Neuron(2)
	assert.Equal(t, []Link{{From: 0, Weight: 1}, {From: 3, Weight: 0.5}}, hidden.InboundLinks)

	net.SetSnapshot(true)
	result, err := net.Compute([]float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, result[0], 1e-12)
}

func TestCreateNetworkSelfLink(t *testing.T) {
	g := newGenome(1, 1, 1, "unconnected")
	require.NoError(t, g.AddConnection(-1, 1, 1))
	require.NoError(t, g.AddConnection(1, 1, 0.5))
	require.NoError(t, g.AddConnection(1, 0, 1))

	net, err := CreateNetwork(g, mustActivation(t, "identity"))
	require.NoError(t, err)

	assert.Equal(t, []int{-1, -2, 1, 0}, neuronIDs(net))
	assert.Contains(t, net.Neuron(2).InboundLinks, Link{From: 2, Weight: 0.5})

	first, err := net.Compute([]float64{1})
	require.NoError(t, err)
	second, err := net.Compute([]float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, first[0], 1e-12)
	assert.InDelta(t, 1.5, second[0], 1e-12)
}

func TestCreateNetworkFromConfig(t *testing.T) {
	g := newGenome(2, 1, 0, "fs_neat")
	config := &neat.Config{
		Network: neat.NetworkConfig{ActivationFunction: "relu", Snapshot: true, NetworkDepth: 5},
		Genome:  *g.Config,
	}

	net, err := CreateNetworkFromConfig(g, config)
	require.NoError(t, err)
	assert.Equal(t, "relu", net.ActivationFunction().Name())
	assert.True(t, net.Snapshot())
	assert.Equal(t, 5, net.NetworkDepth())

	config.Network.ActivationFunction = "wobble"
	_, err = CreateNetworkFromConfig(g, config)
	require.ErrorIs(t, err, neat.ErrUnknownActivation)
}

func TestCreateNetworkDisabledLinks(t *testing.T) {
	g := newGenome(2, 1, 0, "fs_neat")
	g.Connections[neat.ConnectionKey{InNodeID: -2, OutNodeID: 0}].Enabled = false

	net, err := CreateNetwork(g, mustActivation(t, "sigmoid"))
	require.NoError(t, err)
	assert.Equal(t, 2, net.LinkCount())
	for _, link := range net.Neuron(3).InboundLinks {
		assert.NotEqual(t, 1, link.From)
	}
}

func TestCreateNetworkMultipleOutputs(t *testing.T) {
	g := newGenome(1, 3, 0, "fs_neat")
	for _, out := range g.Config.OutputKeys {
		setWeight(t, g, -1, out, float64(out+1))
		setWeight(t, g, -2, out, 0)
	}

	net, err := CreateNetwork(g, mustActivation(t, "identity"))
	require.NoError(t, err)
	assert.Equal(t, []int{-1, -2, 0, 1, 2}, neuronIDs(net))

	result, err := net.Compute([]float64{2})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 6}, result)
}

func TestCreateNetworkMalformedGenome(t *testing.T) {
	identity := mustActivation(t, "identity")

	g := newGenome(1, 1, 0, "fs_neat")
	delete(g.Nodes, g.Config.BiasKey)
	_, err := CreateNetwork(g, identity)
	require.ErrorIs(t, err, ErrMalformedTopology)

	g = newGenome(1, 1, 0, "unconnected")
	key := neat.ConnectionKey{InNodeID: -1, OutNodeID: 99}
	g.Connections[key] = &neat.ConnectionGene{Key: key, Weight: 1, Enabled: true}
	_, err = CreateNetwork(g, identity)
	require.ErrorIs(t, err, ErrMalformedTopology)

	g = newGenome(1, 1, 0, "unconnected")
	key = neat.ConnectionKey{InNodeID: 0, OutNodeID: -1}
	g.Connections[key] = &neat.ConnectionGene{Key: key, Weight: 1, Enabled: true}
	_, err = CreateNetwork(g, identity)
	require.ErrorIs(t, err, ErrMalformedTopology)
}
