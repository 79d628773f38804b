package nn

import (
	"bytes"
	"compress/gzip"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neat-synapse/neat"
)

// unregistered is an activation function the registry does not know.
type unregistered struct{}

func (unregistered) Name() string                          { return "unregistered" }
func (unregistered) Activate(d []float64, start, size int) {}
func (unregistered) Derivative(b, a float64) float64       { return 0 }
func (unregistered) HasDerivative() bool                   { return false }
func (u unregistered) Clone() neat.ActivationFunction      { return u }

func TestSaveLoadNetwork(t *testing.T) {
	net := newSelfLinkNetwork(t, 3, true)
	require.NoError(t, net.SetActivationFunction(mustActivation(t, "tanh")))

	var buf bytes.Buffer
	require.NoError(t, SaveNetwork(&buf, net))

	from, to := NewBasicLayer(1), NewBasicLayer(1)
	loaded, err := LoadNetwork(&buf, from, to)
	require.NoError(t, err)

	assert.Equal(t, net.Neurons(), loaded.Neurons())
	assert.Equal(t, "tanh", loaded.ActivationFunction().Name())
	assert.Equal(t, 3, loaded.NetworkDepth())
	assert.True(t, loaded.Snapshot())
	assert.Same(t, from, loaded.FromLayer())
	assert.Same(t, to, loaded.ToLayer())
	require.NoError(t, loaded.Validate())

	want, err := net.Compute([]float64{0.3})
	require.NoError(t, err)
	got, err := loaded.Compute([]float64{0.3})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveLoadKeepsRecurrentState(t *testing.T) {
	net := newSelfLinkNetwork(t, 1, false)
	_, err := net.Compute([]float64{1})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveNetwork(&buf, net))
	loaded, err := LoadNetwork(&buf, net.FromLayer(), net.ToLayer())
	require.NoError(t, err)

	result, err := loaded.Compute([]float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, result[0], 1e-12)
}

func TestCheckpointFile(t *testing.T) {
	net := newSelfLinkNetwork(t, 2, false)
	path := filepath.Join(t.TempDir(), "net.gob.gz")

	require.NoError(t, net.SaveCheckpoint(path))

	loaded, err := LoadCheckpoint(path, net.FromLayer(), net.ToLayer())
	require.NoError(t, err)
	assert.Equal(t, net.Neurons(), loaded.Neurons())
	assert.Equal(t, 2, loaded.NetworkDepth())

	_, err = LoadCheckpoint(filepath.Join(t.TempDir(), "missing"), nil, nil)
	require.Error(t, err)
}

type failingCloser struct {
	bytes.Buffer
}

func (*failingCloser) Close() error { return errors.New("flush failed") }

func TestWriteCheckpointReportsCloseError(t *testing.T) {
	net := newSelfLinkNetwork(t, 1, false)

	w := &failingCloser{}
	err := writeCheckpoint(w, net)
	require.EqualError(t, err, "flush failed")
	assert.NotZero(t, w.Len())
}

func TestSaveCheckpointUnwritablePath(t *testing.T) {
	net := newSelfLinkNetwork(t, 1, false)

	err := net.SaveCheckpoint(filepath.Join(t.TempDir(), "missing-dir", "net.gob.gz"))
	require.Error(t, err)
}

func TestLoadNetworkCorrupt(t *testing.T) {
	_, err := LoadNetwork(bytes.NewReader([]byte("not a checkpoint")), nil, nil)
	require.Error(t, err)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err = gz.Write([]byte("not gob either"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	_, err = LoadNetwork(&buf, nil, nil)
	require.Error(t, err)
}

func TestLoadNetworkUnknownActivation(t *testing.T) {
	net := newSelfLinkNetwork(t, 1, false)
	require.NoError(t, net.SetActivationFunction(unregistered{}))

	var buf bytes.Buffer
	require.NoError(t, SaveNetwork(&buf, net))

	_, err := LoadNetwork(&buf, nil, nil)
	require.ErrorIs(t, err, neat.ErrUnknownActivation)
}
