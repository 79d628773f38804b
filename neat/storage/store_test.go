package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neat-synapse/neat"
	"github.com/baldhumanity/neat-synapse/neat/nn"
)

func newTestNetwork(t *testing.T) *nn.Network {
	t.Helper()
	fn, err := neat.GetActivation("identity")
	require.NoError(t, err)

	hidden := nn.NewNeuron(1, neat.Hidden, 1)
	hidden.Connect(0, 2)
	hidden.Connect(2, 0.5)
	out := nn.NewNeuron(0, neat.Output, 1)
	out.Connect(2, 1)
	out.Connect(1, -1)
	neurons := []nn.Neuron{
		nn.NewNeuron(-1, neat.Input, 1),
		nn.NewNeuron(-2, neat.Bias, 1),
		hidden,
		out,
	}

	net, err := nn.NewNetwork(nn.NewBasicLayer(1), nn.NewBasicLayer(1), neurons, fn, 2)
	require.NoError(t, err)
	return net
}

func storeBackends(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": NewSQLiteStore(filepath.Join(t.TempDir(), "networks.db")),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for kind, store := range storeBackends(t) {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Init(ctx))
			t.Cleanup(func() { _ = CloseIfSupported(store) })

			net := newTestNetwork(t)
			id, err := SaveNetwork(ctx, store, "demo", net)
			require.NoError(t, err)
			_, err = uuid.Parse(id)
			require.NoError(t, err)

			record, ok, err := store.Get(ctx, id)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "demo", record.Name)
			assert.NotEmpty(t, record.Payload)

			loaded, err := LoadNetwork(ctx, store, id, net.FromLayer(), net.ToLayer())
			require.NoError(t, err)
			assert.Equal(t, net.Neurons(), loaded.Neurons())
			assert.Equal(t, net.NetworkDepth(), loaded.NetworkDepth())

			want, err := net.Compute([]float64{0.5})
			require.NoError(t, err)
			got, err := loaded.Compute([]float64{0.5})
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestStoreListAndDelete(t *testing.T) {
	for kind, store := range storeBackends(t) {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Init(ctx))
			t.Cleanup(func() { _ = CloseIfSupported(store) })

			require.NoError(t, store.Put(ctx, Record{ID: "b", Name: "second", Payload: []byte{2}}))
			require.NoError(t, store.Put(ctx, Record{ID: "a", Name: "first", Payload: []byte{1}}))
			require.NoError(t, store.Put(ctx, Record{ID: "a", Name: "first-updated", Payload: []byte{3}}))

			ids, err := store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, ids)

			record, ok, err := store.Get(ctx, "a")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "first-updated", record.Name)
			assert.Equal(t, []byte{3}, record.Payload)

			require.NoError(t, store.Delete(ctx, "a"))
			_, ok, err = store.Get(ctx, "a")
			require.NoError(t, err)
			assert.False(t, ok)

			ids, err = store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"b"}, ids)
		})
	}
}

func TestLoadNetworkNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	_, err := LoadNetwork(ctx, store, "missing", nil, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoadNetworkCorruptPayload(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))
	require.NoError(t, store.Put(ctx, Record{ID: "bad", Name: "bad", Payload: []byte("garbage")}))

	_, err := LoadNetwork(ctx, store, "bad", nil, nil)
	require.Error(t, err)
}

func TestMemoryStoreCopiesPayload(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	payload := []byte{1, 2, 3}
	require.NoError(t, store.Put(ctx, Record{ID: "x", Payload: payload}))
	payload[0] = 9

	record, ok, err := store.Get(ctx, "x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, record.Payload)
}

func TestStoreRequiresInit(t *testing.T) {
	ctx := context.Background()

	memory := NewMemoryStore()
	require.Error(t, memory.Put(ctx, Record{ID: "x"}))
	_, _, err := memory.Get(ctx, "x")
	require.Error(t, err)
	require.Error(t, memory.Delete(ctx, "x"))
	_, err = memory.List(ctx)
	require.Error(t, err)

	sqlite := NewSQLiteStore(filepath.Join(t.TempDir(), "uninit.db"))
	_, _, err = sqlite.Get(ctx, "x")
	require.Error(t, err)
	require.Error(t, sqlite.Delete(ctx, "x"))
	_, err = sqlite.List(ctx)
	require.Error(t, err)
	require.NoError(t, sqlite.Close())

	require.Error(t, NewSQLiteStore("").Init(ctx))
}

func TestNewStore(t *testing.T) {
	store, err := NewStore("", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = NewStore("sqlite", filepath.Join(t.TempDir(), "n.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)

	_, err = NewStore("postgres", "")
	require.Error(t, err)

	require.NoError(t, CloseIfSupported(NewMemoryStore()))
}
