// Package storage keeps network checkpoints in memory or in SQLite.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/baldhumanity/neat-synapse/neat/nn"
)

// ErrNotFound is returned when no network is stored under an ID.
var ErrNotFound = errors.New("network not found")

var errNotInitialized = errors.New("store is not initialized")

// Record is one stored network checkpoint.
type Record struct {
	ID      string
	Name    string
	Payload []byte // nn.SaveNetwork output
}

// Store defines persistence operations for network checkpoints.
type Store interface {
	Init(ctx context.Context) error
	Put(ctx context.Context, record Record) error
	Get(ctx context.Context, id string) (Record, bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// SaveNetwork checkpoints net under a new UUID and returns the ID.
func SaveNetwork(ctx context.Context, store Store, name string, net *nn.Network) (string, error) {
	var buf bytes.Buffer
	if err := nn.SaveNetwork(&buf, net); err != nil {
		return "", err
	}

	id := uuid.NewString()
	if err := store.Put(ctx, Record{ID: id, Name: name, Payload: buf.Bytes()}); err != nil {
		return "", fmt.Errorf("store network %s: %w", id, err)
	}
	return id, nil
}

// LoadNetwork restores the network stored under id and links it to the given layers.
func LoadNetwork(ctx context.Context, store Store, id string, fromLayer, toLayer nn.Layer) (*nn.Network, error) {
	record, ok, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	net, err := nn.LoadNetwork(bytes.NewReader(record.Payload), fromLayer, toLayer)
	if err != nil {
		return nil, fmt.Errorf("decode network %s: %w", id, err)
	}
	return net, nil
}
