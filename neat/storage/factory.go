package storage

import "fmt"

// NewStore returns a store backend by kind: "memory" (the default) or "sqlite".
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// CloseIfSupported closes store if the backend holds resources.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
