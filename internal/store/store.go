// Package store holds short-lived key/value records shared by the widget
// sessions of one or more server instances: an in-memory expirable LRU for a
// single process, or Redis/Valkey when several instances serve the same users.
package store

import "github.com/rs/zerolog"

// EvictCallback is called when an entry is evicted from the store.
// Not all providers support eviction callbacks (Redis expires keys server-side).
type EvictCallback func(key string, value []byte)

// Store defines a key-value store with bounded lifetime entries.
type Store interface {
	// Get retrieves a value by key. Returns the value and true if found, or nil and false if not.
	Get(key string) ([]byte, bool)

	// Set stores a value with the given key, overwriting any previous value.
	// An error means the value was not stored.
	Set(key string, value []byte) error

	// Delete removes a key. Deleting an absent key is a no-op.
	Delete(key string)

	// Len returns the number of live entries.
	Len() int

	// Close releases any resources held by the store (e.g., network connections).
	Close() error
}

// Logger receives error reports from store operations that have no error return.
type Logger interface {
	Error(msg string, err error)
}

type zerologAdapter struct {
	logger zerolog.Logger
}

// NewLogger adapts a zerolog logger to the store Logger interface.
func NewLogger(logger zerolog.Logger) Logger {
	return zerologAdapter{logger: logger}
}

func (z zerologAdapter) Error(msg string, err error) {
	z.logger.Error().Err(err).Msg(msg)
}
