// Package storage provides the key-value Persistent Store the feed keeps its
// state in. Every backend stores opaque strings under string keys; callers own
// the serialization.
package storage

import "context"

// Keys read and written by the application.
const (
	KeyPosts       = "posts"
	KeyUsers       = "users"
	KeyCurrentUser = "currentUser"
)

// Store is a string-keyed store that survives process restarts (except for
// the memory backend).
type Store interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Close releases the backend's resources.
	Close() error
}
