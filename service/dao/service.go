// Package dao defines storage of kernel snapshots.
package dao

import (
	"context"
)

// Service stores entities of type T keyed by K. Implementations return
// ErrNotFound for a missing key.
type Service[K comparable, T any] interface {
	// Save inserts or replaces t under its key.
	Save(ctx context.Context, t *T) error
	// Load returns the entity stored under id.
	Load(ctx context.Context, id K) (*T, error)
	// Delete removes the entity stored under id.
	Delete(ctx context.Context, id K) error
	// List returns every entity matching all parameters.
	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
