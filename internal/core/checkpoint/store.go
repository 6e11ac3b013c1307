// Package checkpoint provides checkpoint persistence interfaces
package checkpoint

import "context"

// Store is the pluggable persistence contract for checkpoints, keyed by
// caller-chosen string identifiers (DIP - Dependency Inversion).
// PRINCIPLES:
// - ISP: interface segregation with ≤5 methods
// - DIP: core domain depends on this interface, not implementations
//
// No schema is imposed on S beyond what a concrete store chooses to
// serialize. Implementations decide their own durability and isolation
// guarantees; the reference in-memory store only defines the contract.
type Store[S any] interface {
	// Save persists a checkpoint under id, replacing any previous one.
	Save(ctx context.Context, id string, cp *Checkpoint[S]) error

	// Load retrieves a checkpoint by id, ErrNotFound when absent.
	Load(ctx context.Context, id string) (*Checkpoint[S], error)

	// Delete removes a checkpoint by id. Deleting an absent id is not
	// an error.
	Delete(ctx context.Context, id string) error

	// List returns all stored ids in lexicographic order.
	List(ctx context.Context) ([]string, error)

	// Clear removes every stored checkpoint.
	Clear(ctx context.Context) error
}
