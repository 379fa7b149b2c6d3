package repositories

import "context"

// UnitOfWork executes a function within a single transaction scope. The
// context passed to fn carries the transaction; repositories pick it up
// transparently.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error

	// WithLock marks the context so repository reads take a row lock for
	// the remainder of the transaction. Only meaningful inside Do.
	WithLock(ctx context.Context) context.Context
}
