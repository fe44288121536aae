package sequence

import "context"

// CounterRepository defines the interface for counter persistence.
type CounterRepository interface {
	// Increment atomically advances the named counter and returns the
	// post-increment value, creating the counter (seeded at zero) if it does
	// not exist. The read-modify-write must be a single storage operation:
	// two concurrent callers never observe the same value.
	Increment(ctx context.Context, name string) (int64, error)

	// Current returns the counter's current value without advancing it.
	// A counter that has never been incremented reports zero.
	Current(ctx context.Context, name string) (int64, error)
}
