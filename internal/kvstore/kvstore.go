package kvstore

import "context"

// Store is durable string-keyed storage. Every stateful workspace
// component reads and writes through an injected Store, never a
// hidden singleton, so tests can swap in the in-memory
// implementation.
//
// Get reports whether the key existed; a stored empty string and a
// missing key are different things.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
