// Package store defines the persistence boundary of the engine.
//
// A KeyedStore is an ordered, durable mapping from string keys to string
// values. It is the only persistence primitive: every piece of engine state
// is serialized through the codec package and written under the key scheme in
// the keys package. Backends live in sub-packages (memory, postgres, mongo).
package store

import "context"

// KeyedStore is the storage interface all backends implement.
//
// Get returns streamless.ErrKeyNotFound (or an error wrapping it) for absent
// keys. Set overwrites unconditionally; there is no delete — the engine only
// ever tombstones values, never removes keys.
type KeyedStore interface {
	Has(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error

	Ping(ctx context.Context) error
	Close() error
}
