package store

import (
	"context"
	"errors"
)

// DefaultQuota mirrors the per-origin limit of browser local storage.
const DefaultQuota = 5 << 20

// ErrQuotaExceeded is returned by SetMany when the write would push the
// store above its quota. The prior contents are left untouched.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// KV is a small durable string key-value store.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// SetMany writes every entry or, with a SQLite or memory backend, none.
	SetMany(ctx context.Context, entries map[string]string) error
	Delete(ctx context.Context, key string) error
	// Size reports the bytes used by all keys and values.
	Size(ctx context.Context) (int, error)
	Close() error
}

type options struct {
	quota int
}

// Option configures a KV backend.
type Option func(*options)

// WithQuota caps the store at n bytes. Zero or less disables the cap.
func WithQuota(n int) Option {
	return func(o *options) { o.quota = n }
}

func buildOptions(opts []Option) options {
	o := options{quota: DefaultQuota}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func entrySize(key, value string) int {
	return len(key) + len(value)
}
