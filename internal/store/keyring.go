package store

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/99designs/keyring"
)

// KeyringServiceName is the service every item is filed under.
const KeyringServiceName = "project-tracker"

// KeyringKV stores each key as an item in the OS keyring.
//
// Keyrings have no transactions. SetMany checks the quota up front and then
// writes entries in key order, stopping at the first failure, so for this
// store's keys the data slot is always written before its version marker.
type KeyringKV struct {
	ring  keyring.Keyring
	quota int
}

// OpenKeyring opens the platform keyring, falling back to an encrypted file
// store under fileDir when no native backend is available.
func OpenKeyring(fileDir string, opts ...Option) (*KeyringKV, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: KeyringServiceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt("project-tracker-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewKeyringKV(ring, opts...), nil
}

// NewKeyringKV wraps an already opened keyring.
func NewKeyringKV(ring keyring.Keyring, opts ...Option) *KeyringKV {
	o := buildOptions(opts)
	return &KeyringKV{ring: ring, quota: o.quota}
}

func (k *KeyringKV) Get(_ context.Context, key string) (string, bool, error) {
	item, err := k.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting keyring item %q: %w", key, err)
	}
	return string(item.Data), true, nil
}

func (k *KeyringKV) SetMany(ctx context.Context, entries map[string]string) error {
	if k.quota > 0 {
		size, err := k.sizeAfter(entries)
		if err != nil {
			return err
		}
		if size > k.quota {
			return fmt.Errorf("%w: %d bytes, limit %d", ErrQuotaExceeded, size, k.quota)
		}
	}

	keys := slices.Sorted(maps.Keys(entries))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := k.ring.Set(keyring.Item{
			Key:   key,
			Data:  []byte(entries[key]),
			Label: KeyringServiceName + " " + key,
		})
		if err != nil {
			return fmt.Errorf("setting keyring item %q: %w", key, err)
		}
	}
	return nil
}

func (k *KeyringKV) Delete(_ context.Context, key string) error {
	err := k.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting keyring item %q: %w", key, err)
	}
	return nil
}

func (k *KeyringKV) Size(_ context.Context) (int, error) {
	return k.sizeAfter(nil)
}

func (k *KeyringKV) Close() error { return nil }

// sizeAfter returns the store size once pending has been written.
func (k *KeyringKV) sizeAfter(pending map[string]string) (int, error) {
	keys, err := k.ring.Keys()
	if err != nil {
		return 0, fmt.Errorf("listing keyring items: %w", err)
	}

	size := 0
	for _, key := range keys {
		if _, ok := pending[key]; ok {
			continue
		}
		item, err := k.ring.Get(key)
		if errors.Is(err, keyring.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("getting keyring item %q: %w", key, err)
		}
		size += entrySize(key, string(item.Data))
	}
	for key, value := range pending {
		size += entrySize(key, value)
	}
	return size, nil
}
