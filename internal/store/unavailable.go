package store

import "context"

// UnavailableKV stands in for a backend that could not be opened. Every
// operation fails with the open error, so the gateway's availability probe
// switches the session to memory-only mode.
type UnavailableKV struct {
	err error
}

// NewUnavailableKV wraps the error that prevented a backend from opening.
func NewUnavailableKV(err error) *UnavailableKV {
	return &UnavailableKV{err: err}
}

func (u *UnavailableKV) Get(context.Context, string) (string, bool, error) {
	return "", false, u.err
}

func (u *UnavailableKV) SetMany(context.Context, map[string]string) error { return u.err }

func (u *UnavailableKV) Delete(context.Context, string) error { return u.err }

func (u *UnavailableKV) Size(context.Context) (int, error) { return 0, u.err }

func (u *UnavailableKV) Close() error { return nil }
