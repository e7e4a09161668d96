package ezstorage

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("ezstorage: not found")
	ErrNoBackend     = errors.New("ezstorage: no storage backend available")
	ErrUnknownAction = errors.New("ezstorage: unknown action")
)

// Driver is a string key-value store used for the durable and session tiers.
// Get returns ErrNotFound for absent keys. Implementations must be
// thread-safe.
type Driver interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Availability is implemented by drivers that can be temporarily unusable.
// It is consulted on every Storage call.
type Availability interface {
	Available(ctx context.Context) bool
}

func available(ctx context.Context, d Driver) bool {
	if d == nil {
		return false
	}
	if a, ok := d.(Availability); ok {
		return a.Available(ctx)
	}
	return true
}

// Backend identifies the medium a call was served by.
type Backend int

const (
	BackendNone Backend = iota
	BackendDurable
	BackendSession
	BackendCookie
)

func (b Backend) String() string {
	switch b {
	case BackendDurable:
		return "durable"
	case BackendSession:
		return "session"
	case BackendCookie:
		return "cookie"
	default:
		return "none"
	}
}

// writeBackend picks the medium Set writes to. It only looks at its
// arguments; availability is evaluated by the caller for each call.
func writeBackend(storage, cookies bool, o Options) Backend {
	switch {
	case storage && (o.hasExpiry() || o.Persist):
		return BackendDurable
	case storage:
		return BackendSession
	case cookies:
		return BackendCookie
	default:
		return BackendNone
	}
}
