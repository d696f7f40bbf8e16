// Package persistence mirrors session and roster state into a local key-value
// store and replays it at startup.
package persistence

import (
	"context"
	"errors"
)

// Keys written by the Bridge.
const (
	// KeyUser holds the logged-in username on its own, removed on logout.
	KeyUser = "user"
	// KeySnapshot holds the full session and teams snapshot as JSON.
	KeySnapshot = "persist:root"
)

// ErrEmptyKey is returned by providers when asked for a blank key.
var ErrEmptyKey = errors.New("persistence key is required")

// Provider is a synchronous string key-value store.
type Provider interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
