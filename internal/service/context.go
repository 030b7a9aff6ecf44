package service

import (
	"context"
	"time"
)

// SessionContext carries the identity of the logged-in user through one
// request. It is built by the session middleware at the edge and passed
// explicitly into every orchestration call; it is never global state.
type SessionContext struct {
	UserID  string
	Email   string
	JTI     string
	IDToken string
}

// KV is the narrow cache surface the services need. Backed by Redis in
// production and by an in-memory map in tests.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
