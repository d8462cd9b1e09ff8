package securestore

import "context"

// Keys used by the auth and OTP flows. Values are opaque strings; the store
// never interprets them.
const (
	KeyAuthToken    = "auth_token"
	KeyRefreshToken = "refresh_token"
	KeyUserID       = "user_id"
)

// Store is an opaque persistent key-value store for secrets. The production
// deployments back it with Valkey or Postgres; tests and the CLI default to
// the in-memory implementation.
//
// Implementations must serialize writes per key. Concurrent sign-in/sign-up
// calls sharing the same process race on the same keys with last-writer-wins
// semantics; that is accepted behavior, not corruption.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
