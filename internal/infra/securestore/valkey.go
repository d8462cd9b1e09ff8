package securestore

import (
	"context"

	"github.com/valkey-io/valkey-go"
)

// ValkeyStore persists secrets in a Valkey-compatible database. Useful when
// the SDK runs server-side (bots, schedulers) and sessions must survive
// process restarts.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "neuronote"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (string, bool, error) {
	cmd := s.client.B().Get().Key(s.storeKey(key)).Build()
	value, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key, value string) error {
	cmd := s.client.B().Set().Key(s.storeKey(key)).Value(value).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Delete(ctx context.Context, key string) error {
	cmd := s.client.B().Del().Key(s.storeKey(key)).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) storeKey(key string) string {
	return s.prefix + ":secret:" + key
}
