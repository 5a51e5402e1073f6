package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Keys shared by every page that reads or writes the local store.
const (
	KeyProducts = "clean_fruit_products"
	KeyUsers    = "clean_fruit_users"
	KeySession  = "current_user"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// KV is a synchronous string-keyed store. Writes are atomic per key and the
// last writer wins; there are no multi-key transactions.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// Doc is a JSON document stored under a single key.
type Doc[T any] struct {
	KV  KV
	Key string
}

func NewDoc[T any](kv KV, key string) Doc[T] {
	return Doc[T]{KV: kv, Key: key}
}

// Load decodes the value under the key. ok is false when the key is absent.
func (d Doc[T]) Load(ctx context.Context) (v T, ok bool, err error) {
	raw, ok, err := d.KV.Get(ctx, d.Key)
	if err != nil || !ok {
		return v, false, err
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, true, fmt.Errorf("decode %s: %w", d.Key, err)
	}
	return v, true, nil
}

func (d Doc[T]) Save(ctx context.Context, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.Key, err)
	}
	return d.KV.Set(ctx, d.Key, string(b))
}

func (d Doc[T]) Delete(ctx context.Context) error {
	return d.KV.Delete(ctx, d.Key)
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
