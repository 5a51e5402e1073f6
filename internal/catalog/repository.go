package catalog

import (
	"context"
	"encoding/json"

	"FruitStore/internal/storage"
)

// Repository holds the catalog snapshot exactly as it was imported or edited
// by the admin tool.
type Repository interface {
	LoadCatalog(ctx context.Context) (json.RawMessage, bool, error)
	SaveCatalog(ctx context.Context, raw json.RawMessage) error
	Ping(ctx context.Context) error
}

type KVRepository struct {
	kv  storage.KV
	doc storage.Doc[json.RawMessage]
}

func NewKVRepository(kv storage.KV) *KVRepository {
	return &KVRepository{kv: kv, doc: storage.NewDoc[json.RawMessage](kv, storage.KeyProducts)}
}

func (r *KVRepository) LoadCatalog(ctx context.Context) (json.RawMessage, bool, error) {
	return r.doc.Load(ctx)
}

func (r *KVRepository) SaveCatalog(ctx context.Context, raw json.RawMessage) error {
	return r.doc.Save(ctx, raw)
}

func (r *KVRepository) Ping(ctx context.Context) error {
	return r.kv.Ping(ctx)
}
