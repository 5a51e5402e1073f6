package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrLoadFailed = errors.New("catalog load failed")

const (
	SourceStore = "store"
	SourceSeed  = "seed"
)

// Loader hydrates the catalog from the repository, importing the seed
// document on the first run only. Once a snapshot exists it is trusted as-is,
// even when empty, and the seed is never consulted again.
type Loader struct {
	Repo    Repository
	Seed    SeedSource
	Log     *zap.Logger
	Metrics *Metrics

	group singleflight.Group
}

func NewLoader(repo Repository, seed SeedSource, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{Repo: repo, Seed: seed, Log: log}
}

type snapshot struct {
	raw    json.RawMessage
	source string
}

// Load returns a fresh copy of the full catalog. Concurrent cold starts share
// a single seed import, which runs detached from any one caller so a
// cancelled request does not fail the others waiting on it.
func (l *Loader) Load(ctx context.Context) ([]Product, error) {
	shared := context.WithoutCancel(ctx)
	ch := l.group.DoChan("catalog", func() (any, error) {
		return l.snapshot(shared)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		l.Metrics.observeLoad("error")
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, ctx.Err())
	}
	if res.Err != nil {
		l.Metrics.observeLoad("error")
		return nil, res.Err
	}

	snap := res.Val.(snapshot)
	l.Metrics.observeLoad(snap.source)

	return l.decode(snap)
}

// decode parses the snapshot one record at a time. A record that does not
// fit Product is skipped so the rest of the catalog still serves.
func (l *Loader) decode(snap snapshot) ([]Product, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(snap.raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	products := make([]Product, 0, len(records))
	for i, rec := range records {
		var p Product
		if err := json.Unmarshal(rec, &p); err != nil {
			l.Log.Warn("skipping unreadable catalog record",
				zap.String("source", snap.source), zap.Int("index", i), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// LoadVariant loads the catalog and derives the variant's page catalog.
func (l *Loader) LoadVariant(ctx context.Context, v Variant) (*Engine, error) {
	products, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return v.Engine(products), nil
}

func (l *Loader) snapshot(ctx context.Context) (snapshot, error) {
	raw, ok, err := l.Repo.LoadCatalog(ctx)
	switch {
	case err != nil:
		l.Log.Warn("catalog snapshot unreadable, falling back to seed", zap.Error(err))
	case ok && isProductList(raw):
		return snapshot{raw: raw, source: SourceStore}, nil
	case ok:
		l.Log.Warn("catalog snapshot is not a product list, falling back to seed")
	}

	raw, err = l.Seed.Fetch(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	if err := l.Repo.SaveCatalog(ctx, raw); err != nil {
		l.Log.Warn("catalog write-back failed", zap.Error(err))
	} else {
		l.Log.Info("catalog imported from seed")
	}
	return snapshot{raw: raw, source: SourceSeed}, nil
}

func isProductList(raw json.RawMessage) bool {
	var probe []json.RawMessage
	return json.Unmarshal(raw, &probe) == nil && probe != nil
}
