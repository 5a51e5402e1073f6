package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var (
	ErrSeedBadStatus   = errors.New("seed bad status")
	ErrSeedUnavailable = errors.New("seed unavailable")
	ErrSeedInvalid     = errors.New("seed has no products list")
)

//go:embed seed_products.json
var defaultSeed []byte

// SeedSource yields the raw "products" list of the static seed document.
type SeedSource interface {
	Fetch(ctx context.Context) (json.RawMessage, error)
}

type seedDoc struct {
	Products json.RawMessage `json:"products"`
}

func decodeSeed(r io.Reader) (json.RawMessage, error) {
	var doc seedDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	trimmed := bytes.TrimSpace(doc.Products)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrSeedInvalid
	}
	return doc.Products, nil
}

const seedFetchTimeout = 15 * time.Second

// HTTPSeed GETs the seed document once, never retrying. The default client
// caps the request at seedFetchTimeout since the shared cold-start fetch
// outlives any single caller's context.
type HTTPSeed struct {
	URL    string
	Client *http.Client
}

func NewHTTPSeed(url string) *HTTPSeed {
	return &HTTPSeed{URL: url, Client: &http.Client{Timeout: seedFetchTimeout}}
}

func (s *HTTPSeed) Fetch(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status=%d", ErrSeedBadStatus, resp.StatusCode)
	}

	return decodeSeed(resp.Body)
}

type FileSeed struct {
	Path string
}

func (s FileSeed) Fetch(ctx context.Context) (json.RawMessage, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeedUnavailable, err)
	}
	defer f.Close()

	return decodeSeed(f)
}

// BytesSeed serves an in-memory document, by default the one bundled with
// the binary.
type BytesSeed []byte

func (s BytesSeed) Fetch(ctx context.Context) (json.RawMessage, error) {
	if s == nil {
		s = defaultSeed
	}
	return decodeSeed(bytes.NewReader(s))
}

// NewSeedSource picks a source from a location: empty for the bundled seed,
// an http(s) URL, or a file path (optionally file://).
func NewSeedSource(loc string) SeedSource {
	switch {
	case loc == "":
		return BytesSeed(nil)
	case strings.HasPrefix(loc, "http://"), strings.HasPrefix(loc, "https://"):
		return NewHTTPSeed(loc)
	default:
		return FileSeed{Path: strings.TrimPrefix(loc, "file://")}
	}
}
