package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"FruitStore/pkg/kit"
)

var ErrNotProductList = errors.New("catalog must be a JSON array of products")

// Replace overwrites the stored snapshot with raw. It is the out-of-band edit
// path; the next Load on any page sees the new list. Products are kept
// exactly as sent.
func (l *Loader) Replace(ctx context.Context, raw json.RawMessage) (int, error) {
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil || products == nil {
		return 0, ErrNotProductList
	}
	if err := l.Repo.SaveCatalog(ctx, raw); err != nil {
		return 0, fmt.Errorf("save catalog: %w", err)
	}
	l.Log.Info("catalog replaced", zap.Int("products", len(products)))
	return len(products), nil
}

// RegisterAdmin adds catalog maintenance routes. Callers register them behind
// an admin gate.
func (s *Server) RegisterAdmin(r chi.Router) {
	r.Put("/admin/catalog", s.replace)
}

func (s *Server) replace(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, kit.MaxBodyBytes)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		kit.WriteError(w, r, http.StatusRequestEntityTooLarge, "body too large", nil)
		return
	}

	n, err := s.Loader.Replace(r.Context(), raw)
	switch {
	case errors.Is(err, ErrNotProductList):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case err != nil:
		s.logger().Error("catalog replace failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	default:
		kit.WriteJSON(w, http.StatusOK, map[string]int{"products": n})
	}
}
