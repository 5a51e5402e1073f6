package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"FruitStore/pkg/kit"
)

type Server struct {
	Loader   *Loader
	Cart     Cart
	Notifier Notifier
	Log      *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

func (s *Server) Register(r chi.Router) {
	r.Get("/products", s.list(AllProducts))
	r.Get("/products/{id}", s.get)
	r.Get("/search", s.search(AllProducts))

	r.Get("/cut-fruit", s.list(CutFruit))
	r.Get("/cut-fruit/search", s.search(CutFruit))

	r.Post("/cart/items", s.addToCart)
}

type listResp struct {
	Variant    string       `json:"variant"`
	Filter     Filter       `json:"filter"`
	Items      []Product    `json:"items"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Summary    string       `json:"summary"`
	Controls   Controls     `json:"controls"`
	Brackets   BracketTable `json:"brackets"`
}

func (s *Server) list(v Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		f, details := parseFilter(v, q.Get("category"), q.Get("price"), q.Get("sort"))
		if details != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "bad filter", details)
			return
		}

		page := 1
		if raw := q.Get("page"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				kit.WriteError(w, r, http.StatusBadRequest, "bad page", map[string]any{"page": raw})
				return
			}
			page = n
		}

		e, ok := s.engine(w, r, v)
		if !ok {
			return
		}

		view := NewView(e, f)
		p, _ := view.ChangePage(page)

		kit.WriteJSON(w, http.StatusOK, listResp{
			Variant:    v.Name,
			Filter:     view.Filter(),
			Items:      p.Items,
			Total:      p.Total,
			Page:       p.Current,
			TotalPages: p.TotalPages,
			Summary:    p.Summary(),
			Controls:   view.Controls(),
			Brackets:   e.Brackets(),
		})
	}
}

func parseFilter(v Variant, category, bracket, sort string) (Filter, map[string]any) {
	f := Filter{Bracket: bracket}
	if v.AllowCategory {
		f.Category = category
	}

	if !v.Brackets.Valid(bracket) {
		return Filter{}, map[string]any{"price": bracket}
	}
	key, ok := ParseSort(sort)
	if !ok {
		return Filter{}, map[string]any{"sort": sort}
	}
	f.Sort = key
	return f, nil
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad id", map[string]any{"id": raw})
		return
	}

	e, ok := s.engine(w, r, AllProducts)
	if !ok {
		return
	}

	p, found := e.Find(id)
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) search(v Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := s.engine(w, r, v)
		if !ok {
			return
		}
		s.Loader.Metrics.observeSearch()
		kit.WriteJSON(w, http.StatusOK, e.Search(r.URL.Query().Get("q")))
	}
}

type addToCartReq struct {
	ProductID int64  `json:"product_id"`
	Variant   string `json:"variant,omitempty"`
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	v, ok := VariantByName(req.Variant)
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "unknown variant", map[string]any{"variant": req.Variant})
		return
	}

	e, ok := s.engine(w, r, v)
	if !ok {
		return
	}

	p, err := e.AddToCart(r.Context(), s.Cart, s.Notifier, req.ProductID)
	switch {
	case errors.Is(err, ErrProductNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"product_id": req.ProductID})
	case err != nil:
		s.logger().Error("add to cart failed", zap.Error(err), zap.Int64("product_id", req.ProductID))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	default:
		kit.WriteJSON(w, http.StatusCreated, p)
	}
}

// engine loads the catalog for one request. A load failure renders the
// catalog error state; there is never a partial catalog.
func (s *Server) engine(w http.ResponseWriter, r *http.Request, v Variant) (*Engine, bool) {
	e, err := s.Loader.LoadVariant(r.Context(), v)
	if err != nil {
		s.logger().Error("catalog load failed", zap.Error(err), zap.String("variant", v.Name))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
		return nil, false
	}
	return e, true
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
