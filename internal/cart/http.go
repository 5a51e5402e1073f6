package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"FruitStore/pkg/kit"
)

type Server struct {
	Cart *Manager
}

type cartResp struct {
	Lines   []Line   `json:"lines"`
	Total   int64    `json:"total"`
	Notices []Notice `json:"notices"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.get)
	r.Delete("/", s.clear)
	return r
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	total, err := s.Cart.Total()
	if err != nil {
		kit.WriteError(w, r, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	lines := s.Cart.Lines()
	if lines == nil {
		lines = []Line{}
	}
	notices := s.Cart.Notices()
	if notices == nil {
		notices = []Notice{}
	}
	kit.WriteJSON(w, http.StatusOK, cartResp{Lines: lines, Total: total, Notices: notices})
}

func (s *Server) clear(w http.ResponseWriter, _ *http.Request) {
	s.Cart.Clear()
	w.WriteHeader(http.StatusNoContent)
}
