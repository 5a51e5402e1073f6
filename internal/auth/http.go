package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"FruitStore/pkg/kit"
)

type Server struct {
	Log      *zap.Logger
	Service  *Service
	JWT      *TokenMaker
	TokenTTL time.Duration
	Limiter  *kit.IPRateLimiter
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

func (s *Server) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		if s.Limiter != nil {
			r.Use(s.Limiter.Middleware)
		}
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
	})
	r.Post("/auth/logout", s.handleLogout)
	r.Get("/auth/session", s.handleSession)
	r.Get("/auth/whoami", s.handleWhoAmI)
	r.Get("/admin/check", s.handleAdminCheck)
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	User        Session `json:"user"`
	AccessToken string  `json:"access_token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	sess, err := s.Service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}

	tok, err := s.JWT.New(sess, s.ttl())
	if err != nil {
		s.Log.Error("token issue", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, loginResp{User: sess, AccessToken: tok})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var c Candidate
	if err := kit.DecodeJSON(w, r, &c); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	u, err := s.Service.Register(r.Context(), c)
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, map[string]any{"user": u.Session()})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	redirect, err := s.Service.Logout(r.Context())
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]string{"redirect": redirect})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok, err := s.Service.CurrentUser(r.Context())
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}
	var user *Session
	if ok {
		user = &sess
	}
	kit.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	tok, ok := kit.BearerToken(r)
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
		return
	}

	claims, err := s.JWT.Parse(tok)
	if err != nil {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"user_id":  claims.UserID,
		"username": claims.Username,
		"role":     claims.Role,
	})
}

func (s *Server) handleAdminCheck(w http.ResponseWriter, r *http.Request) {
	acc, err := s.Service.CheckAdminAccess(r.Context())
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}
	if !acc.Allowed {
		kit.WriteError(w, r, http.StatusForbidden, acc.Notice, map[string]string{"redirect": acc.Redirect})
		return
	}
	kit.WriteJSON(w, http.StatusOK, acc)
}

// RequireAdmin gates a route on the current session holding the admin role.
func RequireAdmin(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acc, err := svc.CheckAdminAccess(r.Context())
			if err != nil {
				svc.Log.Error("admin check failed", zap.Error(err))
				kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
				return
			}
			if !acc.Allowed {
				kit.WriteError(w, r, http.StatusForbidden, acc.Notice, map[string]string{"redirect": acc.Redirect})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, ErrUsernameTaken):
		kit.WriteError(w, r, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, ErrInvalidCandidate):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	default:
		s.Log.Error("session store", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func (s *Server) ttl() time.Duration {
	if s.TokenTTL <= 0 {
		return 15 * time.Minute
	}
	return s.TokenTTL
}
