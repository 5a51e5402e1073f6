package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"FruitStore/internal/auth"
	"FruitStore/internal/cart"
	"FruitStore/internal/catalog"
	"FruitStore/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Deps struct {
	Store    Pinger
	Loader   *catalog.Loader
	Auth     *auth.Service
	JWT      *auth.TokenMaker
	TokenTTL time.Duration
	Cart     *cart.Manager

	// Credential endpoints allow this many attempts per client IP per minute.
	// Zero disables the limit.
	AuthRateLimit int
}

type Pinger interface {
	Ping(ctx context.Context) error
}

const readyTimeout = 2 * time.Second

func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	log := httpDeps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps.Store, log))

	catalogSrv := &catalog.Server{
		Loader:   deps.Loader,
		Cart:     deps.Cart,
		Notifier: deps.Cart,
		Log:      log,
	}
	authSrv := &auth.Server{
		Log:      log,
		Service:  deps.Auth,
		JWT:      deps.JWT,
		TokenTTL: deps.TokenTTL,
	}
	if deps.AuthRateLimit > 0 {
		authSrv.Limiter = kit.NewIPRateLimiter(deps.AuthRateLimit, time.Minute)
	}

	catalogSrv.Register(r)
	authSrv.Register(r)
	r.Group(func(ar chi.Router) {
		ar.Use(auth.RequireAdmin(deps.Auth))
		catalogSrv.RegisterAdmin(ar)
	})
	r.Mount("/cart", (&cart.Server{Cart: deps.Cart}).Routes())

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(store Pinger, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			w.WriteHeader(http.StatusOK)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			log.Warn("readyz failed: store", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "store not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
