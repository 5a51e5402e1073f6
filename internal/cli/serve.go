package cli

import (
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"FruitStore/internal/auth"
	"FruitStore/internal/cart"
	"FruitStore/internal/catalog"
	"FruitStore/internal/server"
	"FruitStore/pkg/kit"
)

func newServeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront HTTP API",
		Args:  cobra.NoArgs,
		RunE:  withApp(v, runServe),
	}
	cmd.Flags().String("addr", "", "listen address")
	_ = v.BindPFlag("http.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func runServe(ctx context.Context, a *app, _ io.Writer, _ []string) error {
	if err := a.cfg.ValidateServe(); err != nil {
		return err
	}

	if created, err := a.auth.InitializeDefaults(ctx); err != nil {
		return err
	} else if created {
		a.log.Info("seeded default accounts")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a.loader.Metrics = catalog.NewMetrics(reg)
	a.auth.Metrics = auth.NewMetrics(reg)

	// Warm the catalog so a broken seed shows up at startup rather than on the
	// first page view. Serving continues either way.
	if _, err := a.loader.Load(ctx); err != nil {
		a.log.Warn("catalog warm-up failed", zap.Error(err))
	}

	h := server.NewHandler(
		server.Deps{
			Store:         a.kv,
			Loader:        a.loader,
			Auth:          a.auth,
			JWT:           auth.NewTokenMaker(a.cfg.Auth.JWTSecret),
			TokenTTL:      a.cfg.Auth.TokenTTL,
			Cart:          cart.NewManager(a.log),
			AuthRateLimit: a.cfg.Auth.RateLimit,
		},
		server.HTTPDeps{
			Log:            a.log,
			Service:        service,
			Registry:       reg,
			MetricsEnabled: a.cfg.Metrics.Enabled,
			MetricsToken:   a.cfg.Metrics.Token,
		},
	)

	return kit.RunHTTPServer(ctx, a.cfg.HTTP.Addr, h, a.log)
}
