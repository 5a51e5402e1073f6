package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"FruitStore/internal/auth"
	"FruitStore/internal/catalog"
	"FruitStore/internal/config"
	"FruitStore/internal/storage"
	"FruitStore/pkg/kit"
)

const service = "fruitstore"

// NewRootCommand builds the fruitstore command tree. Every subcommand reads
// its settings through v, so flags, fruitstore.yaml and FRUITSTORE_* env vars
// all apply.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "fruitstore",
		Short: "Fruit storefront catalog and session store",
		Long: `fruitstore serves the product catalog, live search, cart and user sessions
over HTTP, and offers the same operations from the command line against the
configured local store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("store-driver", "", "store backend (memory|sqlite|postgres)")
	pf.String("store-dsn", "", "sqlite file or postgres connection string")
	pf.String("seed", "", "catalog seed URL or file; empty uses the bundled catalog")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.Bool("log-dev", false, "human-readable console logs")
	_ = v.BindPFlag("store.driver", pf.Lookup("store-driver"))
	_ = v.BindPFlag("store.dsn", pf.Lookup("store-dsn"))
	_ = v.BindPFlag("catalog.seed", pf.Lookup("seed"))
	_ = v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = v.BindPFlag("log.dev", pf.Lookup("log-dev"))

	root.AddCommand(
		newServeCommand(v),
		newProductsCommand(v),
		newSearchCommand(v),
		newUsersCommand(v),
		newLoginCommand(v),
		newLogoutCommand(v),
		newWhoAmICommand(v),
	)
	return root
}

// app is the wiring shared by every subcommand.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	kv     storage.KV
	loader *catalog.Loader
	auth   *auth.Service
	close  func() error
}

func openApp(ctx context.Context, v *viper.Viper) (*app, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	log, err := kit.NewLogger(service, cfg.Log.Level, cfg.Log.Dev)
	if err != nil {
		return nil, err
	}

	kv, closeFn, err := storage.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &app{
		cfg:    cfg,
		log:    log,
		kv:     kv,
		loader: catalog.NewLoader(catalog.NewKVRepository(kv), catalog.NewSeedSource(cfg.Catalog.Seed), log),
		auth:   auth.NewService(auth.NewKVRepository(kv), log),
		close: func() error {
			defer func() { _ = log.Sync() }()
			return closeFn()
		},
	}, nil
}

// withApp opens the app for one command run and closes it afterwards.
func withApp(v *viper.Viper, fn func(ctx context.Context, a *app, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), v)
		if err != nil {
			return err
		}
		defer func() { _ = a.close() }()
		return fn(cmd.Context(), a, cmd.OutOrStdout(), args)
	}
}
