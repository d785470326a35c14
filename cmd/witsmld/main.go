// witsmld hosts the WITSML 1.4.1.1 log persistence stack: store, adapter
// registry and batch archival, with health and metrics endpoints. Client
// transports (SOAP, ETP websocket) bind in separate processes.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/PetrotechnicalDataSystems/witsml-server/internal/adapter"
	_ "github.com/PetrotechnicalDataSystems/witsml-server/internal/adapter/log"
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/archive"
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/config"
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/logging"
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/metrics"
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/store"
	"github.com/PetrotechnicalDataSystems/witsml-server/internal/units"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "witsmld",
		Short: "WITSML log persistence server",
		Long:  "witsmld persists WITSML 1.4.1.1 Log objects: headers, curve metadata and bulk channel data, with derived index ranges and ETP discovery metadata.",
	}
	rootCmd.PersistentFlags().String("config", "", "path to a config file (YAML or TOML)")

	rootCmd.AddCommand(serveCmd(), migrateCmd(), capabilitiesCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	reg := prometheus.NewRegistry()
	deps := adapter.Deps{
		Store:   st,
		Units:   units.Default(),
		Logger:  logger,
		Metrics: metrics.NewRecorder(reg),
	}

	arch, err := buildArchiver(ctx, cfg.Archive)
	if err != nil {
		logger.Warn("archive init failed (archival disabled)", "error", err)
	} else if arch != nil {
		deps.Archiver = arch
		logger.Info("batch archival enabled", "bucket", cfg.Archive.Bucket)
	}

	caps, err := adapter.Advertise(adapter.DefaultRegistry(), deps)
	if err != nil {
		return fmt.Errorf("build adapters: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.HandleFunc("/capabilities", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(caps)
	})

	srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Info("witsmld serving",
		"addr", cfg.Metrics.Addr,
		"driver", cfg.Database.Driver,
		"adapters", len(caps),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns)
	case "sqlite":
		return store.NewSQLite(cfg.DSN)
	case "memory":
		return store.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

func buildArchiver(ctx context.Context, cfg config.ArchiveConfig) (*archive.Archiver, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	var objects archive.ObjectStore
	if cfg.LocalDir != "" {
		objects = archive.NewLocalStore(cfg.LocalDir)
	} else {
		client, err := archive.NewS3Client(archive.S3Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Region:    cfg.Region,
			UseSSL:    cfg.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		objects = client
	}
	if err := objects.EnsureBucket(ctx, cfg.Bucket); err != nil {
		return nil, err
	}

	return archive.New(objects, archive.Config{
		Bucket:           cfg.Bucket,
		Prefix:           cfg.Prefix,
		UploadsPerMinute: cfg.UploadsPerMinute,
	}), nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply postgres schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Database.Driver != "postgres" {
				return fmt.Errorf("migrate applies to the postgres driver, config has %q", cfg.Database.Driver)
			}
			p, err := store.NewPostgres(cmd.Context(), cfg.Database.DSN, 2, 2)
			if err != nil {
				return err
			}
			defer p.Close()
			if err := store.MigratePostgres(p.DB()); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
}

func capabilitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "Print the capability document for all registered adapters",
		RunE: func(cmd *cobra.Command, args []string) error {
			caps, err := adapter.Advertise(adapter.DefaultRegistry(), adapter.Deps{Store: store.NewMemory()})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(caps)
		},
	}
}
