package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/eir"
	"github.com/sagarc03/eir/cache"
	"github.com/sagarc03/eir/cache/leveldb"
	"github.com/sagarc03/eir/config"
	"github.com/sagarc03/eir/database"
	"github.com/sagarc03/eir/generator"
	eirhttp "github.com/sagarc03/eir/http"
	"github.com/sagarc03/eir/logging"
	"github.com/sagarc03/eir/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the file server",
	Long:  `Start Eirserver and serve the document root until a signal or the shutdown path stops it.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Bool("admin", false, "enable the admin HTTP API")
	serveCmd.Flags().String("admin-addr", "", "admin API listen address (default: 127.0.0.1:8081)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	logger, err := logging.Setup(logging.Config{
		Type:      cfg.Log.Type,
		File:      cfg.Log.File,
		Level:     cfg.Log.Level,
		Env:       cfg.Log.Env,
		Verbosity: eir.Verbosity(cfg.Log.Verbosity),
	})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer func() { _ = logger.Close() }()

	logger.SetDefault()
	logger.Start()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("open cache store: %w", err)
	}
	freshness := cache.New(store, cfg.Cache.TTL())
	defer func() { _ = freshness.Close() }()

	slog.Info("cache ready", "backend", cfg.Cache.Backend, "ttl", cfg.Cache.TTL())

	root, err := eir.NewRequestPath(cfg.Server.RootDir)
	if err != nil {
		return fmt.Errorf("document root: %w", err)
	}

	parser := eir.NewParser(root, eir.DefaultMimeTypes().With(cfg.MIME))
	dispatcher := generator.New(generator.Config{
		ScriptExtension: cfg.Script.Extension,
		Shell:           cfg.Script.Shell,
		ScriptTimeout:   cfg.Script.Timeout,
	})
	pipeline := eir.NewPipeline(eir.PipelineConfig{
		ShutdownPath: cfg.Server.OffAddress,
		Version:      cfg.Server.HTTPVersion,
	}, parser, freshness, dispatcher, logger.Logger, logger)

	srv := server.New(server.Config{
		Addr:           cfg.Server.Addr(),
		RecvBufferSize: cfg.Server.RecvBufferSize,
		ReadTimeout:    cfg.Server.ReadTimeout,
	}, pipeline, logger.Logger)

	if err := srv.Listen(); err != nil {
		return err
	}

	if cfg.Admin.Enabled {
		shutdownAdmin, err := startAdmin(cfg.Admin, freshness)
		if err != nil {
			return err
		}
		defer shutdownAdmin()
	}

	slog.Info("serving", "addr", srv.Addr().String(), "root", root.Root(), "shutdown_path", cfg.Server.OffAddress)
	return srv.Serve(ctx)
}

func openStore(ctx context.Context, cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case "memory":
		return cache.NewMemoryStore(cfg.MaxEntries)
	case "leveldb":
		return leveldb.Open(cfg.Path)
	case "sqlite", "postgres":
		return database.Connect(ctx, database.Config{
			Type:  cfg.Backend,
			DSN:   cfg.DSN,
			Table: cfg.Table,
		})
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}

// startAdmin starts the admin API in the background and returns its
// shutdown function.
func startAdmin(cfg config.AdminConfig, freshness eirhttp.CacheAdmin) (func(), error) {
	handler := eirhttp.NewHandler(&eirhttp.HandlerConfig{
		Token: cfg.Token,
		CORS: eirhttp.CORSConfig{
			Enabled:          cfg.CORS.Enabled,
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   cfg.CORS.AllowedMethods,
			AllowedHeaders:   cfg.CORS.AllowedHeaders,
			ExposedHeaders:   cfg.CORS.ExposedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		},
	}, freshness)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen admin %s: %w", cfg.Addr, err)
	}

	admin := &http.Server{
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting admin API", "addr", cfg.Addr)
		if err := admin.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("admin API error", "err", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := admin.Shutdown(shutdownCtx); err != nil {
			slog.Error("admin API shutdown error", "err", err)
		}
	}, nil
}
