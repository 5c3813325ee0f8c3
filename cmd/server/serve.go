package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lanpresence/internal/config"
	"lanpresence/internal/handler"
	"lanpresence/internal/hub"
	"lanpresence/internal/logger"
	"lanpresence/internal/repository"
	"lanpresence/internal/repository/memory"
	"lanpresence/internal/repository/redis"
	"lanpresence/internal/repository/sqlite"
	"lanpresence/internal/service"
	"lanpresence/internal/watcher"
)

const (
	startupPingTimeout = 5 * time.Second
	shutdownTimeout    = 10 * time.Second
)

func runServe(cmd *cobra.Command, opts *options) error {
	cfg, path, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Log); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	log := logger.WithComponent("server")

	if path != "" {
		log.Info().Str("path", path).Msg("Loaded config")
	}
	log.Info().Msg(cfg.Summary())

	store, err := buildStore(cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close store")
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pingCtx, cancel := context.WithTimeout(ctx, startupPingTimeout)
	if err := store.Ping(pingCtx); err != nil {
		// Keep serving; /healthz reports the outage and requests fail with 500
		log.Warn().Err(err).Msg("Presence store is not reachable yet")
	}
	cancel()

	eventBus := service.NewEventBus()

	svc := service.NewPresenceService(store,
		service.WithFreshnessWindow(cfg.Presence.FreshnessWindow.Duration()),
		service.WithEviction(cfg.Eviction.Async, cfg.Eviction.Timeout.Duration()),
		service.WithEventBus(eventBus),
		service.WithLogger(logger.WithComponent("presence")),
	)
	defer svc.Close()

	sseHub := hub.New(handler.NetworkKeyFunc(cfg.Server.TrustProxy), logger.WithComponent("hub"))

	presenceHandler := handler.NewPresenceHandler(svc, cfg.Server.TrustProxy, logger.WithComponent("handler"))

	mux := http.NewServeMux()
	presenceHandler.Routes(mux)
	mux.Handle("GET /events", sseHub)

	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: handler.Chain(mux,
			handler.Recover(log),
			handler.CORS,
			handler.Logger(logger.WithComponent("http")),
		),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sseHub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		forwardEvents(ctx, eventBus, sseHub)
		return nil
	})

	if path != "" {
		reloadOpts := *opts
		reloadOpts.configPath = path
		r := &reloader{
			opts:     &reloadOpts,
			presence: svc,
			setLevel: logger.SetLevel,
			log:      logger.WithComponent("config"),
		}
		w := watcher.New(path, r.reload, logger.WithComponent("watcher"))
		g.Go(func() error {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				// Reload is optional; keep serving with the current config
				log.Warn().Err(err).Msg("Config watcher stopped")
			}
			return nil
		})
	}

	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	log.Info().Msg("Server stopped")
	return err
}

// forwardEvents relays presence events to SSE subscribers of the same network
func forwardEvents(ctx context.Context, bus *service.EventBus, sseHub *hub.Hub) {
	events := make(chan service.Event, 100)
	bus.Subscribe(events)

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			sseHub.Broadcast(event.NetworkKey, event)
		}
	}
}

// buildStore opens the configured presence store backend
func buildStore(cfg config.StoreConfig) (repository.PresenceStore, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		return redis.New(redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout.Duration(),
			ReadTimeout:  cfg.Redis.ReadTimeout.Duration(),
			WriteTimeout: cfg.Redis.WriteTimeout.Duration(),
		}), nil
	case config.BackendSQLite:
		repo, err := sqlite.New(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return repo, nil
	case config.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
