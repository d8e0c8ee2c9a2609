// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/tabnav/internal/api"
	"github.com/starford/tabnav/internal/inbox"
	"github.com/starford/tabnav/internal/mcpserver"
	"github.com/starford/tabnav/internal/navservice"
	"github.com/starford/tabnav/internal/sse"
)

func (a *application) setup() (*Config, *slog.Logger, error) {
	if a.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	cfg := a.config

	logger := slog.New(slog.NewJSONHandler(a.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("scheme", cfg.Navigation.Scheme),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("storage_path", cfg.Storage.Path),
		slog.String("customers_path", cfg.Customers.Path),
		slog.String("inbox_dir", cfg.Inbox.Dir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	return cfg, logger, nil
}

// Run starts the HTTP server, the SSE broker and the deep-link inbox.
func Run(ctx context.Context, opts ...Option) error {
	cfg, logger, err := newApplication(opts).setup()
	if err != nil {
		return err
	}

	c, err := newCore(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	broker := sse.NewBroker(cfg.Navigation.StateThrottle)
	defer broker.Close()
	detach := broker.Attach(c.bus)
	defer detach()

	apiRouter := api.NewRouter(c.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", readyHandler(func(ctx context.Context) error {
		_, err := c.svc.State(ctx)
		return err
	}, c.store, logger))
	r.Handle("/metrics", c.metrics.Handler())

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Inbox.Dir != "" {
		g.Go(func() error {
			handle := func(ctx context.Context, url string) error {
				_, err := c.svc.OpenURL(ctx, url)
				return err
			}
			report := func(res inbox.Result) {
				if res.Err != nil {
					logger.Warn("inbox: link rejected",
						slog.String("file", res.File),
						slog.String("url", res.URL),
						slog.String("error", res.Err.Error()))
					return
				}
				logger.Info("inbox: link opened", slog.String("url", res.URL))
			}
			if err := inbox.Watch(gCtx, cfg.Inbox.Dir, handle, logger, report); err != nil {
				return fmt.Errorf("inbox: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		// SSE handlers block until their clients leave; closing the broker
		// ends them so Shutdown can finish.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the inbox watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdin/stdout until the client disconnects.
func RunMCP(_ context.Context, opts ...Option) error {
	app := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	cfg, logger, err := app.setup()
	if err != nil {
		return err
	}

	c, err := newCore(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	logger.Info("Starting MCP server on stdio")
	return mcpserver.New(c.svc, app.version).ServeStdio()
}

// OpenURL handles one deep link against the configured store and returns
// the resulting state. The state is persisted for the next start.
func OpenURL(ctx context.Context, raw string, opts ...Option) (navservice.State, error) {
	app := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	cfg, logger, err := app.setup()
	if err != nil {
		return navservice.State{}, err
	}

	c, err := newCore(cfg, logger)
	if err != nil {
		return navservice.State{}, err
	}
	defer c.Close()

	return c.svc.OpenURL(ctx, raw)
}
