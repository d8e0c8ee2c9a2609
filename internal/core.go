package internal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/tabnav/internal/coordinator"
	"github.com/starford/tabnav/internal/customers"
	"github.com/starford/tabnav/internal/events"
	"github.com/starford/tabnav/internal/mainloop"
	"github.com/starford/tabnav/internal/metrics"
	"github.com/starford/tabnav/internal/navservice"
	"github.com/starford/tabnav/internal/storage"
)

// core is the navigation stack shared by every command: persisted store,
// customer directory, coordinator and the loop that owns it.
type core struct {
	store   storage.Store
	bus     *events.Bus
	metrics *metrics.Metrics
	svc     *navservice.Service

	closers []func()
}

func newCore(cfg *Config, logger *slog.Logger) (c *core, err error) {
	c = &core{}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	if cfg.Storage.Driver == storage.DriverSQLite {
		if err := ensureParent(cfg.Storage.Path); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}
	store, closer, err := storage.Open(cfg.Storage.Options())
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	c.addCloser("storage", closer, logger)
	c.store = store

	if err := ensureParent(cfg.Customers.Path); err != nil {
		return nil, fmt.Errorf("create customers dir: %w", err)
	}
	db, err := customers.Open(cfg.Customers.Path)
	if err != nil {
		return nil, fmt.Errorf("init customers: %w", err)
	}
	c.addCloser("customers", db, logger)

	if cfg.Customers.Seed != "" {
		n, err := customers.Import(db, cfg.Customers.Seed, logger)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Warn("customers: seed file missing", slog.String("path", cfg.Customers.Seed))
		case err != nil:
			return nil, fmt.Errorf("seed customers: %w", err)
		default:
			logger.Info("customers: seed imported", slog.Int("count", n))
		}
	}

	c.bus = events.NewBus()
	c.metrics = metrics.New()
	c.closers = append(c.closers, c.metrics.Attach(c.bus))

	coord := coordinator.New(coordinator.Options{
		Store:     store,
		Bus:       c.bus,
		Customers: customers.IDs(db, logger),
		Scheme:    cfg.Navigation.Scheme,
		Logger:    logger,
	})
	c.closers = append(c.closers, coord.Close)

	loop := mainloop.New()
	c.closers = append(c.closers, loop.Close)

	c.svc = navservice.NewService(loop, coord,
		navservice.WithCustomers(db),
		navservice.WithMetrics(c.metrics),
		navservice.WithLogger(logger),
	)
	return c, nil
}

func ensureParent(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func (c *core) addCloser(name string, cl io.Closer, logger *slog.Logger) {
	c.closers = append(c.closers, func() {
		if err := cl.Close(); err != nil {
			logger.Warn(name+": close failed", slog.String("error", err.Error()))
		}
	})
}

// Close releases everything in reverse order of acquisition. The loop stops
// before the coordinator and the stores it writes to.
func (c *core) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
