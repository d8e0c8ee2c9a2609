package router

import (
	"errors"
	"log/slog"

	"github.com/starford/tabnav/internal/apperr"
	"github.com/starford/tabnav/internal/events"
	"github.com/starford/tabnav/internal/route"
	"github.com/starford/tabnav/internal/storage"
)

// Options are the collaborators shared by every router.
type Options struct {
	Store storage.Store
	// Bus delivers logout. Nil disables the subscription.
	Bus    *events.Bus
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) store() storage.Store {
	if o.Store != nil {
		return o.Store
	}
	return storage.NewMemory()
}

// RestoreReport describes what happened when a router loaded its blob.
// A non-zero Dropped or Degraded means the restored stack is partial.
type RestoreReport struct {
	Found     bool `json:"found"`
	Migrated  bool `json:"migrated"`
	Discarded bool `json:"discarded"`
	Dropped   int  `json:"dropped"`
	Degraded  int  `json:"degraded"`
}

// Partial reports whether some persisted entries did not survive restore.
func (r RestoreReport) Partial() bool {
	return r.Discarded || r.Dropped > 0 || r.Degraded > 0
}

// loadTokens reads and unwraps the blob under key. Storage errors and
// malformed blobs are logged and treated as an absent blob.
func loadTokens(store storage.Store, key string, logger *slog.Logger) ([]route.Token, RestoreReport) {
	var report RestoreReport

	data, err := store.Load(key)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			logger.Warn("router: load failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return nil, report
	}
	report.Found = true

	tokens, legacy, err := route.Unmarshal(data)
	if err != nil {
		logger.Warn("router: discarding unreadable state", slog.String("key", key), slog.String("error", err.Error()))
		report.Discarded = true
		return nil, report
	}
	report.Migrated = legacy
	return tokens, report
}

func saveTokens(store storage.Store, key string, tokens []route.Token, logger *slog.Logger) {
	data, err := route.Marshal(tokens)
	if err != nil {
		logger.Error("router: encode failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	if err := store.Save(key, data); err != nil {
		logger.Warn("router: save failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func clearKey(store storage.Store, key string, logger *slog.Logger) {
	if err := store.Clear(key); err != nil {
		logger.Warn("router: clear failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
