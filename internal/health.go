package internal

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/starford/tabnav/internal/storage"
)

// readyHandler reports 503 while the navigation loop or the state store
// cannot serve requests.
func readyHandler(state func(ctx context.Context) error, store storage.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		err := state(r.Context())
		if err == nil {
			err = storage.Health(r.Context(), store)
		}
		if err != nil {
			logger.Warn("health: not ready", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
