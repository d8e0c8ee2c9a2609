package customers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/starford/tabnav/internal/apperr"
	"github.com/starford/tabnav/internal/models"
	"github.com/starford/tabnav/internal/route"
)

// IDs returns the Tab1 customer hook backed by dir. Lookup failures other
// than a missing customer are logged and treated as a miss.
func IDs(dir Directory, logger *slog.Logger) route.CustomerIDs {
	if logger == nil {
		logger = slog.Default()
	}
	return route.CustomerIDs{
		Extract: models.Customer.StableID,
		Resolve: func(id string) (models.Customer, bool) {
			n, err := strconv.Atoi(id)
			if err != nil {
				return models.Customer{}, false
			}
			c, err := dir.Get(n)
			if err != nil {
				if !errors.Is(err, apperr.ErrNotFound) {
					logger.Warn("customers: resolve failed", slog.String("id", id), slog.String("error", err.Error()))
				}
				return models.Customer{}, false
			}
			return c, true
		},
	}
}
