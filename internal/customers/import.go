package customers

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/tabnav/internal/models"
)

// Import loads a JSON array of customers (the shape of a GitHub users
// listing) from path. A file whose checksum matches the last import is
// skipped. It reports how many customers were written.
func Import(db *DB, path string, logger *slog.Logger) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("customers: read seed: %w", err)
	}
	digest := sha256.Sum256(data)
	sum := hex.EncodeToString(digest[:])

	var last string
	err = db.conn.QueryRow(`SELECT checksum FROM imports WHERE source = ?`, path).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("customers: import state: %w", err)
	}
	if last == sum {
		logger.Debug("customers: seed unchanged", slog.String("path", path))
		return 0, nil
	}

	var list []models.Customer
	if err := json.Unmarshal(data, &list); err != nil {
		return 0, fmt.Errorf("customers: decode seed: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("customers: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	n := 0
	for _, c := range list {
		if c.ID == 0 {
			logger.Warn("customers: skipping seed entry without id", slog.String("login", c.Login))
			continue
		}
		if err := upsert(tx, c); err != nil {
			return 0, err
		}
		n++
	}
	if _, err := tx.Exec(`
		INSERT INTO imports (source, checksum) VALUES (?, ?)
		ON CONFLICT(source) DO UPDATE SET checksum = excluded.checksum
	`, path, sum); err != nil {
		return 0, fmt.Errorf("customers: record import: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("customers: commit: %w", err)
	}

	logger.Info("customers: imported", slog.String("path", path), slog.Int("count", n))
	return n, nil
}
