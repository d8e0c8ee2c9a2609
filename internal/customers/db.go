// Package customers is the SQLite-backed customer directory that Tab1
// detail routes are resolved against.
package customers

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/tabnav/internal/apperr"
	"github.com/starford/tabnav/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS customers (
	id         INTEGER PRIMARY KEY,
	login      TEXT NOT NULL DEFAULT '',
	html_url   TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_customers_login ON customers(login);

CREATE TABLE IF NOT EXISTS imports (
	source   TEXT PRIMARY KEY,
	checksum TEXT NOT NULL
);
`

// Directory is what the rest of the app needs from the customer store.
type Directory interface {
	Get(id int) (models.Customer, error)
	List(limit, offset int, query string) ([]models.Customer, int, error)
	Upsert(c models.Customer) error
	Delete(id int) error
}

var _ Directory = (*DB)(nil)

// DB wraps a sql.DB holding the customers table.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("customers: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("customers: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("customers: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Upsert inserts or replaces a customer.
func (db *DB) Upsert(c models.Customer) error {
	return upsert(db.conn, c)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func upsert(x execer, c models.Customer) error {
	_, err := x.Exec(`
		INSERT INTO customers (id, login, html_url, avatar_url, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			login      = excluded.login,
			html_url   = excluded.html_url,
			avatar_url = excluded.avatar_url,
			updated_at = excluded.updated_at
	`, c.ID, c.Login, c.HTMLURL, c.AvatarURL, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("customers: upsert %d: %w", c.ID, err)
	}
	return nil
}

// Get returns the customer with id or apperr.ErrNotFound.
func (db *DB) Get(id int) (models.Customer, error) {
	var c models.Customer
	err := db.conn.QueryRow(`SELECT id, login, html_url, avatar_url FROM customers WHERE id = ?`, id).
		Scan(&c.ID, &c.Login, &c.HTMLURL, &c.AvatarURL)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Customer{}, fmt.Errorf("customers: get %d: %w", id, err)
	}
	return c, nil
}

// Delete removes a customer. Deleting an unknown id is not an error.
func (db *DB) Delete(id int) error {
	if _, err := db.conn.Exec(`DELETE FROM customers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("customers: delete %d: %w", id, err)
	}
	return nil
}

// List returns customers ordered by id and the total number matching query.
// query filters by login substring when non-empty.
func (db *DB) List(limit, offset int, query string) ([]models.Customer, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	like := "%" + query + "%"

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM customers WHERE login LIKE ?`, like).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("customers: count: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT id, login, html_url, avatar_url
		FROM customers
		WHERE login LIKE ?
		ORDER BY id
		LIMIT ? OFFSET ?
	`, like, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("customers: list: %w", err)
	}
	defer rows.Close()

	out := make([]models.Customer, 0, limit)
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Login, &c.HTMLURL, &c.AvatarURL); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}
