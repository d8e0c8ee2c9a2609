package customers

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/tabnav/internal/apperr"
	"github.com/starford/tabnav/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "customers.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM customers`).Scan(&count); err != nil {
		t.Fatalf("customers table missing: %v", err)
	}
}

func TestUpsertGetDelete(t *testing.T) {
	db := testDB(t)
	c := models.Customer{ID: 1, Login: "mojombo", HTMLURL: "https://github.com/mojombo"}
	if err := db.Upsert(c); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	c.AvatarURL = "https://avatars.example/1"
	if err := db.Upsert(c); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}

	got, err := db.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != c {
		t.Errorf("Get = %+v, want %+v", got, c)
	}

	if err := db.Delete(1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Get(1); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if err := db.Delete(1); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestList(t *testing.T) {
	db := testDB(t)
	for i, login := range []string{"alice", "bob", "alina"} {
		_ = db.Upsert(models.Customer{ID: i + 1, Login: login})
	}

	all, total, err := db.List(0, 0, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(all) != 3 || all[0].Login != "alice" {
		t.Errorf("List = %+v total %d", all, total)
	}

	page, total, _ := db.List(1, 1, "")
	if total != 3 || len(page) != 1 || page[0].Login != "bob" {
		t.Errorf("page = %+v total %d", page, total)
	}

	filtered, total, _ := db.List(10, 0, "ali")
	if total != 2 || len(filtered) != 2 {
		t.Errorf("filtered = %+v total %d", filtered, total)
	}
}

func TestIDs(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(models.Customer{ID: 7, Login: "alice"})
	ids := IDs(db, quietLogger())

	if got := ids.Extract(models.Customer{ID: 7}); got != "7" {
		t.Errorf("Extract = %q", got)
	}
	c, ok := ids.Resolve("7")
	if !ok || c.Login != "alice" {
		t.Errorf("Resolve(7) = %+v, %v", c, ok)
	}
	for _, id := range []string{"8", "x", ""} {
		if _, ok := ids.Resolve(id); ok {
			t.Errorf("Resolve(%q) succeeded", id)
		}
	}
}

func TestImport(t *testing.T) {
	db := testDB(t)
	seed := filepath.Join(t.TempDir(), "customers.json")
	body := `[{"id":1,"login":"mojombo","html_url":"https://github.com/mojombo","avatar_url":"a"},{"login":"noid"},{"id":2,"login":"defunkt"}]`
	if err := os.WriteFile(seed, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := Import(db, seed, quietLogger())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d, want 2", n)
	}

	n, err = Import(db, seed, quietLogger())
	if err != nil || n != 0 {
		t.Errorf("re-import = %d, %v; want skip", n, err)
	}

	got, err := db.Get(1)
	if err != nil || got.HTMLURL != "https://github.com/mojombo" {
		t.Errorf("Get(1) = %+v, %v", got, err)
	}
}

func TestImport_BadSeed(t *testing.T) {
	db := testDB(t)
	seed := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(seed, []byte(`{"not":"a list"}`), 0o644)

	if _, err := Import(db, seed, quietLogger()); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := Import(db, filepath.Join(t.TempDir(), "missing.json"), quietLogger()); err == nil {
		t.Fatal("expected read error")
	}
}
