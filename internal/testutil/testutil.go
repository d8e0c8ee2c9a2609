// Package testutil provides shared helpers that wire a navigation service
// for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/tabnav/internal/coordinator"
	"github.com/starford/tabnav/internal/customers"
	"github.com/starford/tabnav/internal/events"
	"github.com/starford/tabnav/internal/mainloop"
	"github.com/starford/tabnav/internal/models"
	"github.com/starford/tabnav/internal/navservice"
	"github.com/starford/tabnav/internal/storage"
)

// CustomerDB creates a temporary customer directory holding seed. It is
// closed when the test ends.
func CustomerDB(t *testing.T, seed ...models.Customer) *customers.DB {
	t.Helper()
	db, err := customers.Open(filepath.Join(t.TempDir(), "customers.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	for _, c := range seed {
		if err := db.Upsert(c); err != nil {
			t.Fatal(err)
		}
	}
	return db
}

// Env is a running navigation service and the pieces behind it.
type Env struct {
	Service *navservice.Service
	Store   *storage.Memory
	Bus     *events.Bus
}

// Service wires a memory store, a bus, the coordinator and a main loop.
// Tab1 detail routes resolve against dir when it is non-nil.
func Service(t *testing.T, dir customers.Directory) Env {
	t.Helper()
	env := Env{Store: storage.NewMemory(), Bus: events.NewBus()}

	opts := coordinator.Options{Store: env.Store, Bus: env.Bus}
	var svcOpts []navservice.Option
	if dir != nil {
		opts.Customers = customers.IDs(dir, nil)
		svcOpts = append(svcOpts, navservice.WithCustomers(dir))
	}

	loop := mainloop.New()
	t.Cleanup(loop.Close)
	coord := coordinator.New(opts)
	t.Cleanup(coord.Close)

	env.Service = navservice.NewService(loop, coord, svcOpts...)
	return env
}
