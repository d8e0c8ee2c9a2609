// Package router provides per-domain navigation stacks that persist
// themselves on every change and reset on logout.
//
// A Router owns an ordered slice of routes for one domain. Index 0 is the
// bottom of the stack; a stack holding only the domain's root route is
// stored as the empty stack.
//
// # Basic Usage
//
//	bus := events.NewBus()
//	store := storage.NewMemory()
//
//	tab2 := router.New(route.Tab2Definition(), router.Options{Store: store, Bus: bus})
//	defer tab2.Close()
//
//	// Rebuilds [Screen1, Screen2, Screen2Detail(42)] from nothing.
//	tab2.NavigateTo(route.Tab2Route{Screen: route.Tab2Screen2Detail, ID: "42"})
//
//	// Back to Screen2.
//	tab2.Pop()
//
//	// Every router on the bus wipes itself.
//	bus.Publish(events.Event{Kind: events.KindLogout})
//
// # Restore
//
// New loads the domain's blob once. Blobs in the legacy string-list format
// are migrated to the structured format immediately. Entries that cannot be
// decoded are skipped; Restored reports how many.
//
// Routers are not safe for concurrent use. Callers serialize access, for
// example through a mainloop.Loop.
package router
