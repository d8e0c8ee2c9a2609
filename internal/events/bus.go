// Package events implements the in-process notification bus that routers,
// the coordinator and the outer surfaces use to talk to each other.
package events

import (
	"sort"
	"sync"

	"github.com/starford/tabnav/internal/route"
)

// Kind names an event type. The values double as SSE event names.
type Kind string

const (
	// KindLogout asks every router to wipe its in-memory and persisted state.
	KindLogout       Kind = "session.logout"
	KindLogin        Kind = "session.login"
	KindStackChanged Kind = "stack.changed"
	KindModalChanged Kind = "modal.changed"
	KindTabSelected  Kind = "tab.selected"
)

// Event is one notification. Data is JSON-serializable.
type Event struct {
	Kind Kind `json:"type"`
	Data any  `json:"data"`
}

// StackChanged is the payload of KindStackChanged.
type StackChanged struct {
	Domain string        `json:"domain"`
	Path   []route.Token `json:"path"`
}

// ModalChanged is the payload of KindModalChanged. Modal is empty when the
// slot was dismissed.
type ModalChanged struct {
	Style string `json:"style"`
	Modal string `json:"modal,omitempty"`
}

// TabSelected is the payload of KindTabSelected.
type TabSelected struct {
	Tab string `json:"tab"`
}

// SessionChanged is the payload of KindLogin and KindLogout when the
// coordinator publishes them. Logout carries no payload when posted by
// anyone else.
type SessionChanged struct {
	Authenticated bool `json:"authenticated"`
}

// Handler receives events. It runs on the publisher's goroutine.
type Handler func(Event)

// Bus fans events out to subscribers synchronously, in subscription order.
// Publishing from inside a handler is allowed.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]subscription
}

type subscription struct {
	kind    Kind // empty matches every kind
	handler Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]subscription)}
}

// Subscribe registers h for events of the given kind and returns a function
// that removes it.
func (b *Bus) Subscribe(kind Kind, h Handler) (unsubscribe func()) {
	return b.add(subscription{kind: kind, handler: h})
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h Handler) (unsubscribe func()) {
	return b.add(subscription{handler: h})
}

func (b *Bus) add(s subscription) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = s
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers e to every matching subscriber before returning.
func (b *Bus) Publish(e Event) {
	for _, h := range b.matching(e.Kind) {
		h(e)
	}
}

func (b *Bus) matching(kind Kind) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]int, 0, len(b.subs))
	for id, s := range b.subs {
		if s.kind == "" || s.kind == kind {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	out := make([]Handler, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.subs[id].handler)
	}
	return out
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
