package router

import (
	"log/slog"
	"slices"

	"github.com/starford/tabnav/internal/events"
	"github.com/starford/tabnav/internal/route"
	"github.com/starford/tabnav/internal/storage"
)

// Router manages the navigation stack of one domain.
type Router[R comparable] struct {
	def    route.Definition[R]
	store  storage.Store
	logger *slog.Logger

	path      []R
	report    RestoreReport
	observers map[int]func([]R)
	nextObs   int
	rootPops  map[int]func()

	unsubscribe func()
}

// New creates a router for def and restores its persisted stack.
func New[R comparable](def route.Definition[R], opts Options) *Router[R] {
	r := &Router[R]{
		def:       def,
		store:     opts.store(),
		logger:    opts.logger().With(slog.String("domain", def.Domain.String())),
		observers: make(map[int]func([]R)),
		rootPops:  make(map[int]func()),
	}
	r.restore()

	if opts.Bus != nil {
		r.unsubscribe = opts.Bus.Subscribe(events.KindLogout, func(events.Event) {
			r.Reset()
		})
	}
	return r
}

func (r *Router[R]) restore() {
	tokens, report := loadTokens(r.store, r.def.Key(), r.logger)
	routes, stats := r.def.Codec.Decode(tokens)
	report.Dropped, report.Degraded = stats.Dropped, stats.Degraded
	r.path = r.normalize(routes)
	r.report = report

	if report.Migrated {
		r.persist()
		r.logger.Info("router: migrated legacy state", slog.Int("entries", len(r.path)))
	}
	if report.Partial() {
		r.logger.Warn("router: partial restore",
			slog.Int("dropped", report.Dropped),
			slog.Int("degraded", report.Degraded),
			slog.Bool("discarded", report.Discarded))
	}
}

// Close detaches the router from the logout bus.
func (r *Router[R]) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// Domain returns the router's domain.
func (r *Router[R]) Domain() route.Domain {
	return r.def.Domain
}

// Definition returns the domain definition the router was built from.
func (r *Router[R]) Definition() route.Definition[R] {
	return r.def
}

// Path returns a copy of the current stack.
func (r *Router[R]) Path() []R {
	return slices.Clone(r.path)
}

// Len returns the stack depth.
func (r *Router[R]) Len() int {
	return len(r.path)
}

// Tokens returns the current stack in persisted form.
func (r *Router[R]) Tokens() []route.Token {
	return r.def.Codec.Encode(r.path)
}

// Restored reports what the constructor's restore did.
func (r *Router[R]) Restored() RestoreReport {
	return r.report
}

// Subscribe registers fn to receive the stack after every change.
func (r *Router[R]) Subscribe(fn func(path []R)) (cancel func()) {
	id := r.nextObs
	r.nextObs++
	r.observers[id] = fn
	return func() { delete(r.observers, id) }
}

// Push appends route to the stack without any validation.
func (r *Router[R]) Push(rt R) {
	next := append(slices.Clone(r.path), rt)
	r.set(next, "push")
}

// Pop removes the top entry. It is a no-op on an empty stack.
func (r *Router[R]) Pop() {
	if len(r.path) == 0 {
		return
	}
	r.set(r.path[:len(r.path)-1], "pop")
}

// OnPopToRoot registers fn to run after every PopTo that targets the root,
// whether or not the stack changed.
func (r *Router[R]) OnPopToRoot(fn func()) (cancel func()) {
	id := r.nextObs
	r.nextObs++
	r.rootPops[id] = fn
	return func() { delete(r.rootPops, id) }
}

// PopTo truncates the stack at the first occurrence of rt. Popping to an
// absent root empties the stack; any other absent route is a no-op.
func (r *Router[R]) PopTo(rt R) {
	if i := slices.Index(r.path, rt); i >= 0 {
		r.set(r.path[:i+1], "pop_to")
	} else if r.def.IsRoot(rt) {
		r.set(nil, "pop_to")
	}
	if r.def.IsRoot(rt) {
		r.firePopToRoot()
	}
}

func (r *Router[R]) firePopToRoot() {
	ids := make([]int, 0, len(r.rootPops))
	for id := range r.rootPops {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := r.rootPops[id]; ok {
			fn()
		}
	}
}

// NavigateTo shows rt: the root empties the stack, a route already on the
// stack truncates to it, and anything else replaces the stack with the
// canonical chain to rt.
func (r *Router[R]) NavigateTo(rt R) {
	switch i := slices.Index(r.path, rt); {
	case r.def.IsRoot(rt):
		r.set(nil, "navigate")
	case i >= 0:
		r.set(r.path[:i+1], "navigate")
	default:
		r.set(r.def.PathTo(rt), "navigate")
	}
}

// AssignPath replaces the whole stack.
func (r *Router[R]) AssignPath(path []R) {
	r.set(path, "assign")
}

// Reset empties the stack and deletes its persisted blob, whatever the
// current state. It is what logout does.
func (r *Router[R]) Reset() {
	clearKey(r.store, r.def.Key(), r.logger)
	if len(r.path) == 0 {
		return
	}
	r.path = nil
	r.logger.Debug("router: reset")
	r.notify()
}

func (r *Router[R]) set(next []R, op string) {
	next = r.normalize(next)
	if slices.Equal(next, r.path) {
		return
	}
	r.path = next
	r.persist()
	r.logger.Debug("router: "+op, slog.Int("depth", len(r.path)))
	r.notify()
}

// normalize collapses a root-only stack to empty and detaches next from any
// slice the caller still holds.
func (r *Router[R]) normalize(next []R) []R {
	if len(next) == 0 || (len(next) == 1 && r.def.IsRoot(next[0])) {
		return nil
	}
	return slices.Clone(next)
}

func (r *Router[R]) persist() {
	saveTokens(r.store, r.def.Key(), r.def.Codec.Encode(r.path), r.logger)
}

func (r *Router[R]) notify() {
	if len(r.observers) == 0 {
		return
	}
	ids := make([]int, 0, len(r.observers))
	for id := range r.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := r.observers[id]; ok {
			fn(slices.Clone(r.path))
		}
	}
}
