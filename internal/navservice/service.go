// Package navservice is the goroutine-safe front door to the coordinator.
// Every call is marshalled onto a mainloop and speaks route tokens, so the
// HTTP API, the MCP server and the inbox share one implementation.
package navservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/tabnav/internal/apperr"
	"github.com/starford/tabnav/internal/coordinator"
	"github.com/starford/tabnav/internal/customers"
	"github.com/starford/tabnav/internal/mainloop"
	"github.com/starford/tabnav/internal/metrics"
	"github.com/starford/tabnav/internal/models"
	"github.com/starford/tabnav/internal/route"
	"github.com/starford/tabnav/internal/router"
)

// DomainState is one domain's stack in persisted form.
type DomainState struct {
	Domain   string               `json:"domain"`
	Path     []route.Token        `json:"path"`
	Restored router.RestoreReport `json:"restored"`
}

// ModalState is the content of Tab3's two modal slots. Empty means absent.
type ModalState struct {
	Sheet      string `json:"sheet,omitempty"`
	FullScreen string `json:"fullscreen,omitempty"`
}

// State is a snapshot of the whole navigation core.
type State struct {
	ActiveTab     string        `json:"active_tab"`
	Authenticated bool          `json:"authenticated"`
	Domains       []DomainState `json:"domains"`
	Tab3Modals    ModalState    `json:"tab3_modals"`
}

// Domain returns the entry for name, if present.
func (s State) Domain(name string) (DomainState, bool) {
	for _, d := range s.Domains {
		if d.Domain == name {
			return d, true
		}
	}
	return DomainState{}, false
}

// Service coordinates the main loop, the coordinator and the customer
// directory.
type Service struct {
	loop      *mainloop.Loop
	coord     *coordinator.Coordinator
	customers customers.Directory
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCustomers enables the customer endpoints.
func WithCustomers(dir customers.Directory) Option {
	return func(s *Service) { s.customers = dir }
}

// WithMetrics records deep-link outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a service. coord must only be touched through loop
// from now on.
func NewService(loop *mainloop.Loop, coord *coordinator.Coordinator, opts ...Option) *Service {
	s := &Service{loop: loop, coord: coord, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) do(ctx context.Context, fn func() error) error {
	var err error
	if loopErr := s.loop.Do(ctx, func() { err = fn() }); loopErr != nil {
		return loopErr
	}
	return err
}

// State returns a snapshot of every domain.
func (s *Service) State(ctx context.Context) (State, error) {
	var st State
	err := s.do(ctx, func() error {
		st = s.snapshot()
		return nil
	})
	return st, err
}

func (s *Service) snapshot() State {
	c := s.coord
	st := State{
		ActiveTab:     c.ActiveTab().String(),
		Authenticated: c.Authenticated(),
		Domains:       make([]DomainState, 0, len(route.Domains)),
	}
	for _, d := range route.Domains {
		stk := s.stack(d)
		st.Domains = append(st.Domains, DomainState{
			Domain:   d.String(),
			Path:     stk.tokens(),
			Restored: stk.restored(),
		})
	}
	if m, ok := c.Tab3().Modal(); ok {
		st.Tab3Modals.Sheet = m.String()
	}
	if m, ok := c.Tab3().FullScreen(); ok {
		st.Tab3Modals.FullScreen = m.String()
	}
	return st
}

// Path returns one domain's stack.
func (s *Service) Path(ctx context.Context, domain string) ([]route.Token, error) {
	d, err := route.ParseDomain(domain)
	if err != nil {
		return nil, err
	}
	var out []route.Token
	err = s.do(ctx, func() error {
		out = s.stack(d).tokens()
		return nil
	})
	return out, err
}

// Push appends tok to the domain's stack without validation of order.
func (s *Service) Push(ctx context.Context, domain string, tok route.Token) ([]route.Token, error) {
	return s.mutate(ctx, domain, func(d route.Domain, stk stack) error {
		return stk.push(tok)
	})
}

// Pop removes the top of the domain's stack.
func (s *Service) Pop(ctx context.Context, domain string) ([]route.Token, error) {
	return s.mutate(ctx, domain, func(d route.Domain, stk stack) error {
		stk.pop()
		return nil
	})
}

// PopTo truncates the domain's stack at tok.
func (s *Service) PopTo(ctx context.Context, domain string, tok route.Token) ([]route.Token, error) {
	return s.mutate(ctx, domain, func(d route.Domain, stk stack) error {
		return stk.popTo(tok)
	})
}

// Navigate dispatches tok through the coordinator, which builds the
// canonical chain and selects the tab.
func (s *Service) Navigate(ctx context.Context, domain string, tok route.Token) ([]route.Token, error) {
	return s.mutate(ctx, domain, func(d route.Domain, _ stack) error {
		t, err := targetFor(d, tok)
		if err != nil {
			return err
		}
		return s.coord.Dispatch(t)
	})
}

// AssignPath replaces the domain's stack and selects its tab. Every token
// must decode; otherwise nothing changes.
func (s *Service) AssignPath(ctx context.Context, domain string, tokens []route.Token) ([]route.Token, error) {
	return s.mutate(ctx, domain, func(d route.Domain, stk stack) error {
		return stk.assign(tokens)
	})
}

func (s *Service) mutate(ctx context.Context, domain string, fn func(route.Domain, stack) error) ([]route.Token, error) {
	d, err := route.ParseDomain(domain)
	if err != nil {
		return nil, err
	}
	var out []route.Token
	err = s.do(ctx, func() error {
		stk := s.stack(d)
		if err := fn(d, stk); err != nil {
			return err
		}
		out = stk.tokens()
		return nil
	})
	return out, err
}

// PresentModal shows modal in the Tab3 slot named style.
func (s *Service) PresentModal(ctx context.Context, style, modal string) error {
	m, ok := route.ParseModal(modal)
	if !ok {
		return fmt.Errorf("navservice: modal %q: %w", modal, apperr.ErrInvalidRoute)
	}
	return s.do(ctx, func() error {
		slot := s.coord.Tab3().Slot(style)
		if slot == nil {
			return fmt.Errorf("navservice: modal style %q: %w", style, apperr.ErrInvalidRoute)
		}
		slot.Present(m)
		return nil
	})
}

// DismissModal empties the Tab3 slot named style.
func (s *Service) DismissModal(ctx context.Context, style string) error {
	return s.do(ctx, func() error {
		slot := s.coord.Tab3().Slot(style)
		if slot == nil {
			return fmt.Errorf("navservice: modal style %q: %w", style, apperr.ErrInvalidRoute)
		}
		slot.Dismiss()
		return nil
	})
}

// PushEdit opens the Tab3 edit screen for item id on top of the current
// Tab3 stack.
func (s *Service) PushEdit(ctx context.Context, id string) ([]route.Token, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("navservice: edit: empty id: %w", apperr.ErrInvalidRoute)
	}
	var out []route.Token
	err := s.do(ctx, func() error {
		var ep router.EditPusher = s.coord.Tab3()
		ep.PushEdit(id)
		out = s.stack(route.Tab3).tokens()
		return nil
	})
	return out, err
}

// OpenURL handles a deep link and returns the resulting state. Links that
// do not map to a target fail with apperr.ErrNotHandled and change nothing.
func (s *Service) OpenURL(ctx context.Context, raw string) (State, error) {
	var st State
	err := s.do(ctx, func() error {
		if _, err := s.coord.HandleURL(raw); err != nil {
			return fmt.Errorf("%w: %w", apperr.ErrNotHandled, err)
		}
		st = s.snapshot()
		return nil
	})
	if s.metrics != nil && !errors.Is(err, context.Canceled) {
		s.metrics.ObserveDeepLink(err == nil)
	}
	return st, err
}

// URL renders a deep link for tok in domain.
func (s *Service) URL(domain string, tok route.Token) (string, error) {
	d, err := route.ParseDomain(domain)
	if err != nil {
		return "", err
	}
	t, err := targetFor(d, tok)
	if err != nil {
		return "", err
	}
	return s.coord.Parser().URL(t)
}

// Login marks the session authenticated.
func (s *Service) Login(ctx context.Context) error {
	return s.do(ctx, func() error {
		s.coord.Login()
		return nil
	})
}

// Logout wipes every router.
func (s *Service) Logout(ctx context.Context) error {
	return s.do(ctx, func() error {
		s.coord.Logout()
		return nil
	})
}

// SelectTab switches the active tab.
func (s *Service) SelectTab(ctx context.Context, tab string) error {
	d, err := route.ParseDomain(tab)
	if err != nil {
		return err
	}
	return s.do(ctx, func() error { return s.coord.SelectTab(d) })
}

// ListCustomers pages through the customer directory.
func (s *Service) ListCustomers(_ context.Context, limit, offset int, query string) ([]models.Customer, int, error) {
	if s.customers == nil {
		return nil, 0, fmt.Errorf("navservice: customers: %w", apperr.ErrUnavailable)
	}
	return s.customers.List(limit, offset, query)
}

// PutCustomer creates or replaces a customer.
func (s *Service) PutCustomer(_ context.Context, c models.Customer) error {
	if s.customers == nil {
		return fmt.Errorf("navservice: customers: %w", apperr.ErrUnavailable)
	}
	return s.customers.Upsert(c)
}
