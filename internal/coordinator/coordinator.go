// Package coordinator owns one router per navigation domain plus the active
// tab selector, and is the single entry point for cross-tab navigation and
// deep links.
package coordinator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/tabnav/internal/apperr"
	"github.com/starford/tabnav/internal/deeplink"
	"github.com/starford/tabnav/internal/events"
	"github.com/starford/tabnav/internal/models"
	"github.com/starford/tabnav/internal/route"
	"github.com/starford/tabnav/internal/router"
	"github.com/starford/tabnav/internal/storage"
)

// SessionKey is where the session flag and active tab are persisted.
const SessionKey = "session.state"

// Options configures a Coordinator.
type Options struct {
	Store storage.Store
	Bus   *events.Bus
	// Customers resolves Tab1 detail routes. Zero value disables persistence
	// of detail entries and customer deep links.
	Customers route.CustomerIDs
	Scheme    string
	Logger    *slog.Logger
}

// Coordinator is not safe for concurrent use.
type Coordinator struct {
	store  storage.Store
	bus    *events.Bus
	ids    route.CustomerIDs
	parser deeplink.Parser
	logger *slog.Logger

	auth *router.Router[route.AuthRoute]
	tab1 *router.Router[route.Tab1Route]
	tab2 *router.Router[route.Tab2Route]
	tab3 *router.Tab3Router
	tab4 *router.Router[route.Tab4Route]

	session    session
	cancels    []func()
	loggingOut bool
}

type session struct {
	Authenticated bool   `json:"authenticated"`
	ActiveTab     string `json:"active_tab"`
}

// New builds every router, restoring persisted state.
func New(opts Options) *Coordinator {
	if opts.Store == nil {
		opts.Store = storage.NewMemory()
	}
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ropts := router.Options{Store: opts.Store, Bus: opts.Bus, Logger: opts.Logger}
	c := &Coordinator{
		store:  opts.Store,
		bus:    opts.Bus,
		ids:    opts.Customers,
		parser: deeplink.New(opts.Scheme),
		logger: opts.Logger,
		auth:   router.New(route.AuthDefinition(), ropts),
		tab1:   router.New(route.Tab1Definition(opts.Customers), ropts),
		tab2:   router.New(route.Tab2Definition(), ropts),
		tab3:   router.NewTab3(ropts),
		tab4:   router.New(route.Tab4Definition(), ropts),
	}
	c.loadSession()

	c.cancels = append(c.cancels,
		c.bus.Subscribe(events.KindLogout, func(events.Event) { c.endSession() }),
		// Leaving the auth flow back to Login is a logout.
		c.auth.OnPopToRoot(c.Logout),
		relay(c, c.auth),
		relay(c, c.tab1),
		relay(c, c.tab2),
		relay(c, c.tab3.Router),
		relay(c, c.tab4),
	)
	for _, style := range []string{router.StyleSheet, router.StyleFullScreen} {
		slot := c.tab3.Slot(style)
		c.cancels = append(c.cancels, slot.Subscribe(func(m route.Tab3Modal, present bool) {
			payload := events.ModalChanged{Style: slot.Style()}
			if present {
				payload.Modal = m.String()
			}
			c.bus.Publish(events.Event{Kind: events.KindModalChanged, Data: payload})
		}))
	}
	return c
}

// relay republishes a router's changes on the bus.
func relay[R comparable](c *Coordinator, r *router.Router[R]) func() {
	return r.Subscribe(func([]R) {
		c.bus.Publish(events.Event{
			Kind: events.KindStackChanged,
			Data: events.StackChanged{Domain: r.Domain().String(), Path: r.Tokens()},
		})
	})
}

// Close detaches every router from the bus.
func (c *Coordinator) Close() {
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
	c.auth.Close()
	c.tab1.Close()
	c.tab2.Close()
	c.tab3.Close()
	c.tab4.Close()
}

func (c *Coordinator) Auth() *router.Router[route.AuthRoute] { return c.auth }
func (c *Coordinator) Tab1() *router.Router[route.Tab1Route] { return c.tab1 }
func (c *Coordinator) Tab2() *router.Router[route.Tab2Route] { return c.tab2 }
func (c *Coordinator) Tab3() *router.Tab3Router              { return c.tab3 }
func (c *Coordinator) Tab4() *router.Router[route.Tab4Route] { return c.tab4 }

// Bus returns the bus the coordinator publishes on.
func (c *Coordinator) Bus() *events.Bus { return c.bus }

// Parser returns the deep-link parser in use.
func (c *Coordinator) Parser() deeplink.Parser { return c.parser }

// ActiveTab returns the selected tab.
func (c *Coordinator) ActiveTab() route.Domain {
	d, err := route.ParseDomain(c.session.ActiveTab)
	if err != nil || !d.IsTab() {
		return route.Tab1
	}
	return d
}

// SelectTab switches the active tab without touching any stack.
func (c *Coordinator) SelectTab(d route.Domain) error {
	if !d.IsTab() {
		return fmt.Errorf("coordinator: select %s: %w", d, apperr.ErrInvalidRoute)
	}
	if d == c.ActiveTab() {
		return nil
	}
	c.session.ActiveTab = d.String()
	c.saveSession()
	c.bus.Publish(events.Event{Kind: events.KindTabSelected, Data: events.TabSelected{Tab: d.String()}})
	return nil
}

// Dispatch navigates the target's router to the target and selects its tab.
// Auth targets leave the active tab alone.
func (c *Coordinator) Dispatch(t route.Target) error {
	switch t := t.(type) {
	case route.AuthTarget:
		c.auth.NavigateTo(t.Route)
		return nil
	case route.Tab1Target:
		c.tab1.NavigateTo(t.Route)
	case route.Tab1CustomerTarget:
		cust, err := c.resolve(t.CustomerID)
		if err != nil {
			return err
		}
		c.tab1.NavigateTo(route.Tab1Route{Screen: route.Tab1Detail, Customer: cust})
	case route.Tab2Target:
		c.tab2.NavigateTo(t.Route)
	case route.Tab3Target:
		c.tab3.NavigateTo(t.Route)
	case route.Tab4Target:
		if t.Root {
			c.tab4.AssignPath(nil)
		} else {
			c.tab4.NavigateTo(t.Route)
		}
	default:
		return fmt.Errorf("coordinator: dispatch %T: %w", t, apperr.ErrInvalidRoute)
	}
	return c.SelectTab(t.Domain())
}

func (c *Coordinator) resolve(id string) (models.Customer, error) {
	if c.ids.Resolve == nil {
		return models.Customer{}, fmt.Errorf("coordinator: customer %s: %w", id, apperr.ErrUnavailable)
	}
	cust, ok := c.ids.Resolve(id)
	if !ok {
		return models.Customer{}, fmt.Errorf("coordinator: customer %s: %w", id, apperr.ErrNotFound)
	}
	return cust, nil
}

// HandleURL parses raw and dispatches it. On error nothing was changed.
// A handled link into a tab also authenticates the session; links into the
// auth flow do not, since logging in would reset that flow.
func (c *Coordinator) HandleURL(raw string) (route.Target, error) {
	t, err := c.parser.Parse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.Dispatch(t); err != nil {
		return nil, err
	}
	if t.Domain().IsTab() {
		c.Login()
	}
	c.logger.Info("coordinator: deep link handled", slog.String("url", raw), slog.String("domain", t.Domain().String()))
	return t, nil
}

// Handle reports whether raw was a deep link that could be dispatched.
func (c *Coordinator) Handle(raw string) bool {
	_, err := c.HandleURL(raw)
	if err != nil {
		c.logger.Debug("coordinator: deep link not handled", slog.String("url", raw), slog.String("error", err.Error()))
	}
	return err == nil
}

// NavigateTab1 replaces the Tab1 stack and selects Tab1.
func (c *Coordinator) NavigateTab1(path []route.Tab1Route) {
	c.tab1.AssignPath(path)
	_ = c.SelectTab(route.Tab1)
}

// NavigateTab2 replaces the Tab2 stack and selects Tab2.
func (c *Coordinator) NavigateTab2(path []route.Tab2Route) {
	c.tab2.AssignPath(path)
	_ = c.SelectTab(route.Tab2)
}

// NavigateTab3 replaces the Tab3 stack and selects Tab3.
func (c *Coordinator) NavigateTab3(path []route.Tab3Route) {
	c.tab3.AssignPath(path)
	_ = c.SelectTab(route.Tab3)
}

// NavigateTab4 replaces the Tab4 stack and selects Tab4.
func (c *Coordinator) NavigateTab4(path []route.Tab4Route) {
	c.tab4.AssignPath(path)
	_ = c.SelectTab(route.Tab4)
}

// Authenticated reports the session flag.
func (c *Coordinator) Authenticated() bool {
	return c.session.Authenticated
}

// Login marks the session authenticated and drops the auth flow stack.
func (c *Coordinator) Login() {
	if c.session.Authenticated {
		return
	}
	c.session.Authenticated = true
	c.saveSession()
	c.auth.Reset()
	c.logger.Info("coordinator: login")
	c.bus.Publish(events.Event{Kind: events.KindLogin, Data: events.SessionChanged{Authenticated: true}})
}

// Logout broadcasts the logout signal, which wipes every router and ends
// the session. It is safe to call repeatedly, and a call made while the
// signal is being delivered is ignored.
func (c *Coordinator) Logout() {
	if c.loggingOut {
		return
	}
	c.loggingOut = true
	defer func() { c.loggingOut = false }()

	c.logger.Info("coordinator: logout")
	c.bus.Publish(events.Event{Kind: events.KindLogout, Data: events.SessionChanged{}})
}

// endSession runs on every logout, whoever posted it.
func (c *Coordinator) endSession() {
	if c.session.Authenticated {
		c.session.Authenticated = false
		c.saveSession()
	}
	_ = c.SelectTab(route.Tab1)
}

func (c *Coordinator) loadSession() {
	c.session = session{ActiveTab: route.Tab1.String()}
	data, err := c.store.Load(SessionKey)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			c.logger.Warn("coordinator: load session failed", slog.String("error", err.Error()))
		}
		return
	}
	if err := json.Unmarshal(data, &c.session); err != nil {
		c.logger.Warn("coordinator: discarding unreadable session", slog.String("error", err.Error()))
		c.session = session{ActiveTab: route.Tab1.String()}
	}
}

func (c *Coordinator) saveSession() {
	data, err := json.Marshal(c.session)
	if err != nil {
		c.logger.Error("coordinator: encode session failed", slog.String("error", err.Error()))
		return
	}
	if err := c.store.Save(SessionKey, data); err != nil {
		c.logger.Warn("coordinator: save session failed", slog.String("error", err.Error()))
	}
}
