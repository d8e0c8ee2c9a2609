package coordinator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/tabnav/internal/apperr"
	"github.com/starford/tabnav/internal/deeplink"
	"github.com/starford/tabnav/internal/events"
	"github.com/starford/tabnav/internal/models"
	"github.com/starford/tabnav/internal/route"
	"github.com/starford/tabnav/internal/storage"
)

var alice = models.Customer{ID: 7, Login: "alice"}

func customerIDs() route.CustomerIDs {
	return route.CustomerIDs{
		Extract: models.Customer.StableID,
		Resolve: func(id string) (models.Customer, bool) {
			return alice, id == alice.StableID()
		},
	}
}

func newCoordinator(t *testing.T, store storage.Store) *Coordinator {
	t.Helper()
	c := New(Options{Store: store, Customers: customerIDs()})
	t.Cleanup(c.Close)
	return c
}

func TestHandle_Tab3EditBuildsFullChain(t *testing.T) {
	store := storage.NewMemory()
	c := newCoordinator(t, store)

	require.True(t, c.Handle("myapp://tab3/screen2edit?id=42"))
	assert.Equal(t, []route.Tab3Route{
		{Screen: route.Tab3Screen1},
		{Screen: route.Tab3Screen2},
		{Screen: route.Tab3Screen2Detail, ID: "42"},
		{Screen: route.Tab3Screen2Edit, ID: "42"},
	}, c.Tab3().Path())
	assert.Equal(t, route.Tab3, c.ActiveTab())

	restarted := newCoordinator(t, store)
	assert.Equal(t, c.Tab3().Path(), restarted.Tab3().Path())
	assert.Equal(t, route.Tab3, restarted.ActiveTab())
}

func TestHandle_FailureMutatesNothing(t *testing.T) {
	store := storage.NewMemory()
	c := newCoordinator(t, store)
	c.Tab2().NavigateTo(route.Tab2Route{Screen: route.Tab2Screen3})
	writes := store.Writes()

	for _, raw := range []string{
		"myapp://tab2/screen2detail",
		"myapp://tab1/detail?id=999",
		"myapp://nowhere/screen1",
		"other://tab3/screen2",
	} {
		assert.False(t, c.Handle(raw), raw)
	}
	assert.Equal(t, writes, store.Writes())
	assert.Len(t, c.Tab2().Path(), 3)
	assert.Equal(t, route.Tab1, c.ActiveTab())
}

func TestHandleURL_Errors(t *testing.T) {
	c := newCoordinator(t, nil)

	_, err := c.HandleURL("myapp://tab2/screen2detail")
	assert.ErrorIs(t, err, deeplink.ErrMissingParam)

	_, err = c.HandleURL("myapp://tab1/detail?id=1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	bare := New(Options{})
	defer bare.Close()
	_, err = bare.HandleURL("myapp://tab1/detail?id=7")
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
}

func TestHandle_CustomerDetail(t *testing.T) {
	c := newCoordinator(t, nil)

	require.True(t, c.Handle("myapp://tab1/detail/7"))
	assert.Equal(t, []route.Tab1Route{
		{Screen: route.Tab1Screen1},
		{Screen: route.Tab1Screen2},
		{Screen: route.Tab1Detail, Customer: alice},
	}, c.Tab1().Path())
}

func TestDispatch(t *testing.T) {
	c := newCoordinator(t, nil)

	require.NoError(t, c.Dispatch(route.Tab4Target{Route: route.Tab4Route{ID: 3}}))
	assert.Equal(t, []route.Tab4Route{{ID: 3}}, c.Tab4().Path())
	assert.Equal(t, route.Tab4, c.ActiveTab())

	require.NoError(t, c.Dispatch(route.Tab4Target{Root: true}))
	assert.Empty(t, c.Tab4().Path())

	require.NoError(t, c.Dispatch(route.AuthTarget{Route: route.AuthRoute{Screen: route.AuthValidation}}))
	assert.Equal(t, route.Tab4, c.ActiveTab(), "auth targets keep the active tab")
	assert.Len(t, c.Auth().Path(), 2)

	require.NoError(t, c.Dispatch(route.Tab2Target{Route: route.Tab2Route{Screen: route.Tab2Screen1}}))
	assert.Empty(t, c.Tab2().Path())
	assert.Equal(t, route.Tab2, c.ActiveTab())

	err := c.Dispatch(nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidRoute)
}

func TestNavigateTabs(t *testing.T) {
	bus := events.NewBus()
	var got []events.Event
	bus.SubscribeAll(func(e events.Event) { got = append(got, e) })

	c := New(Options{Bus: bus})
	defer c.Close()

	c.NavigateTab2([]route.Tab2Route{{Screen: route.Tab2Screen2}, {Screen: route.Tab2Screen3}})
	assert.Equal(t, route.Tab2, c.ActiveTab())
	require.Len(t, got, 2)
	assert.Equal(t, events.KindStackChanged, got[0].Kind)
	assert.Equal(t, events.StackChanged{
		Domain: "tab2",
		Path:   []route.Token{{Tag: "screen2"}, {Tag: "screen3"}},
	}, got[0].Data)
	assert.Equal(t, events.Event{Kind: events.KindTabSelected, Data: events.TabSelected{Tab: "tab2"}}, got[1])

	got = nil
	c.Tab3().Present(route.ModalFilter)
	require.Len(t, got, 1)
	assert.Equal(t, events.ModalChanged{Style: "sheet", Modal: "filter"}, got[0].Data)

	c.NavigateTab1(nil)
	c.NavigateTab3([]route.Tab3Route{{Screen: route.Tab3Screen4}})
	c.NavigateTab4([]route.Tab4Route{{ID: 1}})
	assert.Equal(t, route.Tab4, c.ActiveTab())
	assert.Len(t, c.Tab3().Path(), 1)
}

func TestSelectTab_RejectsAuth(t *testing.T) {
	c := newCoordinator(t, nil)
	assert.ErrorIs(t, c.SelectTab(route.Auth), apperr.ErrInvalidRoute)
}

func TestSession(t *testing.T) {
	store := storage.NewMemory()
	c := newCoordinator(t, store)
	assert.False(t, c.Authenticated())

	c.Auth().NavigateTo(route.AuthRoute{Screen: route.AuthValidation})
	c.Login()
	assert.True(t, c.Authenticated())
	assert.Empty(t, c.Auth().Path(), "login drops the auth flow")

	restarted := newCoordinator(t, store)
	assert.True(t, restarted.Authenticated())
}

func TestLogout_WipesEverything(t *testing.T) {
	store := storage.NewMemory()
	c := newCoordinator(t, store)
	c.Login()
	require.True(t, c.Handle("myapp://tab2/screen2detail?id=1"))
	require.True(t, c.Handle("myapp://tab3/screen6"))
	require.True(t, c.Handle("myapp://tab1/detail?id=7"))
	require.True(t, c.Handle("myapp://tab4/details?id=2"))
	c.Tab3().Present(route.ModalCreateItem)
	c.Tab3().PresentFullScreen(route.ModalFilter)

	c.Logout()
	c.Logout()

	assert.False(t, c.Authenticated())
	assert.Equal(t, route.Tab1, c.ActiveTab())
	assert.Empty(t, c.Tab1().Path())
	assert.Empty(t, c.Tab2().Path())
	assert.Empty(t, c.Tab3().Path())
	assert.Empty(t, c.Tab4().Path())
	_, ok := c.Tab3().Modal()
	assert.False(t, ok)
	_, ok = c.Tab3().FullScreen()
	assert.False(t, ok)

	for _, d := range route.Domains {
		_, err := store.Load(d.StorageKey())
		assert.True(t, errors.Is(err, apperr.ErrNotFound), d.String())
	}
	assert.Equal(t, 1, store.Len(), "only the session record survives")
}

func TestLogout_FromElsewhere(t *testing.T) {
	bus := events.NewBus()
	c := New(Options{Bus: bus})
	defer c.Close()
	c.Login()
	c.NavigateTab2([]route.Tab2Route{{Screen: route.Tab2Screen2}})

	bus.Publish(events.Event{Kind: events.KindLogout})

	assert.False(t, c.Authenticated())
	assert.Empty(t, c.Tab2().Path())
	assert.Equal(t, route.Tab1, c.ActiveTab())
}

func TestAuthPopToLogin_LogsOut(t *testing.T) {
	bus := events.NewBus()
	logouts := 0
	bus.Subscribe(events.KindLogout, func(events.Event) { logouts++ })

	store := storage.NewMemory()
	c := New(Options{Store: store, Bus: bus})
	defer c.Close()
	c.Login()
	c.Tab2().NavigateTo(route.Tab2Route{Screen: route.Tab2Screen3})
	c.Tab3().Present(route.ModalFilter)
	c.Auth().NavigateTo(route.AuthRoute{Screen: route.AuthValidation})

	c.Auth().PopTo(route.AuthRoute{Screen: route.AuthValidation})
	assert.Equal(t, 0, logouts, "popping to a non-root auth screen is plain navigation")

	c.Auth().PopTo(route.AuthRoute{Screen: route.AuthLogin})

	assert.Equal(t, 1, logouts)
	assert.False(t, c.Authenticated())
	assert.Empty(t, c.Auth().Path())
	assert.Empty(t, c.Tab2().Path())
	_, ok := c.Tab3().Modal()
	assert.False(t, ok)
	_, err := store.Load(route.Tab2.StorageKey())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLogout_IgnoresNestedCalls(t *testing.T) {
	bus := events.NewBus()
	c := New(Options{Bus: bus})
	defer c.Close()

	logouts := 0
	bus.Subscribe(events.KindLogout, func(events.Event) {
		logouts++
		c.Auth().PopTo(route.AuthRoute{Screen: route.AuthLogin})
		c.Logout()
	})

	c.Logout()
	assert.Equal(t, 1, logouts)
}

func TestHandle_AuthenticatesSession(t *testing.T) {
	c := newCoordinator(t, nil)

	require.True(t, c.Handle("myapp://auth/validation"))
	assert.False(t, c.Authenticated(), "auth links keep the flow unauthenticated")
	assert.Len(t, c.Auth().Path(), 2)

	require.False(t, c.Handle("myapp://tab2/screen2detail"))
	assert.False(t, c.Authenticated())

	require.True(t, c.Handle("myapp://tab2/screen2detail?id=1"))
	assert.True(t, c.Authenticated())
}
