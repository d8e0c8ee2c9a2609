package navservice

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/tabnav/internal/apperr"
	"github.com/starford/tabnav/internal/coordinator"
	"github.com/starford/tabnav/internal/deeplink"
	"github.com/starford/tabnav/internal/mainloop"
	"github.com/starford/tabnav/internal/metrics"
	"github.com/starford/tabnav/internal/models"
	"github.com/starford/tabnav/internal/route"
	"github.com/starford/tabnav/internal/storage"
)

type fakeDirectory struct {
	mu   sync.Mutex
	byID map[int]models.Customer
}

func (f *fakeDirectory) Get(id int) (models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return models.Customer{}, apperr.ErrNotFound
	}
	return c, nil
}

func (f *fakeDirectory) List(limit, offset int, _ string) ([]models.Customer, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Customer, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (f *fakeDirectory) Upsert(c models.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[c.ID] = c
	return nil
}

func (f *fakeDirectory) Delete(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

type env struct {
	svc   *Service
	store *storage.Memory
	dir   *fakeDirectory
	m     *metrics.Metrics
}

func newEnv(t *testing.T) env {
	t.Helper()
	store := storage.NewMemory()
	dir := &fakeDirectory{byID: map[int]models.Customer{7: {ID: 7, Login: "alice"}}}
	loop := mainloop.New()
	t.Cleanup(loop.Close)

	coord := coordinator.New(coordinator.Options{
		Store: store,
		Customers: route.CustomerIDs{
			Extract: models.Customer.StableID,
			Resolve: func(id string) (models.Customer, bool) {
				for _, c := range dir.byID {
					if c.StableID() == id {
						return c, true
					}
				}
				return models.Customer{}, false
			},
		},
	})
	t.Cleanup(coord.Close)

	m := metrics.New()
	svc := NewService(loop, coord, WithCustomers(dir), WithMetrics(m))
	return env{svc: svc, store: store, dir: dir, m: m}
}

func TestOpenURL(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	st, err := e.svc.OpenURL(ctx, "myapp://tab3/screen2edit?id=42")
	require.NoError(t, err)
	assert.Equal(t, "tab3", st.ActiveTab)
	tab3, ok := st.Domain("tab3")
	require.True(t, ok)
	assert.Equal(t, []route.Token{
		{Tag: "screen1"},
		{Tag: "screen2"},
		{Tag: "screen2Detail", Param: "42"},
		{Tag: "screen2Edit", Param: "42"},
	}, tab3.Path)

	_, err = e.svc.OpenURL(ctx, "myapp://tab2/screen2detail")
	assert.ErrorIs(t, err, apperr.ErrNotHandled)
	assert.ErrorIs(t, err, deeplink.ErrMissingParam)

	st, err = e.svc.OpenURL(ctx, "myapp://tab1/detail?id=7")
	require.NoError(t, err)
	tab1, _ := st.Domain("tab1")
	assert.Equal(t, route.Token{Tag: "detail", Param: "7"}, tab1.Path[2])
}

func TestStackOperations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	path, err := e.svc.Navigate(ctx, "tab2", route.Token{Tag: "screen3"})
	require.NoError(t, err)
	assert.Len(t, path, 3)

	path, err = e.svc.Push(ctx, "tab2", route.Token{Tag: "screen2Detail", Param: "9"})
	require.NoError(t, err)
	assert.Len(t, path, 4)

	path, err = e.svc.PopTo(ctx, "tab2", route.Token{Tag: "screen2"})
	require.NoError(t, err)
	assert.Equal(t, []route.Token{{Tag: "screen1"}, {Tag: "screen2"}}, path)

	path, err = e.svc.Pop(ctx, "tab2")
	require.NoError(t, err)
	assert.Empty(t, path)

	_, err = e.svc.Push(ctx, "tab2", route.Token{Tag: "screen2Detail"})
	assert.ErrorIs(t, err, apperr.ErrInvalidRoute)

	_, err = e.svc.Pop(ctx, "tab9")
	assert.ErrorIs(t, err, route.ErrUnknownDomain)
}

func TestAssignPath(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	path, err := e.svc.AssignPath(ctx, "tab4", []route.Token{{Tag: "details", Param: "1"}, {Tag: "details", Param: "2"}})
	require.NoError(t, err)
	assert.Len(t, path, 2)

	st, _ := e.svc.State(ctx)
	assert.Equal(t, "tab4", st.ActiveTab)

	writes := e.store.Writes()
	_, err = e.svc.AssignPath(ctx, "tab3", []route.Token{{Tag: "screen2"}, {Tag: "nope"}})
	assert.ErrorIs(t, err, apperr.ErrInvalidRoute)
	assert.Equal(t, writes, e.store.Writes(), "rejected assign must not write")
}

func TestModals(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.svc.PresentModal(ctx, "sheet", "createItem"))
	require.NoError(t, e.svc.PresentModal(ctx, "fullscreen", "filter"))
	st, _ := e.svc.State(ctx)
	assert.Equal(t, ModalState{Sheet: "createItem", FullScreen: "filter"}, st.Tab3Modals)

	require.NoError(t, e.svc.DismissModal(ctx, "sheet"))
	st, _ = e.svc.State(ctx)
	assert.Equal(t, ModalState{FullScreen: "filter"}, st.Tab3Modals)

	assert.ErrorIs(t, e.svc.PresentModal(ctx, "popover", "filter"), apperr.ErrInvalidRoute)
	assert.ErrorIs(t, e.svc.PresentModal(ctx, "sheet", "wizard"), apperr.ErrInvalidRoute)
	assert.ErrorIs(t, e.svc.DismissModal(ctx, "popover"), apperr.ErrInvalidRoute)
}

func TestPushEdit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.OpenURL(ctx, "myapp://tab3/screen2detail?id=5")
	require.NoError(t, err)
	path, err := e.svc.PushEdit(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, route.Token{Tag: "screen2Edit", Param: "5"}, path[len(path)-1])
	assert.Len(t, path, 4)

	writes := e.store.Writes()
	_, err = e.svc.PushEdit(ctx, " ")
	assert.ErrorIs(t, err, apperr.ErrInvalidRoute)
	assert.Equal(t, writes, e.store.Writes())
}

func TestSessionAndLogout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.svc.Login(ctx))
	_, err := e.svc.OpenURL(ctx, "myapp://tab2/screen3")
	require.NoError(t, err)
	require.NoError(t, e.svc.PresentModal(ctx, "sheet", "filter"))

	require.NoError(t, e.svc.Logout(ctx))
	st, err := e.svc.State(ctx)
	require.NoError(t, err)
	assert.False(t, st.Authenticated)
	assert.Equal(t, "tab1", st.ActiveTab)
	for _, d := range st.Domains {
		assert.Empty(t, d.Path, d.Domain)
	}
	assert.Equal(t, ModalState{}, st.Tab3Modals)
}

func TestSelectTab(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.svc.SelectTab(ctx, "tab3"))
	st, _ := e.svc.State(ctx)
	assert.Equal(t, "tab3", st.ActiveTab)
	assert.ErrorIs(t, e.svc.SelectTab(ctx, "auth"), apperr.ErrInvalidRoute)
}

func TestURL(t *testing.T) {
	e := newEnv(t)
	u, err := e.svc.URL("tab2", route.Token{Tag: "screen2Detail", Param: "5"})
	require.NoError(t, err)
	assert.Equal(t, "myapp://tab2/screen2detail?id=5", u)

	u, err = e.svc.URL("tab4", route.Token{Tag: "root"})
	require.NoError(t, err)
	assert.Equal(t, "myapp://tab4/root", u)
}

func TestCustomers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.svc.PutCustomer(ctx, models.Customer{ID: 8, Login: "bob"}))
	list, total, err := e.svc.ListCustomers(ctx, 10, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)

	bare := NewService(mainloop.New(), coordinator.New(coordinator.Options{}))
	_, _, err = bare.ListCustomers(ctx, 10, 0, "")
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
}

func TestConcurrentCallers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = e.svc.OpenURL(ctx, "myapp://tab3/screen4")
			_, _ = e.svc.Pop(ctx, "tab3")
			_, _ = e.svc.State(ctx)
		}()
	}
	wg.Wait()

	_, err := e.svc.State(ctx)
	assert.NoError(t, err)
}
