package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/tabnav/internal/events"
)

func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, c.Write(&pb))
	return pb.GetCounter().GetValue()
}

func TestAttachCountsEvents(t *testing.T) {
	m := New()
	bus := events.NewBus()
	detach := m.Attach(bus)

	bus.Publish(events.Event{Kind: events.KindStackChanged, Data: events.StackChanged{Domain: "tab2"}})
	bus.Publish(events.Event{Kind: events.KindStackChanged, Data: events.StackChanged{Domain: "tab2"}})
	bus.Publish(events.Event{Kind: events.KindModalChanged, Data: events.ModalChanged{Style: "sheet"}})
	bus.Publish(events.Event{Kind: events.KindTabSelected, Data: events.TabSelected{Tab: "tab3"}})
	bus.Publish(events.Event{Kind: events.KindLogout})
	detach()
	bus.Publish(events.Event{Kind: events.KindLogout})

	assert.Equal(t, 2.0, value(t, m.StackChanges.WithLabelValues("tab2")))
	assert.Equal(t, 1.0, value(t, m.ModalChanges.WithLabelValues("sheet")))
	assert.Equal(t, 1.0, value(t, m.TabSwitches.WithLabelValues("tab3")))
	assert.Equal(t, 1.0, value(t, m.Logouts))
}

func TestObserveDeepLink(t *testing.T) {
	m := New()
	m.ObserveDeepLink(true)
	m.ObserveDeepLink(false)
	m.ObserveDeepLink(false)

	assert.Equal(t, 1.0, value(t, m.DeepLinks.WithLabelValues("handled")))
	assert.Equal(t, 2.0, value(t, m.DeepLinks.WithLabelValues("rejected")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveDeepLink(true)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `tabnav_deep_links_total{outcome="handled"} 1`))
}
