package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tabnav/internal/navservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *navservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/state", h.GetState)
	r.Put("/tab", h.SelectTab)

	r.Route("/domains/{domain}", func(r chi.Router) {
		r.Get("/path", h.GetPath)
		r.Put("/path", h.AssignPath)
		r.Post("/push", h.Push)
		r.Post("/pop", h.Pop)
		r.Post("/popto", h.PopTo)
		r.Post("/navigate", h.Navigate)
		r.Post("/url", h.BuildURL)
	})

	r.Post("/tab3/modal", h.PresentModal)
	r.Delete("/tab3/modal/{style}", h.DismissModal)
	r.Post("/tab3/edit", h.PushEdit)

	r.Post("/deeplinks", h.OpenDeepLink)

	r.Post("/session/login", h.Login)
	r.Post("/session/logout", h.Logout)

	r.Get("/customers", h.ListCustomers)
	r.Put("/customers/{id}", h.PutCustomer)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
