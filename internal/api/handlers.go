package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tabnav/internal/models"
	"github.com/starford/tabnav/internal/navservice"
	"github.com/starford/tabnav/internal/route"
)

// Handler holds API route handlers.
type Handler struct {
	svc *navservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *navservice.Service) *Handler {
	return &Handler{svc: svc}
}

// GetState handles GET /api/state.
//
//	@Summary		Snapshot of every navigation stack, the active tab and Tab3 modals
//	@Tags			navigation
//	@Produce		json
//	@Success		200	{object}	State
//	@Security		BearerAuth
//	@Router			/state [get]
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.State(r.Context())
	if err != nil {
		writeError(w, "state", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// SelectTab handles PUT /api/tab.
func (h *Handler) SelectTab(w http.ResponseWriter, r *http.Request) {
	var req TabRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "select tab", err)
		return
	}
	if err := h.svc.SelectTab(r.Context(), req.Tab); err != nil {
		writeError(w, "select tab", err)
		return
	}
	h.GetState(w, r)
}

// GetPath handles GET /api/domains/{domain}/path.
//
//	@Summary		Current stack of one domain
//	@Tags			navigation
//	@Produce		json
//	@Param			domain	path		string	true	"Domain"	Enums(auth, tab1, tab2, tab3, tab4)
//	@Success		200		{object}	PathResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/domains/{domain}/path [get]
func (h *Handler) GetPath(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	path, err := h.svc.Path(r.Context(), domain)
	h.writePath(w, "get path", domain, path, err)
}

// AssignPath handles PUT /api/domains/{domain}/path.
func (h *Handler) AssignPath(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "assign path", err)
		return
	}
	domain := chi.URLParam(r, "domain")
	path, err := h.svc.AssignPath(r.Context(), domain, req.tokens())
	h.writePath(w, "assign path", domain, path, err)
}

// Push handles POST /api/domains/{domain}/push.
//
//	@Summary		Push a route on top of a domain's stack
//	@Tags			navigation
//	@Accept			json
//	@Produce		json
//	@Param			domain	path		string			true	"Domain"
//	@Param			body	body		TokenRequest	true	"Route token"
//	@Success		200		{object}	PathResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/domains/{domain}/push [post]
func (h *Handler) Push(w http.ResponseWriter, r *http.Request) {
	h.withToken(w, r, "push", h.svc.Push)
}

// PopTo handles POST /api/domains/{domain}/popto.
func (h *Handler) PopTo(w http.ResponseWriter, r *http.Request) {
	h.withToken(w, r, "pop to", h.svc.PopTo)
}

// Navigate handles POST /api/domains/{domain}/navigate. The stack is
// rebuilt from the domain root and the tab is selected.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	h.withToken(w, r, "navigate", h.svc.Navigate)
}

// Pop handles POST /api/domains/{domain}/pop.
func (h *Handler) Pop(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	path, err := h.svc.Pop(r.Context(), domain)
	h.writePath(w, "pop", domain, path, err)
}

// BuildURL handles POST /api/domains/{domain}/url.
func (h *Handler) BuildURL(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "build url", err)
		return
	}
	u, err := h.svc.URL(chi.URLParam(r, "domain"), req.token())
	if err != nil {
		writeError(w, "build url", err)
		return
	}
	writeJSON(w, http.StatusOK, URLResponse{URL: u})
}

type tokenOp func(ctx context.Context, domain string, tok route.Token) ([]route.Token, error)

func (h *Handler) withToken(w http.ResponseWriter, r *http.Request, op string, fn tokenOp) {
	var req TokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, op, err)
		return
	}
	domain := chi.URLParam(r, "domain")
	path, err := fn(r.Context(), domain, req.token())
	h.writePath(w, op, domain, path, err)
}

func (h *Handler) writePath(w http.ResponseWriter, op, domain string, path []route.Token, err error) {
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, PathResponse{Domain: domain, Path: path})
}

// PresentModal handles POST /api/tab3/modal.
//
//	@Summary		Present a Tab3 modal as a sheet or full screen
//	@Tags			navigation
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ModalRequest	true	"Modal"
//	@Success		200		{object}	State
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tab3/modal [post]
func (h *Handler) PresentModal(w http.ResponseWriter, r *http.Request) {
	var req ModalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "present modal", err)
		return
	}
	if err := h.svc.PresentModal(r.Context(), req.Style, req.Modal); err != nil {
		writeError(w, "present modal", err)
		return
	}
	h.GetState(w, r)
}

// DismissModal handles DELETE /api/tab3/modal/{style}.
func (h *Handler) DismissModal(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DismissModal(r.Context(), chi.URLParam(r, "style")); err != nil {
		writeError(w, "dismiss modal", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PushEdit handles POST /api/tab3/edit.
//
//	@Summary		Open the Tab3 edit screen for an item
//	@Tags			navigation
//	@Accept			json
//	@Produce		json
//	@Param			body	body		EditRequest	true	"Item"
//	@Success		200		{object}	PathResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tab3/edit [post]
func (h *Handler) PushEdit(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "push edit", err)
		return
	}
	path, err := h.svc.PushEdit(r.Context(), req.ID)
	h.writePath(w, "push edit", route.Tab3.String(), path, err)
}

// OpenDeepLink handles POST /api/deeplinks.
//
//	@Summary		Open a deep link
//	@Tags			deeplinks
//	@Accept			json
//	@Produce		json
//	@Param			body	body		DeepLinkRequest	true	"URL"
//	@Success		200		{object}	State
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/deeplinks [post]
func (h *Handler) OpenDeepLink(w http.ResponseWriter, r *http.Request) {
	var req DeepLinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "open deep link", err)
		return
	}
	st, err := h.svc.OpenURL(r.Context(), req.URL)
	if err != nil {
		writeError(w, "open deep link", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Login handles POST /api/session/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Login(r.Context()); err != nil {
		writeError(w, "login", err)
		return
	}
	h.GetState(w, r)
}

// Logout handles POST /api/session/logout. Every stack and modal is wiped.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil {
		writeError(w, "logout", err)
		return
	}
	h.GetState(w, r)
}

// ListCustomers handles GET /api/customers.
//
//	@Summary		List customers that Tab1 detail links resolve against
//	@Tags			customers
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			q		query		string	false	"Login filter"
//	@Success		200		{object}	CustomerListResponse
//	@Security		BearerAuth
//	@Router			/customers [get]
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.ListCustomers(r.Context(), limit, offset, q.Get("q"))
	if err != nil {
		writeError(w, "list customers", err)
		return
	}
	writeJSON(w, http.StatusOK, CustomerListResponse{Customers: items, Total: total})
}

// PutCustomer handles PUT /api/customers/{id}.
func (h *Handler) PutCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, "put customer", fmt.Errorf("%w: id must be a positive integer", errBadRequest))
		return
	}
	var req CustomerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "put customer", err)
		return
	}
	c := models.Customer{ID: id, Login: req.Login, HTMLURL: req.HTMLURL, AvatarURL: req.AvatarURL}
	if err := h.svc.PutCustomer(r.Context(), c); err != nil {
		writeError(w, "put customer", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
