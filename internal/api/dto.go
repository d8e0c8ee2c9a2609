package api

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tabnav/internal/models"
	"github.com/starford/tabnav/internal/navservice"
	"github.com/starford/tabnav/internal/route"
	"github.com/starford/tabnav/internal/router"
)

var tagRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// TokenRequest is one route token.
type TokenRequest struct {
	Tag   string `json:"tag" example:"screen2Detail"`
	Param string `json:"param,omitempty" example:"42"`
}

func (r TokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Tag, validation.Required, validation.Match(tagRe)),
	)
}

func (r TokenRequest) token() route.Token {
	return route.Token{Tag: r.Tag, Param: r.Param}
}

// PathRequest replaces a whole stack.
type PathRequest struct {
	Tokens []TokenRequest `json:"tokens"`
}

func (r PathRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Tokens, validation.NotNil),
	)
}

func (r PathRequest) tokens() []route.Token {
	out := make([]route.Token, 0, len(r.Tokens))
	for _, t := range r.Tokens {
		out = append(out, t.token())
	}
	return out
}

// ModalRequest presents a Tab3 modal.
type ModalRequest struct {
	Style string `json:"style" example:"sheet"`
	Modal string `json:"modal" example:"createItem"`
}

func (r ModalRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Style, validation.Required, validation.In(router.StyleSheet, router.StyleFullScreen)),
		validation.Field(&r.Modal, validation.Required, validation.In(route.TagCreateItem, route.TagFilter)),
	)
}

// EditRequest names the Tab3 item to edit.
type EditRequest struct {
	ID string `json:"id" example:"42"`
}

func (r EditRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, validation.Length(1, 128)),
	)
}

// DeepLinkRequest carries a URL to open.
type DeepLinkRequest struct {
	URL string `json:"url" example:"myapp://tab3/screen2edit?id=42"`
}

func (r DeepLinkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required, validation.Length(1, 2048)),
	)
}

// TabRequest selects the active tab.
type TabRequest struct {
	Tab string `json:"tab" example:"tab2"`
}

func (r TabRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Tab, validation.Required),
	)
}

// CustomerRequest is the body of PUT /customers/{id}.
type CustomerRequest struct {
	Login     string `json:"login" example:"mojombo"`
	HTMLURL   string `json:"html_url,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (r CustomerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Login, validation.Required, validation.Length(1, 100)),
	)
}

// PathResponse is a domain's stack after an operation.
type PathResponse struct {
	Domain string        `json:"domain"`
	Path   []route.Token `json:"path"`
}

// URLResponse is a rendered deep link.
type URLResponse struct {
	URL string `json:"url"`
}

// CustomerListResponse wraps paginated customers.
type CustomerListResponse struct {
	Customers []models.Customer `json:"customers"`
	Total     int               `json:"total"`
}

// State is the full navigation snapshot.
type State = navservice.State
