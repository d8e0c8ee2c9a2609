package router

import (
	"github.com/starford/tabnav/internal/route"
)

// EditPusher is implemented by routers that can open an edit screen for an
// item id. Only the Tab3 router has one.
type EditPusher interface {
	PushEdit(id string)
}

var _ EditPusher = (*Tab3Router)(nil)

// Tab3Router is the Tab3 stack plus its sheet and full-screen modal slots.
type Tab3Router struct {
	*Router[route.Tab3Route]

	sheet      *ModalSlot
	fullScreen *ModalSlot
}

// NewTab3 creates the Tab3 router and restores the stack and both slots.
func NewTab3(opts Options) *Tab3Router {
	return &Tab3Router{
		Router:     New(route.Tab3Definition(), opts),
		sheet:      NewModalSlot(StyleSheet, route.Tab3ModalKey, opts),
		fullScreen: NewModalSlot(StyleFullScreen, route.Tab3FullScreenKey, opts),
	}
}

// PushEdit pushes the edit screen for id on top of the current stack.
func (t *Tab3Router) PushEdit(id string) {
	t.Push(route.Tab3Route{Screen: route.Tab3Screen2Edit, ID: id})
}

// Present shows m as a sheet.
func (t *Tab3Router) Present(m route.Tab3Modal) { t.sheet.Present(m) }

// PresentFullScreen shows m full screen.
func (t *Tab3Router) PresentFullScreen(m route.Tab3Modal) { t.fullScreen.Present(m) }

// DismissModal dismisses the sheet.
func (t *Tab3Router) DismissModal() { t.sheet.Dismiss() }

// DismissFullScreen dismisses the full-screen modal.
func (t *Tab3Router) DismissFullScreen() { t.fullScreen.Dismiss() }

// Modal returns the presented sheet, if any.
func (t *Tab3Router) Modal() (route.Tab3Modal, bool) { return t.sheet.Current() }

// FullScreen returns the presented full-screen modal, if any.
func (t *Tab3Router) FullScreen() (route.Tab3Modal, bool) { return t.fullScreen.Current() }

// Slot returns the slot for style, or nil for an unknown style.
func (t *Tab3Router) Slot(style string) *ModalSlot {
	switch style {
	case StyleSheet:
		return t.sheet
	case StyleFullScreen:
		return t.fullScreen
	}
	return nil
}

// Close detaches the stack and both slots from the logout bus.
func (t *Tab3Router) Close() {
	t.Router.Close()
	t.sheet.Close()
	t.fullScreen.Close()
}
