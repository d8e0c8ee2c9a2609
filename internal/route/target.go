package route

// Target is a fully specified navigation destination: a domain plus a route
// of that domain's type. The set of implementations is closed.
type Target interface {
	Domain() Domain
	isTarget()
}

// AuthTarget navigates the Auth stack.
type AuthTarget struct{ Route AuthRoute }

// Tab1Target navigates the Tab1 stack.
type Tab1Target struct{ Route Tab1Route }

// Tab1CustomerTarget opens the Tab1 detail screen for a customer that still
// has to be looked up by id.
type Tab1CustomerTarget struct{ CustomerID string }

// Tab2Target navigates the Tab2 stack.
type Tab2Target struct{ Route Tab2Route }

// Tab3Target navigates the Tab3 stack.
type Tab3Target struct{ Route Tab3Route }

// Tab4Target navigates the Tab4 stack. Root selects the empty stack, since
// Tab4 has no root screen of its own.
type Tab4Target struct {
	Route Tab4Route
	Root  bool
}

func (AuthTarget) Domain() Domain         { return Auth }
func (Tab1Target) Domain() Domain         { return Tab1 }
func (Tab1CustomerTarget) Domain() Domain { return Tab1 }
func (Tab2Target) Domain() Domain         { return Tab2 }
func (Tab3Target) Domain() Domain         { return Tab3 }
func (Tab4Target) Domain() Domain         { return Tab4 }

func (AuthTarget) isTarget()         {}
func (Tab1Target) isTarget()         {}
func (Tab1CustomerTarget) isTarget() {}
func (Tab2Target) isTarget()         {}
func (Tab3Target) isTarget()         {}
func (Tab4Target) isTarget()         {}
