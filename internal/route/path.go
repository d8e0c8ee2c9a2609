package route

// Definition bundles everything a stack router needs to know about a domain.
type Definition[R comparable] struct {
	Domain Domain
	// Root is the synthetic home route; a stack holding only Root is empty.
	// Ignored unless HasRoot is set.
	Root    R
	HasRoot bool
	// PathTo returns the canonical ancestor chain ending at the route.
	PathTo func(R) []R
	Codec  Codec[R]
}

// Key is the persistence key of the domain's stack.
func (d Definition[R]) Key() string {
	return d.Domain.StorageKey()
}

// IsRoot reports whether r is the domain's canonical root.
func (d Definition[R]) IsRoot(r R) bool {
	return d.HasRoot && r == d.Root
}

// AuthDefinition describes the Auth domain.
func AuthDefinition() Definition[AuthRoute] {
	return Definition[AuthRoute]{
		Domain:  Auth,
		Root:    AuthRoute{Screen: AuthLogin},
		HasRoot: true,
		PathTo:  AuthPath,
		Codec:   AuthCodec(),
	}
}

// Tab1Definition describes the Tab1 domain.
func Tab1Definition(ids CustomerIDs) Definition[Tab1Route] {
	return Definition[Tab1Route]{
		Domain:  Tab1,
		Root:    Tab1Route{Screen: Tab1Screen1},
		HasRoot: true,
		PathTo:  Tab1Path,
		Codec:   Tab1Codec(ids),
	}
}

// Tab2Definition describes the Tab2 domain.
func Tab2Definition() Definition[Tab2Route] {
	return Definition[Tab2Route]{
		Domain:  Tab2,
		Root:    Tab2Route{Screen: Tab2Screen1},
		HasRoot: true,
		PathTo:  Tab2Path,
		Codec:   Tab2Codec(),
	}
}

// Tab3Definition describes the Tab3 domain.
func Tab3Definition() Definition[Tab3Route] {
	return Definition[Tab3Route]{
		Domain:  Tab3,
		Root:    Tab3Route{Screen: Tab3Screen1},
		HasRoot: true,
		PathTo:  Tab3Path,
		Codec:   Tab3Codec(),
	}
}

// Tab4Definition describes the Tab4 domain, which has no root screen.
func Tab4Definition() Definition[Tab4Route] {
	return Definition[Tab4Route]{
		Domain: Tab4,
		PathTo: Tab4Path,
		Codec:  Tab4Codec(),
	}
}

// AuthPath returns the canonical chain to r.
func AuthPath(r AuthRoute) []AuthRoute {
	login := AuthRoute{Screen: AuthLogin}
	if r.Screen == AuthLogin {
		return []AuthRoute{login}
	}
	return []AuthRoute{login, r}
}

// Tab1Path returns the canonical chain to r.
func Tab1Path(r Tab1Route) []Tab1Route {
	s1 := Tab1Route{Screen: Tab1Screen1}
	s2 := Tab1Route{Screen: Tab1Screen2}
	switch r.Screen {
	case Tab1Screen2:
		return []Tab1Route{s1, s2}
	case Tab1Detail:
		return []Tab1Route{s1, s2, r}
	}
	return []Tab1Route{s1}
}

// Tab2Path returns the canonical chain to r.
func Tab2Path(r Tab2Route) []Tab2Route {
	s1 := Tab2Route{Screen: Tab2Screen1}
	s2 := Tab2Route{Screen: Tab2Screen2}
	switch r.Screen {
	case Tab2Screen2:
		return []Tab2Route{s1, s2}
	case Tab2Screen2Detail, Tab2Screen3:
		return []Tab2Route{s1, s2, r}
	}
	return []Tab2Route{s1}
}

// tab3Chain is the linear order of the parameterless Tab3 screens after Screen2.
var tab3Chain = []Tab3Screen{Tab3Screen3, Tab3Screen4, Tab3Screen5, Tab3Screen6}

// Tab3Path returns the canonical chain to r. The edit screen sits on top of
// the detail screen for the same id.
func Tab3Path(r Tab3Route) []Tab3Route {
	path := []Tab3Route{{Screen: Tab3Screen1}}
	if r.Screen == Tab3Screen1 {
		return path
	}
	path = append(path, Tab3Route{Screen: Tab3Screen2})

	switch r.Screen {
	case Tab3Screen2:
		return path
	case Tab3Screen2Detail:
		return append(path, r)
	case Tab3Screen2Edit:
		return append(path, Tab3Route{Screen: Tab3Screen2Detail, ID: r.ID}, r)
	}

	for _, s := range tab3Chain {
		path = append(path, Tab3Route{Screen: s})
		if s == r.Screen {
			break
		}
	}
	return path
}

// Tab4Path returns the canonical chain to r.
func Tab4Path(r Tab4Route) []Tab4Route {
	return []Tab4Route{r}
}
