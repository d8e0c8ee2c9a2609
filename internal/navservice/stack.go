package navservice

import (
	"fmt"

	"github.com/starford/tabnav/internal/apperr"
	"github.com/starford/tabnav/internal/coordinator"
	"github.com/starford/tabnav/internal/route"
	"github.com/starford/tabnav/internal/router"
)

// stack is the token-level view of one domain's router.
type stack interface {
	tokens() []route.Token
	restored() router.RestoreReport
	push(route.Token) error
	pop()
	popTo(route.Token) error
	assign([]route.Token) error
}

type typedStack[R comparable] struct {
	r *router.Router[R]
	// commit replaces the stack; for tabs it also selects the tab.
	commit func([]R)
}

func (t typedStack[R]) tokens() []route.Token          { return t.r.Tokens() }
func (t typedStack[R]) restored() router.RestoreReport { return t.r.Restored() }
func (t typedStack[R]) pop()                           { t.r.Pop() }

func (t typedStack[R]) decode(tok route.Token) (R, error) {
	rt, ok := route.DecodeOne(t.r.Definition().Codec, tok)
	if !ok {
		return rt, fmt.Errorf("navservice: %s token %q: %w", t.r.Domain(), tok, apperr.ErrInvalidRoute)
	}
	return rt, nil
}

func (t typedStack[R]) push(tok route.Token) error {
	rt, err := t.decode(tok)
	if err != nil {
		return err
	}
	t.r.Push(rt)
	return nil
}

func (t typedStack[R]) popTo(tok route.Token) error {
	rt, err := t.decode(tok)
	if err != nil {
		return err
	}
	t.r.PopTo(rt)
	return nil
}

func (t typedStack[R]) assign(tokens []route.Token) error {
	path := make([]R, 0, len(tokens))
	for _, tok := range tokens {
		rt, err := t.decode(tok)
		if err != nil {
			return err
		}
		path = append(path, rt)
	}
	t.commit(path)
	return nil
}

func (s *Service) stack(d route.Domain) stack {
	return stackFor(s.coord, d)
}

func stackFor(c *coordinator.Coordinator, d route.Domain) stack {
	switch d {
	case route.Auth:
		return typedStack[route.AuthRoute]{r: c.Auth(), commit: c.Auth().AssignPath}
	case route.Tab1:
		return typedStack[route.Tab1Route]{r: c.Tab1(), commit: c.NavigateTab1}
	case route.Tab2:
		return typedStack[route.Tab2Route]{r: c.Tab2(), commit: c.NavigateTab2}
	case route.Tab3:
		return typedStack[route.Tab3Route]{r: c.Tab3().Router, commit: c.NavigateTab3}
	default:
		return typedStack[route.Tab4Route]{r: c.Tab4(), commit: c.NavigateTab4}
	}
}

// targetFor turns a single token into a dispatchable target. Tab1 detail
// tokens carry only a customer id and are resolved by the coordinator.
func targetFor(d route.Domain, tok route.Token) (route.Target, error) {
	invalid := fmt.Errorf("navservice: %s token %q: %w", d, tok, apperr.ErrInvalidRoute)
	switch d {
	case route.Auth:
		if r, ok := route.DecodeOne(route.AuthCodec(), tok); ok {
			return route.AuthTarget{Route: r}, nil
		}
	case route.Tab1:
		if tok.Tag == route.TagDetail && tok.Param != "" {
			return route.Tab1CustomerTarget{CustomerID: tok.Param}, nil
		}
		if r, ok := route.DecodeOne(route.Tab1Codec(route.CustomerIDs{}), tok); ok {
			return route.Tab1Target{Route: r}, nil
		}
	case route.Tab2:
		if r, ok := route.DecodeOne(route.Tab2Codec(), tok); ok {
			return route.Tab2Target{Route: r}, nil
		}
	case route.Tab3:
		if r, ok := route.DecodeOne(route.Tab3Codec(), tok); ok {
			return route.Tab3Target{Route: r}, nil
		}
	case route.Tab4:
		if tok.Tag == "" || tok.Tag == "root" {
			return route.Tab4Target{Root: true}, nil
		}
		if r, ok := route.DecodeOne(route.Tab4Codec(), tok); ok {
			return route.Tab4Target{Route: r}, nil
		}
	}
	return nil, invalid
}
