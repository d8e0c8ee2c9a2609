// Package deeplink maps scheme-qualified URLs onto navigation targets and
// back. Parsing is pure: it never looks at router state.
//
// URLs have the form scheme://<domain>/<segment>[?id=<value>], for example
// myapp://tab3/screen2edit?id=42 or myapp://tab4/root.
package deeplink

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/starford/tabnav/internal/route"
)

// DefaultScheme is used when a Parser has no scheme configured.
const DefaultScheme = "myapp"

var (
	// ErrNoMatch is returned for every URL that does not map to a target.
	ErrNoMatch = errors.New("deeplink: no match")
	// ErrMissingParam means the segment needs an id query parameter.
	ErrMissingParam = fmt.Errorf("%w: missing parameter", ErrNoMatch)
	// ErrInvalidURL means the input could not be parsed as a URL at all.
	ErrInvalidURL = fmt.Errorf("%w: invalid url", ErrNoMatch)
)

const (
	segRoot          = "root"
	segLogin         = "login"
	segValidation    = "validation"
	segScreen1       = "screen1"
	segScreen2       = "screen2"
	segScreen2Detail = "screen2detail"
	segScreen2Edit   = "screen2edit"
	segScreen3       = "screen3"
	segScreen4       = "screen4"
	segScreen5       = "screen5"
	segScreen6       = "screen6"
	segDetail        = "detail"
	segDetails       = "details"

	paramID = "id"
)

// Parser turns URLs into targets for one scheme.
type Parser struct {
	Scheme string
}

// New returns a parser for scheme, or DefaultScheme when scheme is empty.
func New(scheme string) Parser {
	if scheme == "" {
		scheme = DefaultScheme
	}
	return Parser{Scheme: scheme}
}

func (p Parser) scheme() string {
	if p.Scheme == "" {
		return DefaultScheme
	}
	return p.Scheme
}

type request struct {
	segment string
	rest    []string
	query   url.Values
}

// id returns the id query parameter. It fails closed on absence.
func (r request) id() (string, error) {
	id := r.query.Get(paramID)
	if id == "" {
		return "", fmt.Errorf("%w: %s needs ?%s=", ErrMissingParam, r.segment, paramID)
	}
	return id, nil
}

// Parse maps raw onto a target. Every failure wraps ErrNoMatch.
func (p Parser) Parse(raw string) (route.Target, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Opaque != "" {
		return nil, fmt.Errorf("%w: %q is not scheme://domain/segment", ErrInvalidURL, raw)
	}
	if !strings.EqualFold(u.Scheme, p.scheme()) {
		return nil, fmt.Errorf("%w: scheme %q", ErrNoMatch, u.Scheme)
	}

	domain, err := route.ParseDomain(u.Hostname())
	if err != nil {
		return nil, fmt.Errorf("%w: host %q", ErrNoMatch, u.Hostname())
	}

	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	req := request{query: u.Query()}
	if len(segments) > 0 {
		req.segment = strings.ToLower(segments[0])
		req.rest = segments[1:]
	}

	var target route.Target
	switch domain {
	case route.Auth:
		target, err = parseAuth(req)
	case route.Tab1:
		target, err = parseTab1(req)
	case route.Tab2:
		target, err = parseTab2(req)
	case route.Tab3:
		target, err = parseTab3(req)
	case route.Tab4:
		target, err = parseTab4(req)
	}
	if err != nil {
		return nil, err
	}
	return target, nil
}

func unknownSegment(d route.Domain, seg string) error {
	return fmt.Errorf("%w: %s has no segment %q", ErrNoMatch, d, seg)
}

func parseAuth(r request) (route.Target, error) {
	switch r.segment {
	case "", segRoot, segLogin:
		return route.AuthTarget{Route: route.AuthRoute{Screen: route.AuthLogin}}, nil
	case segValidation:
		return route.AuthTarget{Route: route.AuthRoute{Screen: route.AuthValidation}}, nil
	}
	return nil, unknownSegment(route.Auth, r.segment)
}

func parseTab1(r request) (route.Target, error) {
	switch r.segment {
	case "", segRoot, segScreen1:
		return route.Tab1Target{Route: route.Tab1Route{Screen: route.Tab1Screen1}}, nil
	case segScreen2:
		return route.Tab1Target{Route: route.Tab1Route{Screen: route.Tab1Screen2}}, nil
	case segDetail:
		// Both detail/7 and detail?id=7 are accepted.
		if len(r.rest) > 0 && r.rest[0] != "" {
			return route.Tab1CustomerTarget{CustomerID: r.rest[0]}, nil
		}
		id, err := r.id()
		if err != nil {
			return nil, err
		}
		return route.Tab1CustomerTarget{CustomerID: id}, nil
	}
	return nil, unknownSegment(route.Tab1, r.segment)
}

func parseTab2(r request) (route.Target, error) {
	screen := route.Tab2Screen1
	switch r.segment {
	case "", segRoot, segScreen1:
	case segScreen2:
		screen = route.Tab2Screen2
	case segScreen3:
		screen = route.Tab2Screen3
	case segScreen2Detail:
		id, err := r.id()
		if err != nil {
			return nil, err
		}
		return route.Tab2Target{Route: route.Tab2Route{Screen: route.Tab2Screen2Detail, ID: id}}, nil
	default:
		return nil, unknownSegment(route.Tab2, r.segment)
	}
	return route.Tab2Target{Route: route.Tab2Route{Screen: screen}}, nil
}

var tab3Segments = map[string]route.Tab3Screen{
	segScreen2: route.Tab3Screen2,
	segScreen3: route.Tab3Screen3,
	segScreen4: route.Tab3Screen4,
	segScreen5: route.Tab3Screen5,
	segScreen6: route.Tab3Screen6,
}

func parseTab3(r request) (route.Target, error) {
	switch r.segment {
	case "", segRoot, segScreen1:
		return route.Tab3Target{Route: route.Tab3Route{Screen: route.Tab3Screen1}}, nil
	case segScreen2Detail, segScreen2Edit:
		id, err := r.id()
		if err != nil {
			return nil, err
		}
		screen := route.Tab3Screen2Detail
		if r.segment == segScreen2Edit {
			screen = route.Tab3Screen2Edit
		}
		return route.Tab3Target{Route: route.Tab3Route{Screen: screen, ID: id}}, nil
	}
	if screen, ok := tab3Segments[r.segment]; ok {
		return route.Tab3Target{Route: route.Tab3Route{Screen: screen}}, nil
	}
	return nil, unknownSegment(route.Tab3, r.segment)
}

func parseTab4(r request) (route.Target, error) {
	switch r.segment {
	case "", segRoot:
		return route.Tab4Target{Root: true}, nil
	case segDetails:
		raw, err := r.id()
		if err != nil {
			return nil, err
		}
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: tab4 id %q is not an integer", ErrNoMatch, raw)
		}
		return route.Tab4Target{Route: route.Tab4Route{ID: id}}, nil
	}
	return nil, unknownSegment(route.Tab4, r.segment)
}
