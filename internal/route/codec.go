package route

import (
	"strconv"

	"github.com/starford/tabnav/internal/models"
)

// DecodeStats counts tokens that did not decode one-to-one.
type DecodeStats struct {
	// Dropped tokens were unknown or malformed and were skipped.
	Dropped int
	// Degraded tokens could not be resolved and were replaced by an ancestor.
	Degraded int
}

// Add accumulates o into s.
func (s *DecodeStats) Add(o DecodeStats) {
	s.Dropped += o.Dropped
	s.Degraded += o.Degraded
}

// Codec converts between a domain's routes and tokens. Decode never fails:
// entries it cannot map are skipped and counted.
type Codec[R comparable] interface {
	Encode(routes []R) []Token
	Decode(tokens []Token) ([]R, DecodeStats)
}

// EncodeOne encodes a single route, reporting false when the codec omits it.
func EncodeOne[R comparable](c Codec[R], r R) (Token, bool) {
	tokens := c.Encode([]R{r})
	if len(tokens) != 1 {
		return Token{}, false
	}
	return tokens[0], true
}

// DecodeOne decodes a single token, reporting false unless it maps to exactly
// one route without degradation.
func DecodeOne[R comparable](c Codec[R], t Token) (R, bool) {
	routes, stats := c.Decode([]Token{t})
	if len(routes) != 1 || stats.Degraded > 0 {
		var zero R
		return zero, false
	}
	return routes[0], true
}

// tableCodec maps each route to at most one token and back.
type tableCodec[R comparable] struct {
	encode func(R) (Token, bool)
	decode func(Token) (R, bool)
}

func (c tableCodec[R]) Encode(routes []R) []Token {
	out := make([]Token, 0, len(routes))
	for _, r := range routes {
		if t, ok := c.encode(r); ok {
			out = append(out, t)
		}
	}
	return out
}

func (c tableCodec[R]) Decode(tokens []Token) ([]R, DecodeStats) {
	var stats DecodeStats
	out := make([]R, 0, len(tokens))
	for _, t := range tokens {
		r, ok := c.decode(t)
		if !ok {
			stats.Dropped++
			continue
		}
		out = append(out, r)
	}
	return out, stats
}

// AuthCodec returns the Auth domain codec.
func AuthCodec() Codec[AuthRoute] {
	return tableCodec[AuthRoute]{
		encode: func(r AuthRoute) (Token, bool) {
			switch r.Screen {
			case AuthLogin:
				return Token{Tag: TagLogin}, true
			case AuthValidation:
				return Token{Tag: TagValidation}, true
			}
			return Token{}, false
		},
		decode: func(t Token) (AuthRoute, bool) {
			if t.Param != "" {
				return AuthRoute{}, false
			}
			switch t.Tag {
			case TagLogin:
				return AuthRoute{Screen: AuthLogin}, true
			case TagValidation:
				return AuthRoute{Screen: AuthValidation}, true
			}
			return AuthRoute{}, false
		},
	}
}

// CustomerIDs lets the Tab1 codec persist detail routes. Either function may
// be nil.
type CustomerIDs struct {
	Extract func(models.Customer) string
	Resolve func(id string) (models.Customer, bool)
}

// Tab1Codec returns the Tab1 codec. Detail routes are omitted on encode when
// ids.Extract is nil, and degrade to Screen2 on decode when they cannot be
// resolved.
func Tab1Codec(ids CustomerIDs) Codec[Tab1Route] {
	return tab1Codec{ids: ids}
}

type tab1Codec struct {
	ids CustomerIDs
}

func (c tab1Codec) Encode(routes []Tab1Route) []Token {
	out := make([]Token, 0, len(routes))
	for _, r := range routes {
		switch r.Screen {
		case Tab1Screen1:
			out = append(out, Token{Tag: TagScreen1})
		case Tab1Screen2:
			out = append(out, Token{Tag: TagScreen2})
		case Tab1Detail:
			if c.ids.Extract == nil {
				continue
			}
			if id := c.ids.Extract(r.Customer); id != "" {
				out = append(out, Token{Tag: TagDetail, Param: id})
			}
		}
	}
	return out
}

func (c tab1Codec) Decode(tokens []Token) ([]Tab1Route, DecodeStats) {
	var stats DecodeStats
	screen2 := Tab1Route{Screen: Tab1Screen2}
	out := make([]Tab1Route, 0, len(tokens))
	for _, t := range tokens {
		switch {
		case t.Tag == TagScreen1 && t.Param == "":
			out = append(out, Tab1Route{Screen: Tab1Screen1})
		case t.Tag == TagScreen2 && t.Param == "":
			out = append(out, screen2)
		case t.Tag == TagDetail && t.Param != "":
			if c.ids.Resolve != nil {
				if cust, ok := c.ids.Resolve(t.Param); ok {
					out = append(out, Tab1Route{Screen: Tab1Detail, Customer: cust})
					continue
				}
			}
			stats.Degraded++
			if n := len(out); n == 0 || out[n-1] != screen2 {
				out = append(out, screen2)
			}
		default:
			stats.Dropped++
		}
	}
	return out, stats
}

var tab2Tags = map[Tab2Screen]string{
	Tab2Screen1:       TagScreen1,
	Tab2Screen2:       TagScreen2,
	Tab2Screen2Detail: TagScreen2Detail,
	Tab2Screen3:       TagScreen3,
}

// Tab2Codec returns the Tab2 codec.
func Tab2Codec() Codec[Tab2Route] {
	return tableCodec[Tab2Route]{
		encode: func(r Tab2Route) (Token, bool) {
			tag, ok := tab2Tags[r.Screen]
			if !ok || !r.Valid() {
				return Token{}, false
			}
			return Token{Tag: tag, Param: r.ID}, true
		},
		decode: func(t Token) (Tab2Route, bool) {
			for screen, tag := range tab2Tags {
				if tag == t.Tag {
					r := Tab2Route{Screen: screen, ID: t.Param}
					return r, r.Valid()
				}
			}
			return Tab2Route{}, false
		},
	}
}

var tab3Tags = map[Tab3Screen]string{
	Tab3Screen1:       TagScreen1,
	Tab3Screen2:       TagScreen2,
	Tab3Screen2Detail: TagScreen2Detail,
	Tab3Screen2Edit:   TagScreen2Edit,
	Tab3Screen3:       TagScreen3,
	Tab3Screen4:       TagScreen4,
	Tab3Screen5:       TagScreen5,
	Tab3Screen6:       TagScreen6,
}

// Tab3Codec returns the Tab3 codec.
func Tab3Codec() Codec[Tab3Route] {
	return tableCodec[Tab3Route]{
		encode: func(r Tab3Route) (Token, bool) {
			tag, ok := tab3Tags[r.Screen]
			if !ok || !r.Valid() {
				return Token{}, false
			}
			return Token{Tag: tag, Param: r.ID}, true
		},
		decode: func(t Token) (Tab3Route, bool) {
			for screen, tag := range tab3Tags {
				if tag == t.Tag {
					r := Tab3Route{Screen: screen, ID: t.Param}
					return r, r.Valid()
				}
			}
			return Tab3Route{}, false
		},
	}
}

// Tab4Codec returns the Tab4 codec. Ids are written as decimal strings.
func Tab4Codec() Codec[Tab4Route] {
	return tableCodec[Tab4Route]{
		encode: func(r Tab4Route) (Token, bool) {
			return Token{Tag: TagDetails, Param: strconv.Itoa(r.ID)}, true
		},
		decode: func(t Token) (Tab4Route, bool) {
			if t.Tag != TagDetails {
				return Tab4Route{}, false
			}
			id, err := strconv.Atoi(t.Param)
			if err != nil {
				return Tab4Route{}, false
			}
			return Tab4Route{ID: id}, true
		},
	}
}

// ModalCodec returns the codec for Tab3 modal slots.
func ModalCodec() Codec[Tab3Modal] {
	return tableCodec[Tab3Modal]{
		encode: func(m Tab3Modal) (Token, bool) {
			switch m {
			case ModalCreateItem, ModalFilter:
				return Token{Tag: m.String()}, true
			}
			return Token{}, false
		},
		decode: func(t Token) (Tab3Modal, bool) {
			if t.Param != "" {
				return 0, false
			}
			return ParseModal(t.Tag)
		},
	}
}
