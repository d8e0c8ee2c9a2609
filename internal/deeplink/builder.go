package deeplink

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/starford/tabnav/internal/route"
)

// URL renders t as a deep link that Parse maps back to t. A Tab1 detail
// target carrying a full customer is rendered with the customer's stable id,
// so it parses back as a Tab1CustomerTarget.
func (p Parser) URL(t route.Target) (string, error) {
	segment, id, err := segmentFor(t)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: p.scheme(), Host: t.Domain().String(), Path: "/" + segment}
	if id != "" {
		u.RawQuery = url.Values{paramID: []string{id}}.Encode()
	}
	return u.String(), nil
}

func segmentFor(t route.Target) (segment, id string, err error) {
	switch t := t.(type) {
	case route.AuthTarget:
		if t.Route.Screen == route.AuthValidation {
			return segValidation, "", nil
		}
		return segLogin, "", nil
	case route.Tab1Target:
		switch t.Route.Screen {
		case route.Tab1Screen1:
			return segScreen1, "", nil
		case route.Tab1Screen2:
			return segScreen2, "", nil
		case route.Tab1Detail:
			return segDetail, t.Route.Customer.StableID(), nil
		}
	case route.Tab1CustomerTarget:
		if t.CustomerID != "" {
			return segDetail, t.CustomerID, nil
		}
	case route.Tab2Target:
		switch t.Route.Screen {
		case route.Tab2Screen1:
			return segScreen1, "", nil
		case route.Tab2Screen2:
			return segScreen2, "", nil
		case route.Tab2Screen3:
			return segScreen3, "", nil
		case route.Tab2Screen2Detail:
			if t.Route.Valid() {
				return segScreen2Detail, t.Route.ID, nil
			}
		}
	case route.Tab3Target:
		switch t.Route.Screen {
		case route.Tab3Screen1:
			return segScreen1, "", nil
		case route.Tab3Screen2Detail:
			if t.Route.Valid() {
				return segScreen2Detail, t.Route.ID, nil
			}
		case route.Tab3Screen2Edit:
			if t.Route.Valid() {
				return segScreen2Edit, t.Route.ID, nil
			}
		default:
			for seg, screen := range tab3Segments {
				if screen == t.Route.Screen {
					return seg, "", nil
				}
			}
		}
	case route.Tab4Target:
		if t.Root {
			return segRoot, "", nil
		}
		return segDetails, strconv.Itoa(t.Route.ID), nil
	}
	return "", "", fmt.Errorf("%w: cannot render %T", ErrNoMatch, t)
}
