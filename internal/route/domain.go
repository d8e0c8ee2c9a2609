// Package route defines the navigation domains, their route variants, the
// canonical ancestor chains between screens, and the token codecs used to
// persist navigation stacks.
package route

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDomain is returned when a domain name is not one of the fixed set.
var ErrUnknownDomain = errors.New("unknown navigation domain")

// Domain identifies one independent navigation context.
type Domain int

// Navigation domains.
const (
	Auth Domain = iota
	Tab1
	Tab2
	Tab3
	Tab4
)

// Domains lists every domain in declaration order.
var Domains = []Domain{Auth, Tab1, Tab2, Tab3, Tab4}

var domainNames = [...]string{
	Auth: "auth",
	Tab1: "tab1",
	Tab2: "tab2",
	Tab3: "tab3",
	Tab4: "tab4",
}

func (d Domain) String() string {
	if d < Auth || d > Tab4 {
		return fmt.Sprintf("domain(%d)", int(d))
	}
	return domainNames[d]
}

// IsTab reports whether the domain can be the active tab.
func (d Domain) IsTab() bool {
	return d >= Tab1 && d <= Tab4
}

// StorageKey is the persistence key of the domain's stack.
func (d Domain) StorageKey() string {
	return "router." + d.String() + ".path"
}

// ParseDomain maps a case-insensitive domain name to its Domain.
func ParseDomain(name string) (Domain, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, d := range Domains {
		if domainNames[d] == n {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDomain, name)
}

// Persistence keys of the Tab3 modal slots.
const (
	Tab3ModalKey      = "router.tab3.modal"
	Tab3FullScreenKey = "router.tab3.fullscreen"
)
