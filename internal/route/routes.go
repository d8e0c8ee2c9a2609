package route

import (
	"fmt"

	"github.com/starford/tabnav/internal/models"
)

// AuthScreen enumerates the Auth domain screens.
type AuthScreen int

const (
	AuthLogin AuthScreen = iota
	AuthValidation
)

// AuthRoute is one entry of the Auth stack.
type AuthRoute struct {
	Screen AuthScreen
}

func (r AuthRoute) String() string {
	switch r.Screen {
	case AuthLogin:
		return TagLogin
	case AuthValidation:
		return TagValidation
	}
	return fmt.Sprintf("auth(%d)", int(r.Screen))
}

// Tab1Screen enumerates the Tab1 screens.
type Tab1Screen int

const (
	Tab1Screen1 Tab1Screen = iota
	Tab1Screen2
	Tab1Detail
)

// Tab1Route is one entry of the Tab1 stack. Customer is only meaningful for
// Tab1Detail.
type Tab1Route struct {
	Screen   Tab1Screen
	Customer models.Customer
}

func (r Tab1Route) String() string {
	switch r.Screen {
	case Tab1Screen1:
		return TagScreen1
	case Tab1Screen2:
		return TagScreen2
	case Tab1Detail:
		return fmt.Sprintf("%s(%d)", TagDetail, r.Customer.ID)
	}
	return fmt.Sprintf("tab1(%d)", int(r.Screen))
}

// Tab2Screen enumerates the Tab2 screens.
type Tab2Screen int

const (
	Tab2Screen1 Tab2Screen = iota
	Tab2Screen2
	Tab2Screen2Detail
	Tab2Screen3
)

// Tab2Route is one entry of the Tab2 stack. ID is set only for Tab2Screen2Detail.
type Tab2Route struct {
	Screen Tab2Screen
	ID     string
}

// Valid reports whether the parameter matches the screen.
func (r Tab2Route) Valid() bool {
	switch r.Screen {
	case Tab2Screen1, Tab2Screen2, Tab2Screen3:
		return r.ID == ""
	case Tab2Screen2Detail:
		return r.ID != ""
	}
	return false
}

func (r Tab2Route) String() string {
	switch r.Screen {
	case Tab2Screen1:
		return TagScreen1
	case Tab2Screen2:
		return TagScreen2
	case Tab2Screen2Detail:
		return fmt.Sprintf("%s(%s)", TagScreen2Detail, r.ID)
	case Tab2Screen3:
		return TagScreen3
	}
	return fmt.Sprintf("tab2(%d)", int(r.Screen))
}

// Tab3Screen enumerates the Tab3 screens.
type Tab3Screen int

const (
	Tab3Screen1 Tab3Screen = iota
	Tab3Screen2
	Tab3Screen2Detail
	Tab3Screen2Edit
	Tab3Screen3
	Tab3Screen4
	Tab3Screen5
	Tab3Screen6
)

// Tab3Route is one entry of the Tab3 stack. ID is set only for the detail and
// edit screens.
type Tab3Route struct {
	Screen Tab3Screen
	ID     string
}

// Valid reports whether the parameter matches the screen.
func (r Tab3Route) Valid() bool {
	switch r.Screen {
	case Tab3Screen1, Tab3Screen2, Tab3Screen3, Tab3Screen4, Tab3Screen5, Tab3Screen6:
		return r.ID == ""
	case Tab3Screen2Detail, Tab3Screen2Edit:
		return r.ID != ""
	}
	return false
}

func (r Tab3Route) String() string {
	tag, ok := tab3Tags[r.Screen]
	if !ok {
		return fmt.Sprintf("tab3(%d)", int(r.Screen))
	}
	if r.ID != "" {
		return fmt.Sprintf("%s(%s)", tag, r.ID)
	}
	return tag
}

// Tab4Route is the only Tab4 variant: the details screen of an item.
type Tab4Route struct {
	ID int
}

func (r Tab4Route) String() string {
	return fmt.Sprintf("%s(%d)", TagDetails, r.ID)
}

// Tab3Modal is a presentation shown over the Tab3 stack.
type Tab3Modal int

const (
	ModalCreateItem Tab3Modal = iota + 1
	ModalFilter
)

func (m Tab3Modal) String() string {
	switch m {
	case ModalCreateItem:
		return TagCreateItem
	case ModalFilter:
		return TagFilter
	}
	return fmt.Sprintf("modal(%d)", int(m))
}

// ParseModal maps a modal tag to its value.
func ParseModal(tag string) (Tab3Modal, bool) {
	switch tag {
	case TagCreateItem:
		return ModalCreateItem, true
	case TagFilter:
		return ModalFilter, true
	}
	return 0, false
}
