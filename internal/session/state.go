package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"afili_api/internal/sales"
)

// Screen is one of the navigable screens of the app.
type Screen string

const (
	ScreenDashboard Screen = "dashboard"
	ScreenLinks     Screen = "links"
	ScreenMaterials Screen = "materials"
	ScreenProfile   Screen = "profile"
)

var ErrInvalidScreen = errors.New("invalid screen")

// ParseScreen validates a screen name.
func ParseScreen(s string) (Screen, error) {
	switch sc := Screen(strings.ToLower(strings.TrimSpace(s))); sc {
	case ScreenDashboard, ScreenLinks, ScreenMaterials, ScreenProfile:
		return sc, nil
	default:
		return "", fmt.Errorf("%w: '%s'", ErrInvalidScreen, s)
	}
}

// Notification is the transient banner shown when a sale arrives.
type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSaleMessage is the banner text for a freshly received sale.
func NewSaleMessage(s *sales.Sale) string {
	return "🎉 Parabéns! Você recebeu uma comissão de " + sales.FormatBRL(s.Commission)
}

// State is the whole application state. Sales are newest first.
type State struct {
	Authenticated bool          `json:"authenticated"`
	Screen        Screen        `json:"screen"`
	Sales         []*sales.Sale `json:"-"`
	Loading       bool          `json:"loading"`
	Notification  *Notification `json:"notification"`
}

// Initial is the state of a logged-out app.
func Initial() State {
	return State{Screen: ScreenDashboard}
}

// Action is an intent or event applied to State by Reduce.
type Action interface {
	isAction()
}

type (
	LoggedIn  struct{}
	LoggedOut struct{}

	// SalesLoaded carries the result of a bulk fetch.
	SalesLoaded struct{ Sales []*sales.Sale }

	// SaleReceived carries a polled sale and the notification announcing it.
	SaleReceived struct {
		Sale         *sales.Sale
		Notification Notification
	}

	NotificationDismissed struct{ ID int64 }

	ScreenSelected struct{ Screen Screen }
)

func (LoggedIn) isAction()              {}
func (LoggedOut) isAction()             {}
func (SalesLoaded) isAction()           {}
func (SaleReceived) isAction()          {}
func (NotificationDismissed) isAction() {}
func (ScreenSelected) isAction()        {}

// Reduce returns the state that results from applying a to s. It never
// modifies s or the slices it refers to.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoggedIn:
		return State{Authenticated: true, Screen: ScreenDashboard, Loading: true}

	case LoggedOut:
		return Initial()

	case SalesLoaded:
		if !s.Authenticated {
			return s
		}
		// Sales polled while the fetch was in flight stay on top.
		inBatch := make(map[string]bool, len(a.Sales))
		for _, sale := range a.Sales {
			inBatch[sale.ID] = true
		}
		merged := make([]*sales.Sale, 0, len(s.Sales)+len(a.Sales))
		for _, sale := range s.Sales {
			if !inBatch[sale.ID] {
				merged = append(merged, sale)
			}
		}
		s.Sales = append(merged, a.Sales...)
		s.Loading = false
		return s

	case SaleReceived:
		if !s.Authenticated || a.Sale == nil {
			return s
		}
		list := make([]*sales.Sale, 0, len(s.Sales)+1)
		s.Sales = append(append(list, a.Sale), s.Sales...)
		n := a.Notification
		s.Notification = &n
		return s

	case NotificationDismissed:
		if s.Notification != nil && s.Notification.ID == a.ID {
			s.Notification = nil
		}
		return s

	case ScreenSelected:
		if s.Authenticated {
			s.Screen = a.Screen
		}
		return s
	}
	return s
}
