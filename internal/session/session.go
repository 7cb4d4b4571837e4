// Package session keeps everything one shopper sees between requests: the cart,
// the screen and category being browsed, the open dialog, the pizza being
// configured, the checkout form and pending notices.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"lacasa/internal/cart"
	"lacasa/internal/domain"
)

var ErrNotFound = errors.New("session not found")

type Screen string

const (
	ScreenHome Screen = "home"
	ScreenMenu Screen = "menu"
)

// Dialog is the modal currently shown over the page. Exactly one of the types
// below is active at a time; NoDialog means nothing is open.
type Dialog interface {
	Kind() string
	isDialog()
}

type NoDialog struct{}

// FlavorDialog configures a pizza of the given size.
type FlavorDialog struct{ SizeID string }

// CheckoutDialog collects the customer data inside the cart panel.
type CheckoutDialog struct{}

// ImageDialog shows a product picture full size.
type ImageDialog struct{ URL, Alt string }

func (NoDialog) Kind() string       { return "none" }
func (FlavorDialog) Kind() string   { return "flavor" }
func (CheckoutDialog) Kind() string { return "checkout" }
func (ImageDialog) Kind() string    { return "image" }

func (NoDialog) isDialog()       {}
func (FlavorDialog) isDialog()   {}
func (CheckoutDialog) isDialog() {}
func (ImageDialog) isDialog()    {}

// Picker is the in-progress pizza: chosen flavors in selection order and the
// number of pizzas to add.
type Picker struct {
	SizeID   string   `json:"sizeId,omitempty"`
	Flavors  []string `json:"flavors,omitempty"`
	Quantity int      `json:"quantity"`
}

func NewPicker(sizeID string) Picker { return Picker{SizeID: sizeID, Quantity: 1} }

// Selected reports whether flavor is already part of the selection.
func (p Picker) Selected(flavor string) bool {
	for _, f := range p.Flavors {
		if f == flavor {
			return true
		}
	}
	return false
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a short-lived message shown once on the next page render.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

type Session struct {
	Cart     cart.State         `json:"cart"`
	Screen   Screen             `json:"screen"`
	Category domain.CategoryKey `json:"category"`
	Dialog   Dialog             `json:"-"`
	Picker   Picker             `json:"picker"`
	Checkout cart.Customer      `json:"checkout"`
	Notices  []Notice           `json:"notices,omitempty"`
}

// New returns the state of a first visit: home screen, pizzas selected,
// nothing open.
func New() Session {
	return Session{
		Screen:   ScreenHome,
		Category: domain.DefaultCategory,
		Dialog:   NoDialog{},
		Picker:   Picker{Quantity: 1},
	}
}

func (s *Session) Notify(kind NoticeKind, text string) {
	s.Notices = append(s.Notices, Notice{Kind: kind, Text: text})
}

// TakeNotices returns the queued notices and empties the queue.
func (s *Session) TakeNotices() []Notice {
	n := s.Notices
	s.Notices = nil
	return n
}

// CloseDialog closes any open modal and discards an unfinished pizza.
func (s *Session) CloseDialog() {
	if _, ok := s.Dialog.(FlavorDialog); ok {
		s.Picker = Picker{Quantity: 1}
	}
	s.Dialog = NoDialog{}
}

type dialogJSON struct {
	Kind   string `json:"kind"`
	SizeID string `json:"sizeId,omitempty"`
	URL    string `json:"url,omitempty"`
	Alt    string `json:"alt,omitempty"`
}

type sessionAlias Session

type sessionJSON struct {
	sessionAlias
	Dialog dialogJSON `json:"dialog"`
}

func (s Session) MarshalJSON() ([]byte, error) {
	out := sessionJSON{sessionAlias: sessionAlias(s)}
	switch d := s.Dialog.(type) {
	case FlavorDialog:
		out.Dialog = dialogJSON{Kind: d.Kind(), SizeID: d.SizeID}
	case CheckoutDialog:
		out.Dialog = dialogJSON{Kind: d.Kind()}
	case ImageDialog:
		out.Dialog = dialogJSON{Kind: d.Kind(), URL: d.URL, Alt: d.Alt}
	default:
		out.Dialog = dialogJSON{Kind: NoDialog{}.Kind()}
	}
	return json.Marshal(out)
}

func (s *Session) UnmarshalJSON(b []byte) error {
	var in sessionJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*s = Session(in.sessionAlias)
	switch in.Dialog.Kind {
	case "", "none":
		s.Dialog = NoDialog{}
	case "flavor":
		s.Dialog = FlavorDialog{SizeID: in.Dialog.SizeID}
	case "checkout":
		s.Dialog = CheckoutDialog{}
	case "image":
		s.Dialog = ImageDialog{URL: in.Dialog.URL, Alt: in.Dialog.Alt}
	default:
		return fmt.Errorf("unknown dialog kind %q", in.Dialog.Kind)
	}
	return nil
}
