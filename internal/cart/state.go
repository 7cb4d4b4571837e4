// Package cart holds the cart state machine: a state value, the actions that
// change it, and a pure transition function. Nothing here performs I/O.
package cart

import "strings"

// LineItem is one entry in the cart. ID identifies the entry, ProductID the
// catalog entry it came from; several entries may share a ProductID when their
// size or flavors differ.
type LineItem struct {
	ID        string   `json:"id"`
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Price     int64    `json:"price"`
	Quantity  int      `json:"quantity"`
	Size      string   `json:"size,omitempty"`
	Flavors   []string `json:"flavors,omitempty"`
	Category  string   `json:"category"`
}

// MaxQuantity caps the units held by a single entry.
const MaxQuantity = 50

// Subtotal is Price times Quantity.
func (li LineItem) Subtotal() int64 { return li.Price * int64(li.Quantity) }

// Customer is the delivery contact typed into the checkout form.
type Customer struct {
	Name         string `json:"name" form:"name" validate:"required,notblank,max=80"`
	Phone        string `json:"phone" form:"phone" validate:"required,notblank,max=30"`
	Address      string `json:"address" form:"address" validate:"required,notblank,max=200"`
	Observations string `json:"observations,omitempty" form:"observations" validate:"max=500"`
}

// HasObservations reports whether the free-text note carries anything besides
// whitespace.
func (c Customer) HasObservations() bool { return strings.TrimSpace(c.Observations) != "" }

// State is the whole cart. Items keep insertion order.
type State struct {
	Items    []LineItem `json:"items"`
	Open     bool       `json:"open"`
	Customer Customer   `json:"customer"`
}

// Total sums price times quantity over every entry.
func Total(s State) int64 {
	var total int64
	for _, it := range s.Items {
		total += it.Subtotal()
	}
	return total
}

// ItemCount sums quantities, so two units of one entry count twice.
func ItemCount(s State) int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// Find returns the entry with the given id.
func Find(s State, id string) (LineItem, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return LineItem{}, false
}
