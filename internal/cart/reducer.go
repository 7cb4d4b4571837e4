package cart

import (
	"slices"

	"github.com/google/uuid"
)

// Reducer applies actions to a State. The zero value is not usable; build one
// with NewReducer.
type Reducer struct {
	newID    func() string
	anyOrder bool
}

type Option func(*Reducer)

// WithIDGenerator replaces the uuid generator used for new entries.
func WithIDGenerator(gen func() string) Option {
	return func(r *Reducer) { r.newID = gen }
}

// WithOrderInsensitiveFlavors merges entries whose flavors hold the same names
// in any order. By default ["a","b"] and ["b","a"] stay separate entries.
func WithOrderInsensitiveFlavors() Option {
	return func(r *Reducer) { r.anyOrder = true }
}

// NewReducer builds a reducer with uuid entry ids and order-sensitive flavor
// merging unless opts say otherwise.
func NewReducer(opts ...Option) *Reducer {
	r := &Reducer{newID: uuid.NewString}
	for _, o := range opts {
		o(r)
	}
	return r
}

var defaultReducer = NewReducer()

// Apply runs a with the default reducer.
func Apply(s State, a Action) State { return defaultReducer.Apply(s, a) }

// Apply returns the state after a. The input is never modified and actions it
// does not recognise return s as is.
func (r *Reducer) Apply(s State, a Action) State {
	switch act := a.(type) {
	case AddItem:
		return r.add(s, act.Item)
	case RemoveItem:
		next := s
		next.Items = slices.DeleteFunc(slices.Clone(s.Items), func(it LineItem) bool { return it.ID == act.ID })
		return next
	case UpdateQuantity:
		next := s
		items := make([]LineItem, 0, len(s.Items))
		for _, it := range s.Items {
			if it.ID == act.ID {
				it.Quantity = min(act.Quantity, MaxQuantity)
			}
			if it.Quantity > 0 {
				items = append(items, it)
			}
		}
		next.Items = items
		return next
	case ToggleCart:
		next := s
		next.Open = !s.Open
		return next
	case ClearCart:
		next := s
		next.Items = []LineItem{}
		return next
	case SetCustomer:
		next := s
		next.Customer = act.Customer
		return next
	default:
		return s
	}
}

func (r *Reducer) add(s State, item LineItem) State {
	// Entries never hold a non-positive quantity, so such adds carry nothing.
	if item.Quantity < 1 {
		return s
	}
	next := s
	items := slices.Clone(s.Items)
	for i, it := range items {
		if r.sameEntry(it, item) {
			items[i].Quantity = min(it.Quantity+item.Quantity, MaxQuantity)
			next.Items = items
			return next
		}
	}
	item.ID = r.newID()
	item.Quantity = min(item.Quantity, MaxQuantity)
	item.Flavors = slices.Clone(item.Flavors)
	next.Items = append(items, item)
	return next
}

func (r *Reducer) sameEntry(a, b LineItem) bool {
	if a.ProductID != b.ProductID || a.Size != b.Size {
		return false
	}
	if !r.anyOrder {
		return slices.Equal(a.Flavors, b.Flavors)
	}
	if len(a.Flavors) != len(b.Flavors) {
		return false
	}
	x, y := slices.Clone(a.Flavors), slices.Clone(b.Flavors)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}
