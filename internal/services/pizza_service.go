package services

import (
	"context"
	"fmt"
	"slices"

	"lacasa/internal/cart"
	"lacasa/internal/domain"
	"lacasa/internal/session"
)

// PizzaService drives the flavor dialog: pick a size, choose up to its
// maximum of flavors, set how many, then add them to the cart.
type PizzaService struct {
	Sessions session.Store
	Catalog  *CatalogService
	Cart     *CartService
}

func NewPizzaService(sessions session.Store, catalog *CatalogService, c *CartService) *PizzaService {
	return &PizzaService{Sessions: sessions, Catalog: catalog, Cart: c}
}

// Open starts configuring a pizza of the given size with an empty selection.
func (s *PizzaService) Open(ctx context.Context, sid, sizeID string) (domain.PizzaSize, error) {
	size, err := s.Catalog.GetSize(sizeID)
	if err != nil {
		return domain.PizzaSize{}, err
	}
	_, err = s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		sess.Dialog = session.FlavorDialog{SizeID: size.ID}
		sess.Picker = session.NewPicker(size.ID)
		return nil
	})
	return size, err
}

// openSize returns the size being configured in sess.
func (s *PizzaService) openSize(sess *session.Session) (domain.PizzaSize, error) {
	d, ok := sess.Dialog.(session.FlavorDialog)
	if !ok {
		return domain.PizzaSize{}, ErrNoPizzaOpen
	}
	return s.Catalog.GetSize(d.SizeID)
}

// ToggleFlavor removes flavor when selected and appends it otherwise. Going
// past the size's maximum is rejected, the selection is left alone and the
// shopper is told the limit.
func (s *PizzaService) ToggleFlavor(ctx context.Context, sid, flavor string) (session.Picker, error) {
	known, err := s.Catalog.FlavorExists(flavor)
	if err != nil {
		return session.Picker{}, err
	}
	if !known {
		return session.Picker{}, fmt.Errorf("%w: %q", ErrUnknownFlavor, flavor)
	}

	var rejected error
	sess, err := s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		rejected = nil
		size, err := s.openSize(sess)
		if err != nil {
			return err
		}
		p := &sess.Picker
		switch {
		case p.Selected(flavor):
			p.Flavors = slices.DeleteFunc(slices.Clone(p.Flavors), func(f string) bool { return f == flavor })
		case len(p.Flavors) < size.MaxFlavors:
			p.Flavors = append(slices.Clone(p.Flavors), flavor)
		default:
			rejected = fmt.Errorf("%w: %s allows %d", ErrFlavorLimitExceeded, size.Name, size.MaxFlavors)
			sess.Notify(session.NoticeError, fmt.Sprintf("Máximo %d sabores para este tamaño", size.MaxFlavors))
		}
		return nil
	})
	if err != nil {
		return session.Picker{}, err
	}
	return sess.Picker, rejected
}

// ChangeQuantity steps the number of pizzas by delta within 1..cart.MaxQuantity.
func (s *PizzaService) ChangeQuantity(ctx context.Context, sid string, delta int) (int, error) {
	sess, err := s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		if _, ok := sess.Dialog.(session.FlavorDialog); !ok {
			return ErrNoPizzaOpen
		}
		sess.Picker.Quantity = min(max(1, sess.Picker.Quantity+delta), cart.MaxQuantity)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sess.Picker.Quantity, nil
}

// Confirm adds the configured pizzas to the cart and closes the dialog. With
// no flavor chosen the dialog stays open and the shopper is told why.
func (s *PizzaService) Confirm(ctx context.Context, sid string) (cart.LineItem, error) {
	var (
		item     cart.LineItem
		rejected error
	)
	_, err := s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		rejected = nil
		size, err := s.openSize(sess)
		if err != nil {
			return err
		}
		if len(sess.Picker.Flavors) == 0 {
			rejected = ErrEmptyFlavorSelection
			sess.Notify(session.NoticeError, "Selecciona al menos un sabor")
			return nil
		}
		item = PizzaLineItem(size, sess.Picker.Flavors, sess.Picker.Quantity)
		s.Cart.ApplyTo(sess, cart.AddItem{Item: item})
		sess.CloseDialog()
		sess.Notify(session.NoticeSuccess, fmt.Sprintf("Pizza %s agregada al carrito", size.Name))
		return nil
	})
	if err != nil {
		return cart.LineItem{}, err
	}
	return item, rejected
}

// PizzaLineItem builds the cart entry for qty pizzas of size with flavors.
func PizzaLineItem(size domain.PizzaSize, flavors []string, qty int) cart.LineItem {
	return cart.LineItem{
		ProductID: "pizza-" + size.ID,
		Name:      "Pizza " + size.Name,
		Price:     size.Price,
		Quantity:  max(1, qty),
		Size:      size.Name,
		Flavors:   slices.Clone(flavors),
		Category:  string(domain.CategoryPizzas),
	}
}
