package services

import (
	"context"
	"errors"
	"fmt"

	"lacasa/internal/cart"
	"lacasa/internal/metrics"
	"lacasa/internal/session"
)

// CartService is the cart engine: it owns the session store and applies cart
// actions through one reducer. Build it once and hand it to whoever needs it.
type CartService struct {
	Sessions session.Store
	Reducer  *cart.Reducer
	Catalog  *CatalogService
	Metrics  *metrics.Metrics
}

func NewCartService(sessions session.Store, reducer *cart.Reducer, catalog *CatalogService, m *metrics.Metrics) *CartService {
	if reducer == nil {
		reducer = cart.NewReducer()
	}
	if m == nil {
		m = metrics.Noop()
	}
	return &CartService{Sessions: sessions, Reducer: reducer, Catalog: catalog, Metrics: m}
}

// ApplyTo runs actions against the cart held in sess. It is meant for other
// services that already hold the session inside a store update.
func (s *CartService) ApplyTo(sess *session.Session, actions ...cart.Action) {
	for _, a := range actions {
		if a == nil {
			continue
		}
		sess.Cart = s.Reducer.Apply(sess.Cart, a)
		s.Metrics.CartActions.WithLabelValues(a.Name()).Inc()
	}
}

// Dispatch applies actions in order to the session's cart and returns the
// resulting state.
func (s *CartService) Dispatch(ctx context.Context, sid string, actions ...cart.Action) (cart.State, error) {
	sess, err := s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		s.ApplyTo(sess, actions...)
		return nil
	})
	if err != nil {
		return cart.State{}, err
	}
	return sess.Cart, nil
}

// State returns the cart of sid, empty for sessions never seen.
func (s *CartService) State(ctx context.Context, sid string) (cart.State, error) {
	sess, err := s.Sessions.Load(ctx, sid)
	if errors.Is(err, session.ErrNotFound) {
		return session.New().Cart, nil
	}
	if err != nil {
		return cart.State{}, err
	}
	return sess.Cart, nil
}

// AddProduct adds one unit of a fixed-price product.
func (s *CartService) AddProduct(ctx context.Context, sid, productID string) (cart.LineItem, error) {
	p, err := s.Catalog.GetProduct(productID)
	if err != nil {
		return cart.LineItem{}, err
	}
	item := cart.LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
		Category:  string(p.Category),
	}
	_, err = s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		s.ApplyTo(sess, cart.AddItem{Item: item})
		sess.Notify(session.NoticeSuccess, fmt.Sprintf("%s agregado al carrito", p.Name))
		return nil
	})
	return item, err
}

// SetQuantity changes an entry's quantity; zero or less removes it.
func (s *CartService) SetQuantity(ctx context.Context, sid, lineID string, qty int) (cart.State, error) {
	return s.Dispatch(ctx, sid, cart.UpdateQuantity{ID: lineID, Quantity: qty})
}

// Remove deletes an entry and tells the shopper. Unknown ids change nothing.
func (s *CartService) Remove(ctx context.Context, sid, lineID string) (cart.State, error) {
	sess, err := s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		if _, ok := cart.Find(sess.Cart, lineID); !ok {
			return nil
		}
		s.ApplyTo(sess, cart.RemoveItem{ID: lineID})
		sess.Notify(session.NoticeSuccess, "Producto eliminado del carrito")
		return nil
	})
	if err != nil {
		return cart.State{}, err
	}
	return sess.Cart, nil
}

// Toggle opens or closes the cart panel. Closing it also closes checkout.
func (s *CartService) Toggle(ctx context.Context, sid string) (cart.State, error) {
	sess, err := s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		s.ApplyTo(sess, cart.ToggleCart{})
		if _, ok := sess.Dialog.(session.CheckoutDialog); ok && !sess.Cart.Open {
			sess.Dialog = session.NoDialog{}
		}
		return nil
	})
	if err != nil {
		return cart.State{}, err
	}
	return sess.Cart, nil
}
