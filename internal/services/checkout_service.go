package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lacasa/internal/cart"
	applog "lacasa/internal/log"
	"lacasa/internal/metrics"
	"lacasa/internal/order"
	"lacasa/internal/session"
	"lacasa/internal/validate"
)

// DefaultHandoffDelay is how long after a submission the cart is reset. It
// only gives the browser time to start navigating to the messaging app;
// nothing confirms the order actually arrived there.
const DefaultHandoffDelay = time.Second

type Phase int

const (
	PhaseEditing Phase = iota
	PhaseSubmittable
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmittable:
		return "submittable"
	case PhaseSubmitted:
		return "submitted"
	default:
		return "editing"
	}
}

// PhaseOf re-evaluates the form after each edit: it can be submitted once
// name, phone and address hold more than whitespace.
func PhaseOf(form cart.Customer) Phase {
	if validate.Fields(form) != nil {
		return PhaseEditing
	}
	return PhaseSubmittable
}

type Handoff struct {
	Host        string
	Destination string
	Delay       time.Duration
}

type CheckoutService struct {
	Sessions session.Store
	Cart     *CartService
	Handoff  Handoff
	Metrics  *metrics.Metrics

	after   func(time.Duration, func())
	pending sync.WaitGroup

	mu        sync.Mutex
	submitted map[string]int
}

func NewCheckoutService(sessions session.Store, c *CartService, h Handoff, m *metrics.Metrics) *CheckoutService {
	if h.Delay < 0 {
		h.Delay = DefaultHandoffDelay
	}
	if m == nil {
		m = metrics.Noop()
	}
	return &CheckoutService{
		Sessions:  sessions,
		Cart:      c,
		Handoff:   h,
		Metrics:   m,
		after:     func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		submitted: map[string]int{},
	}
}

// Phase reports where the session's checkout stands. A session whose order
// was handed off stays Submitted until its reset has run.
func (s *CheckoutService) Phase(ctx context.Context, sid string) (Phase, error) {
	if s.handingOff(sid) {
		return PhaseSubmitted, nil
	}
	sess, err := s.Sessions.Load(ctx, sid)
	if errors.Is(err, session.ErrNotFound) {
		return PhaseEditing, nil
	}
	if err != nil {
		return PhaseEditing, err
	}
	return PhaseOf(sess.Checkout), nil
}

func (s *CheckoutService) handingOff(sid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted[sid] > 0
}

// Open shows the checkout form inside the cart panel.
func (s *CheckoutService) Open(ctx context.Context, sid string) error {
	_, err := s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		if len(sess.Cart.Items) == 0 {
			return ErrEmptyCart
		}
		if !sess.Cart.Open {
			s.Cart.ApplyTo(sess, cart.ToggleCart{})
		}
		sess.Dialog = session.CheckoutDialog{}
		return nil
	})
	return err
}

// UpdateForm stores what the shopper typed so far and reports the phase.
func (s *CheckoutService) UpdateForm(ctx context.Context, sid string, form cart.Customer) (Phase, error) {
	_, err := s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		sess.Checkout = form
		return nil
	})
	if err != nil {
		return PhaseEditing, err
	}
	if s.handingOff(sid) {
		return PhaseSubmitted, nil
	}
	return PhaseOf(form), nil
}

// Submit validates the form and returns the hand-off URL carrying the order.
// An incomplete form keeps the dialog open, leaves the cart untouched and
// queues a notice. After Handoff.Delay the cart is cleared, the customer is
// remembered and the form is reset.
func (s *CheckoutService) Submit(ctx context.Context, sid string, form cart.Customer) (string, error) {
	var (
		link     string
		rejected error
	)
	_, err := s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		link, rejected = "", nil
		sess.Checkout = form
		if len(sess.Cart.Items) == 0 {
			rejected = ErrEmptyCart
			sess.Notify(session.NoticeError, "Tu carrito está vacío")
			return nil
		}
		if missing := validate.Fields(form); missing != nil {
			rejected = fmt.Errorf("%w: %v", ErrIncompleteCheckoutForm, missing)
			sess.Notify(session.NoticeError, "Por favor completa todos los campos")
			return nil
		}
		link = order.HandoffURL(s.Handoff.Host, s.Handoff.Destination, sess.Cart, form)
		return nil
	})
	if err != nil {
		return "", err
	}
	if rejected != nil {
		s.Metrics.Rejections.WithLabelValues("checkout").Inc()
		return "", rejected
	}

	s.Metrics.Handoffs.Inc()
	s.schedule(context.WithoutCancel(ctx), sid, form)
	return link, nil
}

func (s *CheckoutService) schedule(ctx context.Context, sid string, form cart.Customer) {
	s.mu.Lock()
	s.submitted[sid]++
	s.mu.Unlock()
	s.pending.Add(1)
	s.after(s.Handoff.Delay, func() {
		defer s.pending.Done()
		defer func() {
			s.mu.Lock()
			if s.submitted[sid]--; s.submitted[sid] <= 0 {
				delete(s.submitted, sid)
			}
			s.mu.Unlock()
		}()
		if err := s.complete(ctx, sid, form); err != nil {
			applog.Fail("checkout.reset.fail", err, map[string]any{"sid": sid})
			return
		}
		applog.Event("checkout.reset", map[string]any{"sid": sid})
	})
}

// complete is the Submitted transition. The cart panel keeps its visibility.
func (s *CheckoutService) complete(ctx context.Context, sid string, form cart.Customer) error {
	_, err := s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		s.Cart.ApplyTo(sess, cart.ClearCart{}, cart.SetCustomer{Customer: form})
		if _, ok := sess.Dialog.(session.CheckoutDialog); ok {
			sess.Dialog = session.NoDialog{}
		}
		sess.Checkout = cart.Customer{}
		sess.Notify(session.NoticeSuccess, "¡Pedido enviado por WhatsApp!")
		return nil
	})
	return err
}

// Wait blocks until every scheduled reset has run. Used on shutdown.
func (s *CheckoutService) Wait() { s.pending.Wait() }
