package handlers

import (
	"strings"

	"lacasa/internal/cart"
	"lacasa/internal/domain"
	"lacasa/internal/order"
	"lacasa/internal/services"
	"lacasa/internal/session"
)

// PageView is everything the index template draws for one session.
type PageView struct {
	Screen     string
	Categories []domain.Category
	Active     domain.CategoryKey
	Menu       services.Menu
	Cart       CartView
	Dialog     string
	Flavor     *FlavorView
	Checkout   *CheckoutView
	Image      *session.ImageDialog
	Notices    []session.Notice
}

type CartView struct {
	Open      bool
	Items     []CartLine
	Count     int
	Total     int64
	TotalText string
}

func (v CartView) Empty() bool { return len(v.Items) == 0 }

// CartLine is one cart entry with its display strings. Less and More are the
// quantities the -/+ buttons post; Less reaching zero removes the entry.
type CartLine struct {
	cart.LineItem
	SubtotalText string
	FlavorText   string
	Less, More   int
}

type FlavorView struct {
	Size         domain.PizzaSize
	Groups       []FlavorGroup
	Chosen       int
	Full         bool
	Quantity     int
	SubtotalText string
}

type FlavorGroup struct {
	Name    string
	Options []FlavorOption
}

type FlavorOption struct {
	domain.Flavor
	Selected bool
	Disabled bool
}

type CheckoutView struct {
	Form        cart.Customer
	Submittable bool
	TotalText   string
}

func newCartView(s cart.State) CartView {
	v := CartView{
		Open:      s.Open,
		Count:     cart.ItemCount(s),
		Total:     cart.Total(s),
		TotalText: order.FormatPrice(cart.Total(s)),
	}
	for _, it := range s.Items {
		v.Items = append(v.Items, CartLine{
			LineItem:     it,
			SubtotalText: order.FormatPrice(it.Subtotal()),
			FlavorText:   strings.Join(it.Flavors, ", "),
			Less:         it.Quantity - 1,
			More:         it.Quantity + 1,
		})
	}
	return v
}

func buildPage(catalog *services.CatalogService, sess session.Session, notices []session.Notice) (PageView, error) {
	cats, err := catalog.ListCategories()
	if err != nil {
		return PageView{}, err
	}
	if sess.Dialog == nil {
		sess.Dialog = session.NoDialog{}
	}
	active := sess.Category
	if active == "" {
		active = domain.DefaultCategory
	}
	v := PageView{
		Screen:     string(sess.Screen),
		Categories: cats,
		Active:     active,
		Cart:       newCartView(sess.Cart),
		Dialog:     sess.Dialog.Kind(),
		Notices:    notices,
	}
	if sess.Screen == session.ScreenMenu {
		if v.Menu, err = catalog.Menu(active); err != nil {
			return PageView{}, err
		}
	}

	switch d := sess.Dialog.(type) {
	case session.FlavorDialog:
		fv, err := buildFlavor(catalog, d.SizeID, sess.Picker)
		if err != nil {
			return PageView{}, err
		}
		v.Flavor = fv
	case session.CheckoutDialog:
		v.Checkout = &CheckoutView{
			Form:        sess.Checkout,
			Submittable: services.PhaseOf(sess.Checkout) == services.PhaseSubmittable,
			TotalText:   v.Cart.TotalText,
		}
	case session.ImageDialog:
		v.Image = &d
	}
	return v, nil
}

// buildFlavor marks each option selected or not; once the size's maximum is
// reached the remaining options are disabled.
func buildFlavor(catalog *services.CatalogService, sizeID string, p session.Picker) (*FlavorView, error) {
	size, err := catalog.GetSize(sizeID)
	if err != nil {
		return nil, err
	}
	groups, err := catalog.ListFlavors()
	if err != nil {
		return nil, err
	}
	qty := max(1, p.Quantity)
	fv := &FlavorView{
		Size:         size,
		Chosen:       len(p.Flavors),
		Full:         len(p.Flavors) >= size.MaxFlavors,
		Quantity:     qty,
		SubtotalText: order.FormatPrice(size.Price * int64(qty)),
	}
	for _, g := range groups {
		fg := FlavorGroup{Name: g.Name}
		for _, f := range g.Flavors {
			sel := p.Selected(f.Name)
			fg.Options = append(fg.Options, FlavorOption{Flavor: f, Selected: sel, Disabled: fv.Full && !sel})
		}
		fv.Groups = append(fv.Groups, fg)
	}
	return fv, nil
}
