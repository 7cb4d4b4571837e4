package handlers

import (
	"github.com/gofiber/fiber/v2"

	"lacasa/internal/cart"
	"lacasa/internal/domain"
	"lacasa/internal/order"
	"lacasa/internal/services"
)

// APIHandler exposes read-only JSON views of the cart and the catalog.
type APIHandler struct {
	Cart     *services.CartService
	Checkout *services.CheckoutService
	Catalog  *services.CatalogService
}

type cartJSON struct {
	Items          []cart.LineItem `json:"items"`
	Total          int64           `json:"total"`
	TotalFormatted string          `json:"totalFormatted"`
	ItemCount      int             `json:"itemCount"`
	Open           bool            `json:"open"`
	Checkout       string          `json:"checkout"`
}

func (h *APIHandler) GetCart(c *fiber.Ctx) error {
	s, err := h.Cart.State(c.UserContext(), sid(c))
	if err != nil {
		return err
	}
	items := s.Items
	if items == nil {
		items = []cart.LineItem{}
	}
	phase, err := h.Checkout.Phase(c.UserContext(), sid(c))
	if err != nil {
		return err
	}
	total := cart.Total(s)
	return c.JSON(cartJSON{
		Items:          items,
		Total:          total,
		TotalFormatted: order.FormatPrice(total),
		ItemCount:      cart.ItemCount(s),
		Open:           s.Open,
		Checkout:       phase.String(),
	})
}

type catalogJSON struct {
	Categories []domain.Category       `json:"categories"`
	Sizes      []domain.PizzaSize      `json:"sizes"`
	Flavors    []domain.FlavorCategory `json:"flavors"`
	Products   []domain.Product        `json:"products"`
}

func (h *APIHandler) GetCatalog(c *fiber.Ctx) error {
	var (
		out catalogJSON
		err error
	)
	if out.Categories, err = h.Catalog.ListCategories(); err != nil {
		return err
	}
	if out.Sizes, err = h.Catalog.ListSizes(); err != nil {
		return err
	}
	if out.Flavors, err = h.Catalog.ListFlavors(); err != nil {
		return err
	}
	if out.Products, err = h.Catalog.ListProducts(); err != nil {
		return err
	}
	return c.JSON(out)
}
