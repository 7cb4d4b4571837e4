package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "lacasa/internal/log"
	"lacasa/internal/services"
	"lacasa/internal/validate"
)

type CartHandler struct {
	base
	Cart *services.CartService
}

func (h *CartHandler) Toggle(c *fiber.Ctx) error {
	if _, err := h.Cart.Toggle(c.UserContext(), sid(c)); err != nil {
		return err
	}
	return h.back(c)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return h.invalid(c, "productId")
	}
	item, err := h.Cart.AddProduct(c.UserContext(), sid(c), productID)
	if err != nil {
		return h.reject(c, "cart.add", err)
	}
	applog.Info(c, "cart.add", map[string]any{"productId": item.ProductID})
	return h.back(c)
}

func (h *CartHandler) Quantity(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return h.invalid(c, "id")
	}
	qty, ok := validate.SetQty(c.FormValue("quantity"))
	if !ok {
		return h.invalid(c, "quantity")
	}
	if _, err := h.Cart.SetQuantity(c.UserContext(), sid(c), id, qty); err != nil {
		return err
	}
	return h.back(c)
}

func (h *CartHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return h.invalid(c, "id")
	}
	if _, err := h.Cart.Remove(c.UserContext(), sid(c), id); err != nil {
		return err
	}
	return h.back(c)
}
