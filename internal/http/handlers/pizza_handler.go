package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"lacasa/internal/services"
	"lacasa/internal/validate"
)

// PizzaHandler drives the flavor dialog.
type PizzaHandler struct {
	base
	Pizza *services.PizzaService
}

func (h *PizzaHandler) Open(c *fiber.Ctx) error {
	raw, err := url.PathUnescape(c.Params("size"))
	if err != nil {
		return h.invalid(c, "size")
	}
	sizeID, ok := validate.ID(raw)
	if !ok {
		return h.invalid(c, "size")
	}
	if _, err := h.Pizza.Open(c.UserContext(), sid(c), sizeID); err != nil {
		return h.reject(c, "pizza.open", err)
	}
	return h.back(c)
}

func (h *PizzaHandler) Flavor(c *fiber.Ctx) error {
	flavor, ok := validate.Name(c.FormValue("flavor"))
	if !ok {
		return h.invalid(c, "flavor")
	}
	if _, err := h.Pizza.ToggleFlavor(c.UserContext(), sid(c), flavor); err != nil {
		return h.reject(c, "pizza.flavor", err)
	}
	return h.back(c)
}

func (h *PizzaHandler) Quantity(c *fiber.Ctx) error {
	delta, ok := validate.Delta(c.FormValue("delta"))
	if !ok {
		return h.invalid(c, "delta")
	}
	if _, err := h.Pizza.ChangeQuantity(c.UserContext(), sid(c), delta); err != nil {
		return h.reject(c, "pizza.quantity", err)
	}
	return h.back(c)
}

func (h *PizzaHandler) Confirm(c *fiber.Ctx) error {
	if _, err := h.Pizza.Confirm(c.UserContext(), sid(c)); err != nil {
		return h.reject(c, "pizza.confirm", err)
	}
	return h.back(c)
}
