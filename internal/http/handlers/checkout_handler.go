package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lacasa/internal/cart"
	applog "lacasa/internal/log"
	"lacasa/internal/services"
)

type CheckoutHandler struct {
	base
	Checkout *services.CheckoutService
}

func (h *CheckoutHandler) Open(c *fiber.Ctx) error {
	if err := h.Checkout.Open(c.UserContext(), sid(c)); err != nil {
		return h.reject(c, "checkout.open", err)
	}
	return h.back(c)
}

func (h *CheckoutHandler) form(c *fiber.Ctx) (cart.Customer, bool) {
	var form cart.Customer
	if err := c.BodyParser(&form); err != nil {
		return cart.Customer{}, false
	}
	return form, true
}

// Form saves the fields typed so far. Browsers without scripts post it from
// the "Guardar" button; the page then shows whether the order can be sent.
func (h *CheckoutHandler) Form(c *fiber.Ctx) error {
	form, ok := h.form(c)
	if !ok {
		return h.invalid(c, "form")
	}
	if _, err := h.Checkout.UpdateForm(c.UserContext(), sid(c), form); err != nil {
		return err
	}
	return h.back(c)
}

// Submit hands the order off to the messaging app with a 303. An incomplete
// form renders the page again with a 400 and the cart untouched.
func (h *CheckoutHandler) Submit(c *fiber.Ctx) error {
	form, ok := h.form(c)
	if !ok {
		return h.invalid(c, "form")
	}
	link, err := h.Checkout.Submit(c.UserContext(), sid(c), form)
	switch {
	case errors.Is(err, services.ErrIncompleteCheckoutForm):
		applog.Security(c, "validation.fail", map[string]any{"action": "checkout.submit", "reason": "incomplete_checkout_form"})
		return h.page(c, fiber.StatusBadRequest)
	case err != nil:
		return h.reject(c, "checkout.submit", err)
	}
	applog.Audit(c, "order.handoff", map[string]any{"host": h.Checkout.Handoff.Host})
	return c.Redirect(link, fiber.StatusSeeOther)
}
