package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "lacasa/internal/log"
	"lacasa/internal/services"
	"lacasa/internal/validate"
)

// PageHandler serves the two screens and the dialogs that are not tied to
// the cart.
type PageHandler struct {
	base
}

func (h *PageHandler) Home(c *fiber.Ctx) error {
	if err := h.Sessions.ShowHome(c.UserContext(), sid(c)); err != nil {
		return err
	}
	return h.page(c, fiber.StatusOK)
}

// Menu shows the menu on the requested tab. Unknown categories are logged and
// the current tab stays.
func (h *PageHandler) Menu(c *fiber.Ctx) error {
	_, err := h.Sessions.ShowMenu(c.UserContext(), sid(c), c.Query("category"))
	if errors.Is(err, services.ErrInvalidCategory) {
		h.Metrics.Rejections.WithLabelValues("invalid_category").Inc()
		applog.Security(c, "validation.fail", map[string]any{"field": "category"})
		if _, err = h.Sessions.ShowMenu(c.UserContext(), sid(c), ""); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	return h.page(c, fiber.StatusOK)
}

func (h *PageHandler) CloseDialog(c *fiber.Ctx) error {
	if err := h.Sessions.CloseDialog(c.UserContext(), sid(c)); err != nil {
		return err
	}
	return h.back(c)
}

func (h *PageHandler) OpenImage(c *fiber.Ctx) error {
	url, ok := validate.MediaRef(c.FormValue("url"))
	if !ok {
		return h.invalid(c, "url")
	}
	alt, ok := validate.Name(c.FormValue("alt"))
	if !ok {
		return h.invalid(c, "alt")
	}
	if err := h.Sessions.OpenImage(c.UserContext(), sid(c), url, alt); err != nil {
		return err
	}
	return h.back(c)
}
