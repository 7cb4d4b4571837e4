package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "lacasa/internal/log"
	"lacasa/internal/metrics"
	"lacasa/internal/services"
	"lacasa/internal/session"
)

const sidCookie = "sid"

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		// Fall back to the cookie so hidden fields are never empty.
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

// SessionID makes sure every request carries a session cookie and exposes
// its value as Locals("sid").
func SessionID(maxAge int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(sidCookie)
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     sidCookie,
				Value:    sid,
				Path:     "/",
				MaxAge:   maxAge,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
				Secure:   false, // enable true behind TLS
			})
		}
		c.Locals(sidCookie, sid)
		return c.Next()
	}
}

func sid(c *fiber.Ctx) string {
	s, _ := c.Locals(sidCookie).(string)
	return s
}

// base carries what every page handler needs to answer with the storefront.
type base struct {
	Sessions *services.SessionService
	Catalog  *services.CatalogService
	Metrics  *metrics.Metrics
}

// back sends the browser to the screen it was on. 303 turns the POST into a
// GET so a reload does not repeat the action.
func (b *base) back(c *fiber.Ctx) error {
	sess, err := b.Sessions.Get(c.UserContext(), sid(c))
	if err != nil {
		return err
	}
	if sess.Screen == session.ScreenMenu {
		return c.Redirect("/menu", fiber.StatusSeeOther)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// page renders the whole storefront for the current session, consuming its
// notices.
func (b *base) page(c *fiber.Ctx, status int) error {
	sess, notices, err := b.Sessions.View(c.UserContext(), sid(c))
	if err != nil {
		return err
	}
	view, err := buildPage(b.Catalog, sess, notices)
	if err != nil {
		return err
	}
	c.Status(status)
	return render(c, "index", fiber.Map{"Page": view})
}

// reject handles an error from a service call. Shopper mistakes are logged and
// counted, and the storefront is shown again with its notice; anything else
// goes to the app error handler.
func (b *base) reject(c *fiber.Ctx, action string, err error) error {
	if !services.IsUserError(err) {
		return err
	}
	reason := rejectionReason(err)
	b.Metrics.Rejections.WithLabelValues(reason).Inc()
	applog.Security(c, "validation.fail", map[string]any{"action": action, "reason": reason})
	return b.back(c)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, services.ErrIncompleteCheckoutForm):
		return "incomplete_checkout_form"
	case errors.Is(err, services.ErrFlavorLimitExceeded):
		return "flavor_limit_exceeded"
	case errors.Is(err, services.ErrEmptyFlavorSelection):
		return "empty_flavor_selection"
	case errors.Is(err, services.ErrUnknownSize):
		return "unknown_size"
	case errors.Is(err, services.ErrUnknownFlavor):
		return "unknown_flavor"
	case errors.Is(err, services.ErrUnknownProduct):
		return "unknown_product"
	case errors.Is(err, services.ErrInvalidCategory):
		return "invalid_category"
	case errors.Is(err, services.ErrNoPizzaOpen):
		return "no_pizza_open"
	case errors.Is(err, services.ErrEmptyCart):
		return "empty_cart"
	default:
		return "other"
	}
}

// invalid answers malformed input that never reached a service.
func (b *base) invalid(c *fiber.Ctx, field string) error {
	b.Metrics.Rejections.WithLabelValues("malformed_" + field).Inc()
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": "Solicitud inválida. Vuelve a intentarlo."})
}
