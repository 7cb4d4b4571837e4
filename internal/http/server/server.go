// Package server assembles the Fiber app: middleware, static files, routes
// and the error page.
package server

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"lacasa/internal/config"
	"lacasa/internal/http/handlers"
	applog "lacasa/internal/log"
	"lacasa/internal/metrics"
	"lacasa/internal/order"
	"lacasa/internal/session"
)

type Server struct {
	App  *fiber.App
	Deps *handlers.Deps
	cfg  config.Config
}

// Views loads the storefront templates with the helpers they use.
func Views(dir string, reload bool) *html.Engine {
	engine := html.New(dir, ".html")
	engine.Reload(reload)
	engine.AddFunc("price", order.FormatPrice)
	return engine
}

// ErrorHandler logs the error and shows a friendly page without details.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Algo salió mal. Por favor intenta de nuevo."
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code = fe.Code
		msg = "No pudimos procesar tu solicitud."
	}
	applog.Error(c, "server.error", err, map[string]any{"code": code})
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

func New(cfg config.Config, db *sqlx.DB, store session.Store, m *metrics.Metrics) *Server {
	if m == nil {
		m = metrics.Noop()
	}
	if cfg.RateLimit < 1 {
		cfg.RateLimit = config.Default().RateLimit
	}

	app := fiber.New(fiber.Config{
		Views:        Views(cfg.TemplatesDir, false),
		UnescapePath: true,
		// Session ids and form values outlive the request in the session store.
		Immutable:    true,
		ErrorHandler: ErrorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(m.Middleware())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("notfound", fiber.Map{"Message": "Demasiadas solicitudes. Intenta en un momento."})
		},
	}))
	app.Use(handlers.SessionID(int(cfg.SessionTTL / time.Second)))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ContextKey:     "csrf",
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			m.Rejections.WithLabelValues("csrf").Inc()
			applog.Security(c, "csrf.fail", map[string]any{"err": err.Error()})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "La verificación de seguridad falló. Recarga la página e intenta de nuevo."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	applog.Event("static.mount", map[string]any{"static": cfg.StaticDir, "media": mediaDir})

	app.Static("/static", cfg.StaticDir)
	app.Get("/media/*", Media(mediaDir))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, store, m)

	app.Get("/", deps.PageHandler.Home)
	app.Get("/menu", deps.PageHandler.Menu)
	app.Get("/search", limiter.New(limiter.Config{
		Max:        max(1, cfg.RateLimit/6),
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|search"
		},
	}), deps.SearchHandler.Search)
	app.Post("/dialog/close", deps.PageHandler.CloseDialog)
	app.Post("/image/open", deps.PageHandler.OpenImage)

	app.Post("/cart/toggle", deps.CartHandler.Toggle)
	app.Post("/cart/items", deps.CartHandler.Add)
	app.Post("/cart/items/:id/quantity", deps.CartHandler.Quantity)
	app.Post("/cart/items/:id/delete", deps.CartHandler.Delete)

	app.Post("/pizza/flavor", deps.PizzaHandler.Flavor)
	app.Post("/pizza/quantity", deps.PizzaHandler.Quantity)
	app.Post("/pizza/confirm", deps.PizzaHandler.Confirm)
	app.Post("/pizza/:size/open", deps.PizzaHandler.Open)

	app.Post("/checkout/open", deps.CheckoutHandler.Open)
	app.Post("/checkout/form", deps.CheckoutHandler.Form)
	app.Post("/checkout", limiter.New(limiter.Config{
		Max:        max(1, cfg.RateLimit/10),
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|checkout"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.checkout.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("notfound", fiber.Map{"Message": "Demasiados pedidos seguidos. Intenta en un momento."})
		},
	}), deps.CheckoutHandler.Submit)

	api := app.Group("/api/v1")
	api.Get("/cart", deps.APIHandler.GetCart)
	api.Get("/catalog", deps.APIHandler.GetCatalog)

	// Health, metrics & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Página no encontrada"})
	})

	return &Server{App: app, Deps: deps, cfg: cfg}
}

// Media serves catalog images from dir and refuses anything that could leave
// it.
func Media(dir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		// Block encoded traversal attempts as well as raw .. or null bytes
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(dir, clean), true)
	}
}

func (s *Server) Listen() error {
	return s.App.Listen(":" + s.cfg.Port)
}

// Shutdown stops accepting requests and lets pending cart resets finish.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.App.ShutdownWithContext(ctx)
	done := make(chan struct{})
	go func() {
		s.Deps.Services.Checkout.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return errors.Join(err, ctx.Err())
	}
	return err
}
