package handlers

import (
	"github.com/jmoiron/sqlx"

	"lacasa/internal/cart"
	"lacasa/internal/config"
	"lacasa/internal/metrics"
	"lacasa/internal/repos"
	"lacasa/internal/services"
	"lacasa/internal/session"
)

// Services is the one set of services the app runs on. Handlers share it; no
// package keeps its own copy.
type Services struct {
	Catalog  *services.CatalogService
	Cart     *services.CartService
	Sessions *services.SessionService
	Pizza    *services.PizzaService
	Checkout *services.CheckoutService
}

type Deps struct {
	Services Services

	PageHandler     *PageHandler
	CartHandler     *CartHandler
	PizzaHandler    *PizzaHandler
	CheckoutHandler *CheckoutHandler
	APIHandler      *APIHandler
	SearchHandler   *SearchHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, store session.Store, m *metrics.Metrics) *Deps {
	if m == nil {
		m = metrics.Noop()
	}
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	pizzaRepo := repos.NewPizzaRepo(db)

	var opts []cart.Option
	if cfg.MergeFlavorsAnyOrder {
		opts = append(opts, cart.WithOrderInsensitiveFlavors())
	}

	catalogSvc := services.NewCatalogService(catRepo, prodRepo, pizzaRepo)
	cartSvc := services.NewCartService(store, cart.NewReducer(opts...), catalogSvc, m)
	sessionSvc := services.NewSessionService(store)
	pizzaSvc := services.NewPizzaService(store, catalogSvc, cartSvc)
	checkoutSvc := services.NewCheckoutService(store, cartSvc, services.Handoff{
		Host:        cfg.HandoffHost,
		Destination: cfg.HandoffDestination,
		Delay:       cfg.HandoffDelay,
	}, m)

	svcs := Services{
		Catalog:  catalogSvc,
		Cart:     cartSvc,
		Sessions: sessionSvc,
		Pizza:    pizzaSvc,
		Checkout: checkoutSvc,
	}
	b := base{Sessions: sessionSvc, Catalog: catalogSvc, Metrics: m}

	return &Deps{
		Services:        svcs,
		PageHandler:     &PageHandler{base: b},
		CartHandler:     &CartHandler{base: b, Cart: cartSvc},
		PizzaHandler:    &PizzaHandler{base: b, Pizza: pizzaSvc},
		CheckoutHandler: &CheckoutHandler{base: b, Checkout: checkoutSvc},
		APIHandler:      &APIHandler{Cart: cartSvc, Checkout: checkoutSvc, Catalog: catalogSvc},
		SearchHandler:   &SearchHandler{Catalog: catalogSvc},
	}
}
