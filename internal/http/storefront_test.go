package handlers_test

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lacasa/internal/config"
)

func TestHomeAndMenuScreens(t *testing.T) {
	srv := newTestServer(t, nil)
	sh := newShopper(t, srv)

	_, body := sh.get("/")
	if !strings.Contains(body, "Ver Nuestro Menú") {
		t.Fatalf("home screen missing; body=%s", body)
	}

	resp, body := sh.get("/menu")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	// Opens on pizzas: sizes, not products
	if !strings.Contains(body, "Extra Grande") || !strings.Contains(body, `action="/pizza/personal/open"`) {
		t.Fatalf("pizza sizes missing; body=%s", body)
	}

	_, body = sh.get("/menu?category=hamburguesas")
	if !strings.Contains(body, "Leñador Sencilla") || strings.Contains(body, "Extra Grande") {
		t.Fatalf("hamburguesas tab not shown; body=%s", body)
	}

	// Unknown category keeps the current tab
	resp, body = sh.get("/menu?category=postres")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Leñador Sencilla") {
		t.Fatalf("expected hamburguesas to stay active; body=%s", body)
	}

	// POSTs redirect back to the screen the shopper is on
	resp, _ = sh.post("/cart/toggle", nil)
	expectRedirect(t, resp, "/menu")
}

func TestAddUpdateRemoveProducts(t *testing.T) {
	srv := newTestServer(t, nil)
	sh := newShopper(t, srv)

	resp, _ := sh.post("/cart/items", url.Values{"productId": {"ham1"}})
	expectRedirect(t, resp, "/")
	sh.post("/cart/items", url.Values{"productId": {"ham1"}})
	sh.post("/cart/items", url.Values{"productId": {"esp1"}})

	c := sh.cart()
	if len(c.Items) != 2 || c.ItemCount != 3 {
		t.Fatalf("expected 2 entries and 3 units, got %+v", c)
	}
	if c.Items[0].ProductID != "ham1" || c.Items[0].Quantity != 2 {
		t.Fatalf("expected ham1 merged to 2, got %+v", c.Items[0])
	}
	if c.Total != 36000 || c.TotalFormatted != "$\u00a036.000" {
		t.Fatalf("unexpected total %d %q", c.Total, c.TotalFormatted)
	}

	_, body := sh.get("/")
	if !strings.Contains(body, "Salchipapa agregado al carrito") {
		t.Fatalf("add notice missing; body=%s", body)
	}
	// Notices are shown once
	_, body = sh.get("/")
	if strings.Contains(body, "agregado al carrito") {
		t.Fatal("notice shown twice")
	}

	id := c.Items[0].ID
	sh.post("/cart/items/"+id+"/quantity", url.Values{"quantity": {"5"}})
	if got := sh.cart().Items[0].Quantity; got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}
	sh.post("/cart/items/"+id+"/quantity", url.Values{"quantity": {"0"}})
	c = sh.cart()
	if len(c.Items) != 1 || c.Items[0].ProductID != "esp1" {
		t.Fatalf("expected ham1 removed at quantity 0, got %+v", c.Items)
	}

	sh.post("/cart/items/"+c.Items[0].ID+"/delete", nil)
	if c = sh.cart(); len(c.Items) != 0 || c.Total != 0 {
		t.Fatalf("expected empty cart, got %+v", c)
	}

	resp, _ = sh.post("/cart/items", url.Values{"productId": {"nope"}})
	expectRedirect(t, resp, "/")
	if c = sh.cart(); len(c.Items) != 0 {
		t.Fatalf("unknown product must not be added, got %+v", c.Items)
	}
}

func TestCartToggleRendersPanel(t *testing.T) {
	srv := newTestServer(t, nil)
	sh := newShopper(t, srv)
	sh.post("/cart/items", url.Values{"productId": {"pic2"}})

	sh.post("/cart/toggle", nil)
	if !sh.cart().Open {
		t.Fatal("expected cart open")
	}
	_, body := sh.get("/")
	if !strings.Contains(body, "Tu Pedido") || !strings.Contains(body, "Finalizar Pedido") {
		t.Fatalf("cart panel missing; body=%s", body)
	}
	if !strings.Contains(body, `<span class="badge">1</span>`) {
		t.Fatalf("badge missing; body=%s", body)
	}

	sh.post("/cart/toggle", nil)
	if sh.cart().Open {
		t.Fatal("expected cart closed")
	}
}

func TestPizzaFlavorDialog(t *testing.T) {
	srv := newTestServer(t, nil)
	sh := newShopper(t, srv)
	sh.get("/menu")

	resp, _ := sh.post("/pizza/personal/open", nil)
	expectRedirect(t, resp, "/menu")

	_, body := sh.get("/menu")
	if !strings.Contains(body, "Pizza Personal") || !strings.Contains(body, "Sabores seleccionados: 0/2") {
		t.Fatalf("flavor dialog missing; body=%s", body)
	}

	// Confirming with nothing chosen is refused
	sh.post("/pizza/confirm", nil)
	_, body = sh.get("/menu")
	if !strings.Contains(body, "Selecciona al menos un sabor") {
		t.Fatalf("empty selection notice missing; body=%s", body)
	}

	sh.post("/pizza/flavor", url.Values{"flavor": {"Leñador"}})
	sh.post("/pizza/flavor", url.Values{"flavor": {"Campesina"}})
	sh.post("/pizza/flavor", url.Values{"flavor": {"Margarita"}})
	_, body = sh.get("/menu")
	if !strings.Contains(body, "Máximo 2 sabores para este tamaño") {
		t.Fatalf("limit notice missing; body=%s", body)
	}
	if !strings.Contains(body, "Sabores seleccionados: 2/2") {
		t.Fatalf("selection should stay at 2; body=%s", body)
	}

	sh.post("/pizza/quantity", url.Values{"delta": {"-1"}})
	sh.post("/pizza/quantity", url.Values{"delta": {"1"}})
	sh.post("/pizza/quantity", url.Values{"delta": {"1"}})
	resp, _ = sh.post("/pizza/confirm", nil)
	expectRedirect(t, resp, "/menu")

	c := sh.cart()
	if len(c.Items) != 1 {
		t.Fatalf("expected one pizza entry, got %+v", c.Items)
	}
	it := c.Items[0]
	if it.Name != "Pizza Personal" || it.ProductID != "pizza-personal" || it.Size != "Personal" || it.Quantity != 3 {
		t.Fatalf("unexpected pizza entry %+v", it)
	}
	if strings.Join(it.Flavors, ",") != "Leñador,Campesina" {
		t.Fatalf("expected flavors in selection order, got %v", it.Flavors)
	}

	_, body = sh.get("/menu")
	if !strings.Contains(body, "Pizza Personal agregada al carrito") {
		t.Fatalf("confirm notice missing; body=%s", body)
	}
	if strings.Contains(body, "Sabores seleccionados") {
		t.Fatal("dialog should be closed after confirm")
	}
}

func TestPizzaSizeWithAccentInPath(t *testing.T) {
	srv := newTestServer(t, nil)
	sh := newShopper(t, srv)

	resp, _ := sh.post("/pizza/peque%C3%B1a/open", nil)
	expectRedirect(t, resp, "/")
	sh.post("/pizza/flavor", url.Values{"flavor": {"Mixta"}})
	sh.post("/pizza/confirm", nil)

	c := sh.cart()
	if len(c.Items) != 1 || c.Items[0].Name != "Pizza Pequeña" || c.Items[0].Price != 25000 {
		t.Fatalf("unexpected cart %+v", c.Items)
	}

	resp, _ = sh.post("/pizza/gigante/open", nil)
	expectRedirect(t, resp, "/")
	_, body := sh.get("/")
	if strings.Contains(body, "Sabores seleccionados") {
		t.Fatal("unknown size must not open the dialog")
	}
}

// Template output is escaped
func TestImageDialogEscapesAltText(t *testing.T) {
	srv := newTestServer(t, nil)
	sh := newShopper(t, srv)

	payload := `<script>alert(1)</script>`
	resp, _ := sh.post("/image/open", url.Values{"url": {"/perros/10069.jpg"}, "alt": {payload}})
	expectRedirect(t, resp, "/")

	_, body := sh.get("/")
	if strings.Contains(body, payload) {
		t.Fatalf("alt text rendered unescaped; body=%s", body)
	}
	if !strings.Contains(body, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("escaped alt text missing; body=%s", body)
	}
	if !strings.Contains(body, `src="/media/perros/10069.jpg"`) {
		t.Fatalf("image missing; body=%s", body)
	}

	resp, _ = sh.post("/image/open", url.Values{"url": {"https://evil.example/x.png"}, "alt": {"x"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for external image url, got %d", resp.StatusCode)
	}

	sh.post("/dialog/close", nil)
	_, body = sh.get("/")
	if strings.Contains(body, `class="dialog image"`) {
		t.Fatal("image dialog should be closed")
	}
}

func TestMediaServedWithTraversalGuard(t *testing.T) {
	media := t.TempDir()
	if err := os.MkdirAll(filepath.Join(media, "pizzas"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(media, "pizzas", "pizza.jpg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, func(cfg *config.Config) { cfg.MediaDir = media })
	sh := newShopper(t, srv)

	resp, body := sh.get("/media/pizzas/pizza.jpg")
	if resp.StatusCode != http.StatusOK || body != "jpeg" {
		t.Fatalf("expected media file, got %d %q", resp.StatusCode, body)
	}

	for _, p := range []string{
		"/media/..%2f..%2fetc%2fpasswd",
		"/media/%2e%2e/secret",
		"/media/pizzas/%00.jpg",
	} {
		resp, _ := sh.get(p)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", p, resp.StatusCode)
		}
	}
}

func TestCatalogAPIAndHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	sh := newShopper(t, srv)

	resp, body := sh.get("/api/v1/catalog")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, want := range []string{`"key":"pizzas"`, `"maxFlavors":4`, `"Pizzas Dulces"`, `"id":"esp5"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("catalog missing %s; body=%s", want, body)
		}
	}

	resp, body = sh.get("/healthz")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok":true`) {
		t.Fatalf("unexpected health %d %s", resp.StatusCode, body)
	}

	sh.post("/cart/items", url.Values{"productId": {"ham2"}})
	_, body = sh.get("/metrics")
	if !strings.Contains(body, `lacasa_cart_actions_total{action="add_item"} 1`) {
		t.Fatalf("cart action metric missing; body=%s", body)
	}
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t, nil)
	sh := newShopper(t, srv)

	resp, body := sh.get("/search")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, body = sh.get("/search?q=" + url.QueryEscape("salchipapa"))
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Salchipapa") {
		t.Fatalf("expected Salchipapa in results, got %d; body=%s", resp.StatusCode, body)
	}

	resp, body = sh.get("/search?q=" + url.QueryEscape("bbq") + "&category=pizzas")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Pollo BBQ") {
		t.Fatalf("expected flavor match, got %d; body=%s", resp.StatusCode, body)
	}

	resp, _ = sh.get("/search?q=" + url.QueryEscape("' OR 1=1 --"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad keyword, got %d", resp.StatusCode)
	}
	resp, _ = sh.get("/search?q=pollo&category=postres")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad category, got %d", resp.StatusCode)
	}
}

// Values kept in the session must not change once their request is done
func TestSessionStateSurvivesRequests(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) { cfg.RateLimit = 6000 })
	sh := newShopper(t, srv)

	for i := 1; i <= 20; i++ {
		sh.post("/cart/items", url.Values{"productId": {"ham1"}})
		sh.get("/")
		sh.get("/menu")
		sh.get("/search?q=perro")
		c := sh.cart()
		if len(c.Items) != 1 || c.Items[0].Quantity != i {
			t.Fatalf("round %d: expected one ham1 entry with quantity %d, got %+v", i, i, c.Items)
		}
	}

	noise := func() {
		for i := 0; i < 10; i++ {
			sh.post("/cart/items", url.Values{"productId": {"esp2"}})
			sh.get("/menu?category=especiales")
			sh.get("/search?q=chorizo")
		}
	}

	sh.post("/image/open", url.Values{"url": {"/perros/10069.jpg"}, "alt": {"Perro Sencillo"}})
	noise()
	if _, body := sh.get("/"); !strings.Contains(body, `alt="Perro Sencillo"`) {
		t.Fatalf("stored alt text changed; body=%s", body)
	}
	sh.post("/dialog/close", nil)

	sh.post("/pizza/mediana/open", nil)
	sh.post("/pizza/flavor", url.Values{"flavor": {"Campesina"}})
	noise()
	sh.post("/pizza/confirm", nil)
	c := sh.cart()
	last := c.Items[len(c.Items)-1]
	if last.Name != "Pizza Mediana" || strings.Join(last.Flavors, ",") != "Campesina" {
		t.Fatalf("stored flavor changed, got %+v", last)
	}

	sh.post("/checkout/open", nil)
	sh.post("/checkout/form", url.Values{"name": {"Ana Gómez"}, "phone": {"3001234567"}, "address": {"Calle 123"}})
	noise()
	_, body := sh.get("/")
	for _, want := range []string{`value="Ana Gómez"`, `value="3001234567"`, `value="Calle 123"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("stored form value %s changed; body=%s", want, body)
		}
	}
}
