package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"lacasa/internal/config"
	"lacasa/internal/http/server"
	"lacasa/internal/repos"
	"lacasa/internal/session"
)

var csrfField = regexp.MustCompile(`name="csrf" value="([^"]+)"`)

// Minimal storefront on an in-memory db and session store
func newTestServer(t *testing.T, mutate func(*config.Config)) *server.Server {
	t.Helper()
	cfg := config.Default()
	cfg.DBDSN = ":memory:"
	cfg.TemplatesDir = "../../web/templates"
	cfg.StaticDir = "../../web/static"
	cfg.MediaDir = t.TempDir()
	cfg.HandoffDelay = 50 * time.Millisecond
	if mutate != nil {
		mutate(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	srv := server.New(cfg, db, session.NewMemoryStore(time.Hour), nil)
	t.Cleanup(func() { srv.Deps.Services.Checkout.Wait() })
	return srv
}

// shopper is one browser: it keeps the session and csrf cookies between
// requests and knows the current form token.
type shopper struct {
	t       *testing.T
	srv     *server.Server
	cookies map[string]*http.Cookie
	token   string
}

func newShopper(t *testing.T, srv *server.Server) *shopper {
	t.Helper()
	s := &shopper{t: t, srv: srv, cookies: map[string]*http.Cookie{}}
	resp, body := s.get("/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("home: expected 200, got %d", resp.StatusCode)
	}
	if _, ok := s.cookies["sid"]; !ok {
		t.Fatal("sid cookie missing")
	}
	if s.token == "" {
		t.Fatalf("csrf token missing from page; body=%s", body)
	}
	return s
}

func (s *shopper) do(req *http.Request) (*http.Response, string) {
	s.t.Helper()
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	resp, err := s.srv.App.Test(req, -1)
	if err != nil {
		s.t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	for _, c := range resp.Cookies() {
		s.cookies[c.Name] = c
	}
	b, _ := io.ReadAll(resp.Body)
	body := string(b)
	if m := csrfField.FindStringSubmatch(body); m != nil {
		s.token = m[1]
	}
	return resp, body
}

func (s *shopper) get(path string) (*http.Response, string) {
	return s.do(httptest.NewRequest("GET", path, nil))
}

func (s *shopper) post(path string, form url.Values) (*http.Response, string) {
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", s.token)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

type apiCart struct {
	Items []struct {
		ID        string   `json:"id"`
		ProductID string   `json:"productId"`
		Name      string   `json:"name"`
		Price     int64    `json:"price"`
		Quantity  int      `json:"quantity"`
		Size      string   `json:"size"`
		Flavors   []string `json:"flavors"`
	} `json:"items"`
	Total          int64  `json:"total"`
	TotalFormatted string `json:"totalFormatted"`
	ItemCount      int    `json:"itemCount"`
	Open           bool   `json:"open"`
	Checkout       string `json:"checkout"`
}

func (s *shopper) cart() apiCart {
	s.t.Helper()
	resp, body := s.get("/api/v1/cart")
	if resp.StatusCode != http.StatusOK {
		s.t.Fatalf("cart api: expected 200, got %d", resp.StatusCode)
	}
	var c apiCart
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		s.t.Fatalf("decode cart: %v; body=%s", err, body)
	}
	return c
}

func expectRedirect(t *testing.T, resp *http.Response, to string) {
	t.Helper()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != to {
		t.Fatalf("expected redirect to %q, got %q", to, loc)
	}
}
