package web_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	neturl "net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	"melonsite/internal/catalog"
	"melonsite/internal/customer"
	"melonsite/internal/session"
	"melonsite/internal/web"
)

type storefront struct {
	ts       *httptest.Server
	sessions *session.MemStore
	cookies  *session.CookieCodec
}

func newStorefront(t *testing.T) storefront {
	t.Helper()

	store := catalog.NewMemStore([]catalog.Melon{
		{ID: "mu", Name: "Muskmelon", PriceCents: 450, ImageURL: "/img/mu.jpg", Description: "Sweet and musky."},
		{ID: "cren", Name: "Crenshaw", PriceCents: 350, ImageURL: "/img/cren.jpg", Description: "Buttery."},
	})

	dir := customer.NewMemDirectory(customer.Customer{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "a@example.com",
		Password:  "pw1",
	})

	tmpl, err := web.NewTemplates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	sessions := session.NewMemStore()
	cookies := session.NewCookieCodec("test-secret")

	s := &web.Server{
		Log:       zap.NewNop(),
		Catalog:   store,
		Customers: dir,
		Sessions:  sessions,
		Cookies:   cookies,
		Templates: tmpl,
	}

	h := web.NewHandler(s, web.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "melonsite",
	})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	return storefront{ts: ts, sessions: sessions, cookies: cookies}
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func get(t *testing.T, c *http.Client, url string) (int, string) {
	t.Helper()

	resp, err := c.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func postForm(t *testing.T, c *http.Client, url string, form map[string]string) (int, string) {
	t.Helper()

	vals := neturl.Values{}
	for k, v := range form {
		vals.Set(k, v)
	}

	resp, err := c.PostForm(url, vals)
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestBrowseCatalog(t *testing.T) {
	sf := newStorefront(t)
	c := newBrowser(t)

	status, body := get(t, c, sf.ts.URL+"/melons")
	if status != http.StatusOK {
		t.Fatalf("status=%d", status)
	}
	if !strings.Contains(body, "Muskmelon") || !strings.Contains(body, "Crenshaw") {
		t.Fatalf("catalog page missing melons:\n%s", body)
	}
	if !strings.Contains(body, "$4.50") {
		t.Fatalf("catalog page missing price:\n%s", body)
	}
}

func TestMelonDetail(t *testing.T) {
	sf := newStorefront(t)
	c := newBrowser(t)

	status, body := get(t, c, sf.ts.URL+"/melon/mu")
	if status != http.StatusOK {
		t.Fatalf("status=%d", status)
	}
	if !strings.Contains(body, "Sweet and musky.") {
		t.Fatalf("detail page missing description:\n%s", body)
	}

	status, _ = get(t, c, sf.ts.URL+"/melon/ghost")
	if status != http.StatusNotFound {
		t.Fatalf("unknown melon status=%d, want 404", status)
	}
}

func TestAddToCartAndView(t *testing.T) {
	sf := newStorefront(t)
	c := newBrowser(t)

	// first add redirects to the cart with a confirmation flash
	status, body := get(t, c, sf.ts.URL+"/add_to_cart/mu")
	if status != http.StatusOK {
		t.Fatalf("status=%d after redirect", status)
	}
	if !strings.Contains(body, "added Muskmelon to your cart") {
		t.Fatalf("missing confirmation flash:\n%s", body)
	}

	// second add of the same melon increments the line
	get(t, c, sf.ts.URL+"/add_to_cart/mu")

	status, body = get(t, c, sf.ts.URL+"/cart")
	if status != http.StatusOK {
		t.Fatalf("cart status=%d", status)
	}
	if !strings.Contains(body, "Muskmelon") {
		t.Fatalf("cart missing melon:\n%s", body)
	}
	if !strings.Contains(body, "<td>2</td>") {
		t.Fatalf("cart missing quantity 2:\n%s", body)
	}
	if !strings.Contains(body, "Order total: $9.00") {
		t.Fatalf("cart missing order total 9.00:\n%s", body)
	}
}

func TestAddToCart_UnknownMelon(t *testing.T) {
	sf := newStorefront(t)
	c := newBrowser(t)

	status, _ := get(t, c, sf.ts.URL+"/add_to_cart/ghost")
	if status != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", status)
	}

	status, body := get(t, c, sf.ts.URL+"/cart")
	if status != http.StatusOK {
		t.Fatalf("cart status=%d", status)
	}
	if !strings.Contains(body, "Your cart is empty.") {
		t.Fatalf("unknown id landed in cart:\n%s", body)
	}
}

func TestLoginFlow(t *testing.T) {
	sf := newStorefront(t)
	c := newBrowser(t)

	// wrong password bounces back to the form with the failure notice
	status, body := postForm(t, c, sf.ts.URL+"/login", map[string]string{
		"email":    "a@example.com",
		"password": "wrong",
	})
	if status != http.StatusOK {
		t.Fatalf("status=%d after redirect", status)
	}
	if !strings.Contains(body, "Incorrect password!") {
		t.Fatalf("missing failure notice:\n%s", body)
	}
	if strings.Contains(body, "Logged in as") {
		t.Fatalf("authenticated after bad password:\n%s", body)
	}

	// unknown email likewise
	_, body = postForm(t, c, sf.ts.URL+"/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "pw1",
	})
	if !strings.Contains(body, "No customer with that email found!") {
		t.Fatalf("missing unknown-email notice:\n%s", body)
	}

	// correct credentials land on the catalog, authenticated
	_, body = postForm(t, c, sf.ts.URL+"/login", map[string]string{
		"email":    "a@example.com",
		"password": "pw1",
	})
	if !strings.Contains(body, "Login successful!") {
		t.Fatalf("missing success notice:\n%s", body)
	}
	if !strings.Contains(body, "Logged in as a@example.com") {
		t.Fatalf("not authenticated:\n%s", body)
	}

	// notices are one-shot: a plain reload shows none
	_, body = get(t, c, sf.ts.URL+"/melons")
	if strings.Contains(body, "Login successful!") {
		t.Fatalf("flash delivered twice:\n%s", body)
	}
}

func TestCartSurvivesLoginAndLogout(t *testing.T) {
	sf := newStorefront(t)
	c := newBrowser(t)

	get(t, c, sf.ts.URL+"/add_to_cart/cren")

	postForm(t, c, sf.ts.URL+"/login", map[string]string{
		"email":    "a@example.com",
		"password": "pw1",
	})

	_, body := get(t, c, sf.ts.URL+"/cart")
	if !strings.Contains(body, "Crenshaw") {
		t.Fatalf("cart lost across login:\n%s", body)
	}

	_, body = get(t, c, sf.ts.URL+"/logout")
	if !strings.Contains(body, "Successfully logged you out!") {
		t.Fatalf("missing logout notice:\n%s", body)
	}
	if strings.Contains(body, "Logged in as") {
		t.Fatalf("still authenticated after logout:\n%s", body)
	}

	_, body = get(t, c, sf.ts.URL+"/cart")
	if !strings.Contains(body, "Crenshaw") {
		t.Fatalf("cart lost across logout:\n%s", body)
	}
}

func TestCheckoutStub(t *testing.T) {
	sf := newStorefront(t)
	c := newBrowser(t)

	_, body := get(t, c, sf.ts.URL+"/checkout")
	if !strings.Contains(body, "Checkout will be implemented in a future version.") {
		t.Fatalf("missing checkout stub notice:\n%s", body)
	}
}

func TestCartIntegrityError(t *testing.T) {
	sf := newStorefront(t)

	// plant a session whose cart references a melon the catalog never had
	sess := session.New()
	sess.Cart.AddOne("ghost")
	if err := sf.sessions.Save(context.Background(), sess); err != nil {
		t.Fatalf("save session: %v", err)
	}

	tok, err := sf.cookies.Encode(sess.ID)
	if err != nil {
		t.Fatalf("encode cookie: %v", err)
	}

	req, err := http.NewRequest(http.MethodGet, sf.ts.URL+"/cart", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: "melonsite_session", Value: tok})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", resp.StatusCode)
	}
	if !strings.Contains(string(body), "no longer sell") {
		t.Fatalf("integrity error not surfaced:\n%s", body)
	}
}

func TestAnonymousPageViewSetsNoCookie(t *testing.T) {
	sf := newStorefront(t)

	resp, err := http.Get(sf.ts.URL + "/melons")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if len(resp.Cookies()) != 0 {
		t.Fatalf("plain page view issued cookies: %v", resp.Cookies())
	}
}

func TestHealthEndpoints(t *testing.T) {
	sf := newStorefront(t)
	c := newBrowser(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		status, _ := get(t, c, sf.ts.URL+path)
		if status != http.StatusOK {
			t.Fatalf("%s status=%d", path, status)
		}
	}
}
