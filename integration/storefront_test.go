//go:build integration
// +build integration

package integration

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

func TestStorefront_E2E(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	c := &http.Client{Jar: jar}

	body := mustGet(t, c, baseURL+"/melons", http.StatusOK)
	if !strings.Contains(body, "Muskmelon") {
		t.Fatalf("catalog page missing seed melon:\n%s", body)
	}

	body = mustGet(t, c, baseURL+"/add_to_cart/mu", http.StatusOK)
	if !strings.Contains(body, "added Muskmelon to your cart") {
		t.Fatalf("missing add confirmation:\n%s", body)
	}

	mustGet(t, c, baseURL+"/add_to_cart/mu", http.StatusOK)

	body = mustGet(t, c, baseURL+"/cart", http.StatusOK)
	if !strings.Contains(body, "Order total: $9.00") {
		t.Fatalf("cart total wrong:\n%s", body)
	}

	resp, err := c.PostForm(baseURL+"/login", url.Values{
		"email":    {"a@example.com"},
		"password": {"pw1"},
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(raw), "Login successful!") {
		t.Fatalf("login failed:\n%s", raw)
	}

	body = mustGet(t, c, baseURL+"/cart", http.StatusOK)
	if !strings.Contains(body, "Order total: $9.00") {
		t.Fatalf("cart lost across login:\n%s", body)
	}

	body = mustGet(t, c, baseURL+"/logout", http.StatusOK)
	if !strings.Contains(body, "Successfully logged you out!") {
		t.Fatalf("logout notice missing:\n%s", body)
	}
}

func mustGet(t *testing.T, c *http.Client, url string, wantStatus int) string {
	t.Helper()

	resp, err := c.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s status=%d, want %d\n%s", url, resp.StatusCode, wantStatus, raw)
	}
	return string(raw)
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("service never became ready: %v", ctx.Err())
		default:
		}

		resp, err := http.Get(url)
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
