package web

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hpungsan/hmchef/internal/config"
	"github.com/hpungsan/hmchef/internal/recipe"
)

func TestSecurityHeaders(t *testing.T) {
	e := setupTest(t, true, nil)

	rec := e.serve(httptest.NewRequest("GET", "/", nil))

	csp := rec.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "default-src 'self'") || !strings.Contains(csp, "img-src 'self' https:") {
		t.Errorf("Content-Security-Policy = %q", csp)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
	if id := rec.Header().Get("X-Request-ID"); len(id) != 26 {
		t.Errorf("X-Request-ID = %q, want a ULID", id)
	}
}

func TestStaticAssets(t *testing.T) {
	e := setupTest(t, true, nil)

	for _, path := range []string{"/static/app.css", "/static/app.js", "/static/chef.svg"} {
		rec := e.serve(httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	const origin = "http://localhost:19006"
	e := setupTest(t, true, func(c *config.Config) { c.AllowedOrigins = []string{origin} })

	req := httptest.NewRequest("OPTIONS", "/recipes", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := e.serve(req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != origin {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, origin)
	}

	req = httptest.NewRequest("GET", "/recipes", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = e.serve(req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q for disallowed origin", got)
	}
}

func TestCORS_DisabledByDefault(t *testing.T) {
	e := setupTest(t, true, nil)

	req := httptest.NewRequest("GET", "/recipes", nil)
	req.Header.Set("Origin", "http://localhost:19006")
	rec := e.serve(req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want none", got)
	}
}

func TestRecipeEvents_PushesListOnSave(t *testing.T) {
	e := setupTest(t, true, nil)
	srv := httptest.NewServer(e.handler)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/recipes/events", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(resp.Body)
		sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	next := func() string {
		t.Helper()
		select {
		case l, ok := <-lines:
			if !ok {
				t.Fatal("stream closed")
			}
			return l
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
		}
		return ""
	}

	// Subscribed once the handshake comment arrives
	if l := next(); l != ": connected" {
		t.Fatalf("first line = %q", l)
	}

	if _, err := e.store.Append(context.Background(), recipe.Recipe{Title: "Tacos", Description: "Spicy"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	for {
		if l := next(); l == "event: recipes" {
			break
		}
	}
	data := next()
	if !strings.HasPrefix(data, "data: ") || !strings.Contains(data, "Tacos") || !strings.Contains(data, `"total":1`) {
		t.Errorf("data = %q", data)
	}

	cancel()
	for range lines {
	}
}
