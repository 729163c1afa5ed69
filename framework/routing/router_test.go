package routing_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/moss-engine/moss/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func newRouter() *routing.Router {
	return routing.New(zerolog.Nop())
}

func do(t *testing.T, router http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Get(t *testing.T) {
	r := newRouter()
	r.Get("/hello", okHandler)

	rr := do(t, r, http.MethodGet, "/hello")
	if rr.Code != http.StatusOK {
		t.Errorf("GET /hello: got %d want 200", rr.Code)
	}

	rr = do(t, r, http.MethodPost, "/hello")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /hello: got %d want 405", rr.Code)
	}
}

// ── 404 for unregistered routes ──────────────────────────────────────────────

func TestRouter_NotFound(t *testing.T) {
	r := newRouter()
	rr := do(t, r, http.MethodGet, "/not-registered")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

// ── Route params ─────────────────────────────────────────────────────────────

func TestRouter_Param(t *testing.T) {
	r := newRouter()
	r.Get("/keys/{key}", func(w http.ResponseWriter, req *http.Request) {
		key := routing.Param(req, "key")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(key))
	})

	rr := do(t, r, http.MethodGet, "/keys/42")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	if rr.Body.String() != "42" {
		t.Errorf("got body %q want %q", rr.Body.String(), "42")
	}
}

// ── Prefix / Group ───────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := newRouter()
	r.Prefix("/container", func(c *routing.Router) {
		c.Get("/keys", okHandler)
	})

	rr := do(t, r, http.MethodGet, "/container/keys")
	if rr.Code != http.StatusOK {
		t.Errorf("GET /container/keys: got %d want 200", rr.Code)
	}

	// Root must 404
	rr2 := do(t, r, http.MethodGet, "/keys")
	if rr2.Code != http.StatusNotFound {
		t.Errorf("GET /keys: expected 404, got %d", rr2.Code)
	}
}

func TestRouter_Prefix_Middleware(t *testing.T) {
	called := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	r := newRouter()
	r.Prefix("/admin", func(g *routing.Router) {
		g.Middleware(mw)
		g.Get("/protected", okHandler)
	})
	r.Get("/public", okHandler)

	do(t, r, http.MethodGet, "/public")
	if called {
		t.Error("middleware ran outside its prefix")
	}
	do(t, r, http.MethodGet, "/admin/protected")
	if !called {
		t.Error("expected middleware to be called")
	}
}

// ── JSON fallbacks ───────────────────────────────────────────────────────────

func TestRouter_NotFound_JSON(t *testing.T) {
	rr := do(t, newRouter(), http.MethodGet, "/nowhere")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("got %d want 404", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if !strings.Contains(rr.Body.String(), `"message":"Not found."`) {
		t.Errorf("body: %s", rr.Body.String())
	}
}

func TestRouter_MethodNotAllowed_JSON(t *testing.T) {
	r := newRouter()
	r.Get("/hello", okHandler)

	rr := do(t, r, http.MethodPost, "/hello")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("got %d want 405", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"message":"Method not allowed."`) {
		t.Errorf("body: %s", rr.Body.String())
	}
}

// ── Recoverer / logging ──────────────────────────────────────────────────────

func TestRouter_RecoversFromPanic(t *testing.T) {
	r := newRouter()
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rr := do(t, r, http.MethodGet, "/boom")
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("got %d want 500", rr.Code)
	}
}

func TestRouter_LogsRequests(t *testing.T) {
	var buf bytes.Buffer
	r := routing.New(zerolog.New(&buf).Level(zerolog.DebugLevel))
	r.Get("/hello", okHandler)

	do(t, r, http.MethodGet, "/hello")

	out := buf.String()
	if !strings.Contains(out, `"path":"/hello"`) || !strings.Contains(out, `"status":200`) {
		t.Errorf("access log missing fields: %s", out)
	}
}
