package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"oraflow/internal/platform/config"
	perr "oraflow/internal/platform/errors"
	pnet "oraflow/internal/platform/net"

	"github.com/go-chi/chi/v5"
)

type echoReq struct {
	Name string `json:"name" validate:"required"`
}

func newTestServer() *Server {
	s := NewServer(config.New().Prefix("ORA_HTTPTEST_"))
	r := s.Router()
	GetJSON(r, "/ok", func(*stdhttp.Request) (any, error) { return map[string]int{"n": 1}, nil })
	GetJSON(r, "/missing", func(*stdhttp.Request) (any, error) { return nil, perr.NotFoundf("nope") })
	GetJSON(r, "/config", func(*stdhttp.Request) (any, error) {
		return nil, perr.WithField(perr.Configf("universe smaller than query"), "universe")
	})
	PostJSON(r, "/echo", func(_ *stdhttp.Request, in echoReq) (any, error) { return in, nil })
	CreateJSON(r, "/make", func(_ *stdhttp.Request, in echoReq) (any, error) { return in, nil })
	r.Route("/api", func(sub Router) {
		sub.Delete("/thing", Handle(func(*stdhttp.Request) Response { return NoContent() }))
	})
	return s
}

func do(t *testing.T, h stdhttp.Handler, method, path, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(pnet.WithRequest(req.Context(), "req-1"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env Envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestEnvelopes(t *testing.T) {
	t.Parallel()
	h := newTestServer().Handler()
	cases := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantKind   string
		wantField  string
	}{
		{name: "ok", method: "GET", path: "/ok", wantStatus: 200},
		{name: "not found", method: "GET", path: "/missing", wantStatus: 404, wantKind: "not_found"},
		{name: "configuration", method: "GET", path: "/config", wantStatus: 422, wantKind: "configuration", wantField: "universe"},
		{name: "post ok", method: "POST", path: "/echo", body: `{"name":"x"}`, wantStatus: 200},
		{name: "post invalid", method: "POST", path: "/echo", body: `{}`, wantStatus: 400, wantKind: "validation", wantField: "name"},
		{name: "post bad json", method: "POST", path: "/echo", body: `{`, wantStatus: 400, wantKind: "json"},
		{name: "create", method: "POST", path: "/make", body: `{"name":"x"}`, wantStatus: 201},
		{name: "no content", method: "DELETE", path: "/api/thing", wantStatus: 204},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			rec, env := do(t, h, c.method, c.path, c.body)
			if rec.Code != c.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, c.wantStatus, rec.Body.String())
			}
			if c.wantStatus == 204 {
				if rec.Body.Len() != 0 {
					t.Fatalf("204 with body %q", rec.Body.String())
				}
				return
			}
			if env.StatusCode != c.wantStatus || env.RequestID != "req-1" {
				t.Fatalf("envelope = %+v", env)
			}
			if env.Kind != c.wantKind {
				t.Fatalf("kind = %q, want %q", env.Kind, c.wantKind)
			}
			if env.Field != c.wantField {
				t.Fatalf("field = %q, want %q", env.Field, c.wantField)
			}
			if c.wantKind == "" && env.Data == nil {
				t.Fatalf("success without data")
			}
		})
	}
}

func TestResponseHeaders(t *testing.T) {
	t.Parallel()
	m := chi.NewRouter()
	AdaptChi(m).Get("/h", Handle(func(*stdhttp.Request) Response {
		return Response{Body: "x", Header: stdhttp.Header{"X-Run": {"2026-01-01_1"}}}
	}))
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/h", nil))
	if rec.Code != 200 || rec.Header().Get("X-Run") != "2026-01-01_1" {
		t.Fatalf("code=%d headers=%v", rec.Code, rec.Header())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type = %q", ct)
	}
}

func TestServerDefaults(t *testing.T) {
	t.Parallel()
	s := NewServer(config.New().Prefix("ORA_HTTPTEST_"))
	if s.Addr() != ":4000" {
		t.Fatalf("addr = %q", s.Addr())
	}
	if s.Router().Mux() == nil {
		t.Fatalf("nil mux")
	}
}
