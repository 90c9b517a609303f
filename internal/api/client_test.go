package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetDecodesDataEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/thing" {
			t.Errorf("path = %s, want /api/thing", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"name":"arcade"},"message":"ok"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	var out struct {
		Name string `json:"name"`
	}
	if err := c.Get(context.Background(), "/api/thing", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Name != "arcade" {
		t.Errorf("Name = %q, want %q", out.Name, "arcade")
	}
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"game not found"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	err := c.Get(context.Background(), "/api/missing", nil)
	ae, ok := err.(*APIError)
	if !ok {
		t.Fatalf("err = %T(%v), want *APIError", err, err)
	}
	if ae.Status != http.StatusNotFound || ae.Message != "game not found" {
		t.Errorf("APIError = %+v", ae)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound = false, want true")
	}
}

func TestErrorMessageFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	err := c.Get(context.Background(), "/api/x", nil)
	ae, ok := err.(*APIError)
	if !ok {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if ae.Message != http.StatusText(http.StatusBadGateway) {
		t.Errorf("Message = %q, want status text fallback", ae.Message)
	}
}

func TestBearerTokenForwardedFromContext(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	ctx := WithToken(context.Background(), "tok123")
	var out struct{}
	if err := c.Get(ctx, "/api/secure", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok123")
	}
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	var out struct{}
	if err := c.Get(context.Background(), "/api/open", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hadAuth {
		t.Error("Authorization header sent for tokenless request")
	}
}

func TestPostSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.Write([]byte(`{"data":{"echo":true}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	var out struct {
		Echo bool `json:"echo"`
	}
	if err := c.Post(context.Background(), "/api/submit", map[string]string{"answer": "loud"}, &out); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if !out.Echo {
		t.Error("Echo = false, want true")
	}
}
