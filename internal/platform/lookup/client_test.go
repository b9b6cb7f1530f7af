package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFormattedAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/lookup" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "SW1A 1AA" {
			t.Errorf("unexpected query %q", r.URL.Query().Get("q"))
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("unexpected key %q", r.URL.Query().Get("key"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"formatted_address":"Buckingham Palace, London SW1A 1AA"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	addr, err := c.FormattedAddress(context.Background(), "SW1A 1AA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != "Buckingham Palace, London SW1A 1AA" {
		t.Errorf("unexpected address %q", addr)
	}
}

func TestFormattedAddress_EmptyQuery(t *testing.T) {
	c := NewClient("http://example.invalid", "k")
	addr, err := c.FormattedAddress(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != "" {
		t.Errorf("expected empty address, got %q", addr)
	}
}

func TestFormattedAddress_Unconfigured(t *testing.T) {
	c := NewClient("", "")
	addr, err := c.FormattedAddress(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != "" {
		t.Errorf("expected empty address, got %q", addr)
	}
}

func TestFormattedAddress_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.FormattedAddress(context.Background(), "EC1"); err == nil {
		t.Error("expected error for upstream 500")
	}
}
