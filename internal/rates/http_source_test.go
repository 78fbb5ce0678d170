package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPSourceLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("missing Accept header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rates": {"GBP": 1.25, "EUR": 1.1, "YEN": 0.0066, "USD": 1.0}}`))
	}))
	defer srv.Close()

	quotes, err := NewHTTPSource(srv.URL).Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(quotes) != 4 {
		t.Fatalf("expected 4 quotes, got %d", len(quotes))
	}
	if quotes["GBP"] != 1.25 {
		t.Fatalf("GBP: expected 1.25, got %v", quotes["GBP"])
	}
}

func TestHTTPSourceRejectsBadResponses(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("rates: nope"))
		}},
		{"empty rate set", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"rates": {}}`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			if _, err := NewHTTPSource(srv.URL).Latest(context.Background()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestHTTPSourceHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHTTPSource(srv.URL).Latest(ctx); err == nil {
		t.Fatal("expected cancellation error")
	}
}
