//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"
)

func TestRequestIDHeader(t *testing.T) {
	t.Run("generated when absent", func(t *testing.T) {
		resp := doGet(t, "/api/products")
		defer resp.Body.Close()

		if resp.Header.Get("X-Request-ID") == "" {
			t.Fatal("expected X-Request-ID header")
		}
	})

	t.Run("echoed when supplied", func(t *testing.T) {
		req, err := http.NewRequestWithContext(context.Background(),
			http.MethodGet, baseURL+"/api/products", nil)
		if err != nil {
			t.Fatalf("create request: %v", err)
		}
		req.Header.Set("X-Request-ID", "test-req-42")

		resp, err := httpClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		defer resp.Body.Close()

		if got := resp.Header.Get("X-Request-ID"); got != "test-req-42" {
			t.Fatalf("X-Request-ID = %q, want test-req-42", got)
		}
	})
}

func TestCORSPreflight(t *testing.T) {
	req, err := http.NewRequestWithContext(context.Background(),
		http.MethodOptions, baseURL+"/api/products", nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Origin", "https://shopveda.in")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Fatal("expected Access-Control-Allow-Origin header on preflight")
	}
}

func TestRateLimitHeaders(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.Header.Get("X-RateLimit-Limit") == "" {
		t.Fatal("expected X-RateLimit-Limit header")
	}
	if resp.Header.Get("X-RateLimit-Remaining") == "" {
		t.Fatal("expected X-RateLimit-Remaining header")
	}
}
