package pagespeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleResponse = `{
  "lighthouseResult": {
    "categories": {
      "performance": {"score": 0.93}
    },
    "audits": {
      "first-contentful-paint": {"numericValue": 1234.5, "displayValue": "1.2 s", "score": 0.95},
      "largest-contentful-paint": {"numericValue": 2500.0, "displayValue": "2.5 s", "score": 0.8},
      "cumulative-layout-shift": {"numericValue": 0.01, "displayValue": "0.01", "score": 1.0},
      "unrelated-audit": {"numericValue": 1, "displayValue": "x", "score": 0.5}
    }
  }
}`

func TestClientRun(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("url") != "https://example.com" {
			t.Errorf("unexpected url parameter %q", q.Get("url"))
		}
		if q.Get("strategy") != StrategyMobile {
			t.Errorf("unexpected strategy %q", q.Get("strategy"))
		}
		if q.Get("category") != "performance" {
			t.Errorf("unexpected category %q", q.Get("category"))
		}
		if q.Get("key") != "test-key" {
			t.Errorf("expected API key in request, got %q", q.Get("key"))
		}
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c := NewClient(WithEndpoint(srv.URL), WithAPIKey("test-key"))
	result, body, err := c.Run(context.Background(), "https://example.com", StrategyMobile)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Score != 93 {
		t.Errorf("expected score 93, got %d", result.Score)
	}
	if result.Strategy != StrategyMobile {
		t.Errorf("unexpected strategy %q", result.Strategy)
	}
	if result.Fallback {
		t.Error("API result must not be marked as fallback")
	}
	if len(body) == 0 {
		t.Error("expected raw response body")
	}

	fcp, ok := result.Metrics["first-contentful-paint"]
	if !ok {
		t.Fatal("expected first-contentful-paint metric")
	}
	if fcp.DisplayValue != "1.2 s" || fcp.NumericValue != 1234.5 || fcp.Score != 0.95 {
		t.Errorf("unexpected metric %+v", fcp)
	}
	if _, ok := result.Metrics["unrelated-audit"]; ok {
		t.Error("audits outside the metric list must not be extracted")
	}
}

func TestClientRunQuotaExceeded(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"code": 429, "message": "Quota exceeded"}}`))
	}))
	defer srv.Close()

	c := NewClient(WithEndpoint(srv.URL))
	if _, _, err := c.Run(context.Background(), "https://example.com", StrategyDesktop); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestClientRunAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": 400, "message": "Invalid URL"}}`))
	}))
	defer srv.Close()

	c := NewClient(WithEndpoint(srv.URL))
	_, _, err := c.Run(context.Background(), "not-a-url", StrategyDesktop)
	if err == nil {
		t.Fatal("expected error for HTTP 400")
	}
	if got := err.Error(); !strings.Contains(got, "Invalid URL") {
		t.Errorf("expected API message in error, got %q", got)
	}
}

func TestClientRunNoScore(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lighthouseResult": {"categories": {"performance": {}}}}`))
	}))
	defer srv.Close()

	c := NewClient(WithEndpoint(srv.URL))
	if _, _, err := c.Run(context.Background(), "https://example.com", StrategyDesktop); !errors.Is(err, ErrNoScore) {
		t.Errorf("expected ErrNoScore, got %v", err)
	}
}

func TestClientRunInvalidStrategy(t *testing.T) {
	t.Parallel()

	c := NewClient()
	if _, _, err := c.Run(context.Background(), "https://example.com", "tablet"); !errors.Is(err, ErrInvalidStrategy) {
		t.Errorf("expected ErrInvalidStrategy, got %v", err)
	}
}

func TestClientRunWithoutKeyOmitsParameter(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["key"]; ok {
			t.Error("key parameter must be absent without an API key")
		}
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c := NewClient(WithEndpoint(srv.URL))
	if _, _, err := c.Run(context.Background(), "https://example.com", StrategyDesktop); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
