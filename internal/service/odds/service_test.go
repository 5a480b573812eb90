package odds

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/zerobet/api/pkg/config"
)

func newTestService(upstream string, cache Cache, ttl time.Duration) Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.APIConfig{
		OddsBaseURL:  upstream,
		OddsAPIKey:   "test-key",
		OddsCacheTTL: ttl,
	}
	return New(cfg, cache, log)
}

func TestListSportsForwardsPayloadVerbatim(t *testing.T) {
	const payload = `[{"key":"soccer_epl","title":"EPL"}]`
	var gotPath, gotKey string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("apiKey")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer upstream.Close()

	svc := newTestService(upstream.URL, nil, 0)
	body, err := svc.ListSports(context.Background())
	if err != nil {
		t.Fatalf("ListSports returned error: %v", err)
	}
	if string(body) != payload {
		t.Fatalf("payload not forwarded verbatim: %s", body)
	}
	if gotPath != "/sports" {
		t.Fatalf("unexpected upstream path: %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key not forwarded: %q", gotKey)
	}
}

func TestListOddsAppliesDefaults(t *testing.T) {
	var gotQuery map[string]string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"regions":    q.Get("regions"),
			"markets":    q.Get("markets"),
			"oddsFormat": q.Get("oddsFormat"),
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	svc := newTestService(upstream.URL, nil, 0)
	if _, err := svc.ListOdds(context.Background(), "soccer_epl", Params{}); err != nil {
		t.Fatalf("ListOdds returned error: %v", err)
	}
	want := map[string]string{
		"regions":    "uk,eu",
		"markets":    "h2h,spreads,totals",
		"oddsFormat": "decimal",
	}
	for key, value := range want {
		if gotQuery[key] != value {
			t.Fatalf("default %s = %q, want %q", key, gotQuery[key], value)
		}
	}
}

func TestListOddsKeepsCallerParams(t *testing.T) {
	var gotRegions string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRegions = r.URL.Query().Get("regions")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	svc := newTestService(upstream.URL, nil, 0)
	if _, err := svc.ListOdds(context.Background(), "soccer_epl", Params{Regions: "us"}); err != nil {
		t.Fatalf("ListOdds returned error: %v", err)
	}
	if gotRegions != "us" {
		t.Fatalf("caller regions overridden: %q", gotRegions)
	}
}

func TestUpstreamFailureSurfacesMessage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))
	}))
	defer upstream.Close()

	svc := newTestService(upstream.URL, nil, 0)
	_, err := svc.ListSports(context.Background())
	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstreamErr.Status != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", upstreamErr.Status)
	}
	if upstreamErr.Message != "Invalid API key" {
		t.Fatalf("upstream message not extracted: %q", upstreamErr.Message)
	}
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	return value, ok
}

func (c *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]byte(nil), value...)
}

func TestRepeatedReadsServeFromCache(t *testing.T) {
	var hits int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`[{"key":"soccer_epl"}]`))
	}))
	defer upstream.Close()

	cache := newMapCache()
	svc := newTestService(upstream.URL, cache, 30*time.Second)

	for i := 0; i < 3; i++ {
		if _, err := svc.ListSports(context.Background()); err != nil {
			t.Fatalf("ListSports returned error: %v", err)
		}
	}
	if hits != 1 {
		t.Fatalf("expected a single upstream hit, got %d", hits)
	}
	for key := range cache.entries {
		if key != "/sports" {
			t.Fatalf("unexpected cache key %q", key)
		}
	}
}
