package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vidly/vidly-api/internal/config"
)

// memStore is an in-memory store implementation for middleware tests.
type memStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{entries: map[string][]byte{}}
}

func (s *memStore) get(ctx context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.entries[key]
	return b, ok
}

func (s *memStore) set(ctx context.Context, key string, body []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = body
}

func (s *memStore) deletePrefix(ctx context.Context, prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
}

func (s *memStore) keysWithPrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

// cacheTestServer wires a Cache over fake movie and rental routes the
// way the router does, counting how often the movie GET handler runs.
func cacheTestServer(store store) (*echo.Echo, *int) {
	cache := &Cache{store: store, cfg: config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache"}}
	e := echo.New()
	hits := 0
	api := e.Group("/api", cache.Middleware())
	api.GET("/movies/:id", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"id": 1, "numberInStock": 3})
	})
	api.PUT("/movies/:id", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"id": 1})
	})
	api.POST("/rentals", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"id": 7})
	})
	return e, &hits
}

func do(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCacheServesRepeatGETWithoutHandler(t *testing.T) {
	store := newMemStore()
	e, hits := cacheTestServer(store)

	first := do(e, http.MethodGet, "/api/movies/1")
	if first.Code != http.StatusOK || *hits != 1 {
		t.Fatalf("first GET: code %d hits %d", first.Code, *hits)
	}
	if store.keysWithPrefix("cache:movies:") != 1 {
		t.Fatal("response was not cached")
	}

	second := do(e, http.MethodGet, "/api/movies/1")
	if second.Code != http.StatusOK {
		t.Fatalf("second GET code %d", second.Code)
	}
	if *hits != 1 {
		t.Fatalf("second GET should be served from cache, handler ran %d times", *hits)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("cached body %q differs from original %q", second.Body.String(), first.Body.String())
	}
}

func TestCacheMutationDropsResourceKeys(t *testing.T) {
	store := newMemStore()
	e, hits := cacheTestServer(store)

	do(e, http.MethodGet, "/api/movies/1")
	if store.keysWithPrefix("cache:movies:") != 1 {
		t.Fatal("seed GET not cached")
	}

	if rec := do(e, http.MethodPut, "/api/movies/1"); rec.Code != http.StatusOK {
		t.Fatalf("PUT code %d", rec.Code)
	}
	if store.keysWithPrefix("cache:movies:") != 0 {
		t.Fatal("movie mutation must drop cached movie responses")
	}

	do(e, http.MethodGet, "/api/movies/1")
	if *hits != 2 {
		t.Fatalf("GET after mutation must reach the handler, hits = %d", *hits)
	}
}

// A rental write decrements movie stock, so it must drop cached movie
// responses as well as rental ones — otherwise GET /api/movies keeps
// reporting the pre-rental stock until TTL.
func TestCacheRentalMutationDropsMovieKeys(t *testing.T) {
	store := newMemStore()
	e, hits := cacheTestServer(store)

	do(e, http.MethodGet, "/api/movies/1")
	if store.keysWithPrefix("cache:movies:") != 1 {
		t.Fatal("seed GET not cached")
	}

	if rec := do(e, http.MethodPost, "/api/rentals"); rec.Code != http.StatusOK {
		t.Fatalf("POST code %d", rec.Code)
	}
	if store.keysWithPrefix("cache:movies:") != 0 {
		t.Fatal("rental mutation must drop cached movie responses")
	}
	if store.keysWithPrefix("cache:rentals:") != 0 {
		t.Fatal("rental mutation must drop cached rental responses")
	}

	do(e, http.MethodGet, "/api/movies/1")
	if *hits != 2 {
		t.Fatalf("GET after rental must reach the handler, hits = %d", *hits)
	}
}

func TestCacheDisabledWithoutStore(t *testing.T) {
	cache := NewCache(nil, config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache"})
	e := echo.New()
	hits := 0
	api := e.Group("/api", cache.Middleware())
	api.GET("/movies/:id", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"id": 1})
	})

	do(e, http.MethodGet, "/api/movies/1")
	do(e, http.MethodGet, "/api/movies/1")
	if hits != 2 {
		t.Fatalf("without a store every GET must reach the handler, hits = %d", hits)
	}
}

func TestResourceOf(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/api/genres", "genres"},
		{"/api/genres/:id", "genres"},
		{"/api/rentals/:id", "rentals"},
		{"/healthz", ""},
		{"/api", ""},
		{"/", ""},
	}
	for _, tc := range cases {
		if got := resourceOf(tc.path); got != tc.want {
			t.Errorf("resourceOf(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestKeyIsBoundedAndDistinct(t *testing.T) {
	c := &Cache{}
	c.cfg.Prefix = "cache"
	a := c.key("movies", "/api/movies?x=1")
	b := c.key("movies", "/api/movies?x=2")
	if a == b {
		t.Fatal("different URIs must produce different keys")
	}
	if len(a) != len(b) {
		t.Fatal("hashed keys should have a fixed length")
	}
}
