// Package middleware contains reusable HTTP middleware. The response
// cache keeps hot GET responses in Redis and drops a resource's
// entries whenever that resource is mutated, so readers behind the
// cache never see state older than the last write for longer than it
// takes the invalidation to run.
package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/vidly/vidly-api/internal/config"
)

// store is the small cache surface the middleware needs. redisStore is
// the production implementation; tests substitute an in-memory one.
type store interface {
	get(ctx context.Context, key string) ([]byte, bool)
	set(ctx context.Context, key string, body []byte, ttl time.Duration)
	deletePrefix(ctx context.Context, prefix string)
}

// redisStore adapts *redis.Client to the store interface. All errors
// degrade to cache misses or skipped writes; Redis trouble must never
// surface to the request.
type redisStore struct {
	rdb *redis.Client
}

func (s redisStore) get(ctx context.Context, key string) ([]byte, bool) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	return b, err == nil
}

func (s redisStore) set(ctx context.Context, key string, body []byte, ttl time.Duration) {
	_ = s.rdb.Set(ctx, key, body, ttl).Err()
}

func (s redisStore) deletePrefix(ctx context.Context, prefix string) {
	iter := s.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	keys := make([]string, 0, 16)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if iter.Err() != nil || len(keys) == 0 {
		return
	}
	_ = s.rdb.Del(ctx, keys...).Err()
}

// dependents maps a resource to the other resources its mutations
// touch. A rental write decrements movie stock, so cached movie
// responses must die with the rental write or GET /api/movies would
// keep reporting the pre-rental stock until TTL.
var dependents = map[string][]string{
	"rentals": {"movies"},
}

// Cache is a read-through response cache for the /api resource routes.
// A nil client disables it entirely; every request passes straight
// through and Redis outages degrade to uncached traffic.
type Cache struct {
	store store
	cfg   config.CacheConfig
}

// NewCache builds a Cache from a Redis client (may be nil) and config.
func NewCache(rdb *redis.Client, cfg config.CacheConfig) *Cache {
	c := &Cache{cfg: cfg}
	if rdb != nil {
		c.store = redisStore{rdb: rdb}
	}
	return c
}

// captureWriter tees the response body so a successful GET can be
// stored after the handler has written it.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Middleware returns the echo middleware. GETs are served from the
// cache when possible and stored on a 200; any other method
// invalidates the mutated resource's keys — and those of its dependent
// resources — after the handler succeeds.
func (c *Cache) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			if c == nil || c.store == nil || !c.cfg.Enabled {
				return next(ec)
			}
			resource := resourceOf(ec.Path())
			if resource == "" {
				return next(ec)
			}
			ctx := ec.Request().Context()

			if ec.Request().Method == http.MethodGet {
				key := c.key(resource, ec.Request().URL.RequestURI())
				if body, ok := c.store.get(ctx, key); ok {
					return ec.JSONBlob(http.StatusOK, body)
				}
				cw := &captureWriter{ResponseWriter: ec.Response().Writer, status: http.StatusOK}
				ec.Response().Writer = cw
				if err := next(ec); err != nil {
					return err
				}
				if cw.status == http.StatusOK {
					c.store.set(ctx, key, cw.buf.Bytes(), c.cfg.TTL)
				}
				return nil
			}

			if err := next(ec); err != nil {
				return err
			}
			if ec.Response().Status < http.StatusBadRequest {
				c.invalidate(ctx, resource)
				for _, dep := range dependents[resource] {
					c.invalidate(ctx, dep)
				}
			}
			return nil
		}
	}
}

// key hashes the request URI so query strings of any length produce a
// bounded key: <prefix>:<resource>:<sha1(uri)>.
func (c *Cache) key(resource, uri string) string {
	sum := sha1.Sum([]byte(uri))
	return fmt.Sprintf("%s:%s:%x", c.cfg.Prefix, resource, sum)
}

// invalidate deletes every cached response for the resource.
func (c *Cache) invalidate(ctx context.Context, resource string) {
	c.store.deletePrefix(ctx, fmt.Sprintf("%s:%s:", c.cfg.Prefix, resource))
}

// resourceOf extracts the resource segment from an /api route path,
// e.g. "/api/movies/:id" -> "movies". Non-API paths return "".
func resourceOf(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) < 2 || parts[0] != "api" || parts[1] == "" {
		return ""
	}
	return parts[1]
}
