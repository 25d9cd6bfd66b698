// Package router wires the HTTP routes to their handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/vidly/vidly-api/internal/handler"
	"github.com/vidly/vidly-api/internal/middleware"
)

// Handlers bundles everything RegisterRoutes needs.
type Handlers struct {
	Genres    *handler.GenreHandler
	Customers *handler.CustomerHandler
	Movies    *handler.MovieHandler
	Users     *handler.UserHandler
	Rentals   *handler.RentalHandler
}

// RegisterRoutes registers the health check and all resource routes on
// the provided Echo instance. Every resource exposes the same five
// operations under /api/<resource>. The cache middleware wraps the
// whole /api group: it serves GETs from Redis when possible and drops
// a resource's cached entries on any mutation.
func RegisterRoutes(e *echo.Echo, h Handlers, cache *middleware.Cache) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api", cache.Middleware())

	g := api.Group("/genres")
	g.GET("", h.Genres.List)
	g.GET("/:id", h.Genres.Get)
	g.POST("", h.Genres.Create)
	g.PUT("/:id", h.Genres.Update)
	g.DELETE("/:id", h.Genres.Delete)

	c := api.Group("/customers")
	c.GET("", h.Customers.List)
	c.GET("/:id", h.Customers.Get)
	c.POST("", h.Customers.Create)
	c.PUT("/:id", h.Customers.Update)
	c.DELETE("/:id", h.Customers.Delete)

	m := api.Group("/movies")
	m.GET("", h.Movies.List)
	m.GET("/:id", h.Movies.Get)
	m.POST("", h.Movies.Create)
	m.PUT("/:id", h.Movies.Update)
	m.DELETE("/:id", h.Movies.Delete)

	u := api.Group("/users")
	u.GET("", h.Users.List)
	u.GET("/:id", h.Users.Get)
	u.POST("", h.Users.Create)
	u.PUT("/:id", h.Users.Update)
	u.DELETE("/:id", h.Users.Delete)

	r := api.Group("/rentals")
	r.GET("", h.Rentals.List)
	r.GET("/:id", h.Rentals.Get)
	r.POST("", h.Rentals.Create)
	r.PUT("/:id", h.Rentals.Update)
	r.DELETE("/:id", h.Rentals.Delete)
}
