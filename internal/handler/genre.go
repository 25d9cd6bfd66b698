package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidly/vidly-api/internal/model"
	"github.com/vidly/vidly-api/internal/repository"
	"github.com/vidly/vidly-api/internal/validate"
)

// GenreStore is the persistence surface the genre handler needs.
// *repository.GenreRepo satisfies it.
type GenreStore interface {
	List(ctx context.Context) ([]model.Genre, error)
	GetByID(ctx context.Context, id uint64) (*model.Genre, error)
	Create(ctx context.Context, g *model.Genre) error
	Update(ctx context.Context, g *model.Genre) error
	Delete(ctx context.Context, id uint64) (*model.Genre, error)
}

// GenreHandler serves /api/genres.
type GenreHandler struct {
	store GenreStore
}

// NewGenreHandler constructs a GenreHandler.
func NewGenreHandler(store GenreStore) *GenreHandler {
	if store == nil {
		panic("nil store passed to NewGenreHandler")
	}
	return &GenreHandler{store: store}
}

// List handles GET /api/genres.
func (h *GenreHandler) List(c echo.Context) error {
	genres, err := h.store.List(c.Request().Context())
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, genres)
}

// Get handles GET /api/genres/:id.
func (h *GenreHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, "genre not found")
	}
	g, err := h.store.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "genre not found")
	}
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, g)
}

// Create handles POST /api/genres.
func (h *GenreHandler) Create(c echo.Context) error {
	payload, err := bindPayload(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Genre.Apply(payload); err != nil {
		return badRequest(c, err.Error())
	}
	g := &model.Genre{Name: validate.GetString(payload, "name")}
	if err := h.store.Create(c.Request().Context(), g); err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, g)
}

// Update handles PUT /api/genres/:id.
func (h *GenreHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, "genre not found")
	}
	payload, err := bindPayload(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Genre.Apply(payload); err != nil {
		return badRequest(c, err.Error())
	}
	g := &model.Genre{ID: id, Name: validate.GetString(payload, "name")}
	err = h.store.Update(c.Request().Context(), g)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "genre not found")
	}
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, g)
}

// Delete handles DELETE /api/genres/:id. The removed document is
// returned so callers can see its final state.
func (h *GenreHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, "genre not found")
	}
	g, err := h.store.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "genre not found")
	}
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, g)
}
