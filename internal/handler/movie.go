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

// MovieStore is the persistence surface the movie handler needs.
// *repository.MovieRepo satisfies it.
type MovieStore interface {
	List(ctx context.Context) ([]model.Movie, error)
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
	Create(ctx context.Context, m *model.Movie) error
	Update(ctx context.Context, m *model.Movie) error
	Delete(ctx context.Context, id uint64) (*model.Movie, error)
}

// MovieHandler serves /api/movies.
type MovieHandler struct {
	store MovieStore
}

// NewMovieHandler constructs a MovieHandler.
func NewMovieHandler(store MovieStore) *MovieHandler {
	if store == nil {
		panic("nil store passed to NewMovieHandler")
	}
	return &MovieHandler{store: store}
}

// List handles GET /api/movies.
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.store.List(c.Request().Context())
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, movies)
}

// Get handles GET /api/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, "movie not found")
	}
	m, err := h.store.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "movie not found")
	}
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, m)
}

// Create handles POST /api/movies.
func (h *MovieHandler) Create(c echo.Context) error {
	payload, err := bindPayload(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Movie.Apply(payload); err != nil {
		return badRequest(c, err.Error())
	}
	m := movieFromPayload(payload)
	if err := h.store.Create(c.Request().Context(), m); err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, m)
}

// Update handles PUT /api/movies/:id. Stock set here is a manual
// inventory correction; rentals themselves only ever change stock via
// the conditional decrement.
func (h *MovieHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, "movie not found")
	}
	payload, err := bindPayload(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Movie.Apply(payload); err != nil {
		return badRequest(c, err.Error())
	}
	m := movieFromPayload(payload)
	m.ID = id
	err = h.store.Update(c.Request().Context(), m)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "movie not found")
	}
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /api/movies/:id.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, "movie not found")
	}
	m, err := h.store.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "movie not found")
	}
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, m)
}

func movieFromPayload(payload map[string]interface{}) *model.Movie {
	return &model.Movie{
		Title:           validate.GetString(payload, "title"),
		NumberInStock:   int(validate.GetNumber(payload, "numberInStock")),
		DailyRentalRate: validate.GetNumber(payload, "dailyRentalRate"),
	}
}
