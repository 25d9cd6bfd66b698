package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vidly/vidly-api/internal/model"
	"github.com/vidly/vidly-api/internal/queue"
	"github.com/vidly/vidly-api/internal/repository"
	queue_publisher "github.com/vidly/vidly-api/internal/service"
	"github.com/vidly/vidly-api/internal/validate"
)

// RentalStore is the persistence surface the rental handler needs.
// Rent runs the whole creation workflow atomically: resolve both
// references, conditionally decrement movie stock and insert the
// rental in one transaction. *repository.RentalRepo satisfies it.
type RentalStore interface {
	Rent(ctx context.Context, customerID, movieID uint64) (*model.Rental, error)
	List(ctx context.Context) ([]model.Rental, error)
	GetByID(ctx context.Context, id uint64) (*model.Rental, error)
	Update(ctx context.Context, id uint64, dateReturned *time.Time, rentalFee *float64) (*model.Rental, error)
	Delete(ctx context.Context, id uint64) (*model.Rental, error)
}

// RentalHandler serves /api/rentals.
type RentalHandler struct {
	store     RentalStore
	rabbitURL string // empty disables event publishing
}

// NewRentalHandler constructs a RentalHandler.
func NewRentalHandler(store RentalStore, rabbitURL string) *RentalHandler {
	if store == nil {
		panic("nil store passed to NewRentalHandler")
	}
	return &RentalHandler{store: store, rabbitURL: rabbitURL}
}

// List handles GET /api/rentals, newest first.
func (h *RentalHandler) List(c echo.Context) error {
	rentals, err := h.store.List(c.Request().Context())
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, rentals)
}

// Get handles GET /api/rentals/:id.
func (h *RentalHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, "rental not found")
	}
	rental, err := h.store.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "rental not found")
	}
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, rental)
}

// Create handles POST /api/rentals. The body carries only the two
// references; everything else is snapshotted server-side. A missing
// customer or movie is a 400, not a 404: the broken identifier is a
// body field, so the request is malformed rather than the path
// resource absent. Zero stock is a 400 as well and leaves no trace,
// neither a rental row nor a stock change.
func (h *RentalHandler) Create(c echo.Context) error {
	payload, err := bindPayload(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.RentalCreate.Apply(payload); err != nil {
		return badRequest(c, err.Error())
	}
	customerID := validate.GetID(payload, "customerId")
	movieID := validate.GetID(payload, "movieId")

	rental, err := h.store.Rent(c.Request().Context(), customerID, movieID)
	switch {
	case errors.Is(err, repository.ErrInvalidCustomer):
		return badRequest(c, "invalid customer")
	case errors.Is(err, repository.ErrInvalidMovie):
		return badRequest(c, "invalid movie")
	case errors.Is(err, repository.ErrOutOfStock):
		return badRequest(c, "movie not in stock")
	case err != nil:
		return dbError(c)
	}

	if h.rabbitURL != "" {
		// Best effort, after commit; a broker outage must not fail the
		// rental that already happened.
		go h.publishCreated(rental)
	}
	return c.JSON(http.StatusOK, rental)
}

// Update handles PUT /api/rentals/:id. Only the return fields are
// mutable and stock is never re-adjusted here.
func (h *RentalHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, "rental not found")
	}
	payload, err := bindPayload(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.RentalUpdate.Apply(payload); err != nil {
		return badRequest(c, err.Error())
	}
	var dateReturned *time.Time
	if validate.Has(payload, "dateReturned") {
		t, err := time.Parse(time.RFC3339, validate.GetString(payload, "dateReturned"))
		if err != nil {
			return badRequest(c, "dateReturned must be a valid RFC3339 date")
		}
		t = t.UTC()
		dateReturned = &t
	}
	var rentalFee *float64
	if validate.Has(payload, "rentalFee") {
		fee := validate.GetNumber(payload, "rentalFee")
		rentalFee = &fee
	}
	rental, err := h.store.Update(c.Request().Context(), id, dateReturned, rentalFee)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "rental not found")
	}
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, rental)
}

// Delete handles DELETE /api/rentals/:id.
func (h *RentalHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, "rental not found")
	}
	rental, err := h.store.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "rental not found")
	}
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, rental)
}

func (h *RentalHandler) publishCreated(rental *model.Rental) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = queue_publisher.PublishRentalCreated(ctx, h.rabbitURL, queue.RentalCreatedEvent{
		RentalID:        rental.ID,
		CustomerID:      rental.Customer.ID,
		CustomerName:    rental.Customer.Name,
		MovieID:         rental.Movie.ID,
		MovieTitle:      rental.Movie.Title,
		DailyRentalRate: rental.Movie.DailyRentalRate,
		DateOut:         rental.DateOut.Format(time.RFC3339),
	})
}
