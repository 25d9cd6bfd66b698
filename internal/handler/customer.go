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

// CustomerStore is the persistence surface the customer handler needs.
// *repository.CustomerRepo satisfies it.
type CustomerStore interface {
	List(ctx context.Context) ([]model.Customer, error)
	GetByID(ctx context.Context, id uint64) (*model.Customer, error)
	Create(ctx context.Context, cu *model.Customer) error
	Update(ctx context.Context, cu *model.Customer) error
	Delete(ctx context.Context, id uint64) (*model.Customer, error)
}

// CustomerHandler serves /api/customers.
type CustomerHandler struct {
	store CustomerStore
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(store CustomerStore) *CustomerHandler {
	if store == nil {
		panic("nil store passed to NewCustomerHandler")
	}
	return &CustomerHandler{store: store}
}

// List handles GET /api/customers.
func (h *CustomerHandler) List(c echo.Context) error {
	customers, err := h.store.List(c.Request().Context())
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, customers)
}

// Get handles GET /api/customers/:id.
func (h *CustomerHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, "customer not found")
	}
	cu, err := h.store.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "customer not found")
	}
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, cu)
}

// Create handles POST /api/customers. isGold defaults to false when
// omitted.
func (h *CustomerHandler) Create(c echo.Context) error {
	payload, err := bindPayload(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Customer.Apply(payload); err != nil {
		return badRequest(c, err.Error())
	}
	cu := customerFromPayload(payload)
	if err := h.store.Create(c.Request().Context(), cu); err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, cu)
}

// Update handles PUT /api/customers/:id.
func (h *CustomerHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, "customer not found")
	}
	payload, err := bindPayload(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Customer.Apply(payload); err != nil {
		return badRequest(c, err.Error())
	}
	cu := customerFromPayload(payload)
	cu.ID = id
	err = h.store.Update(c.Request().Context(), cu)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "customer not found")
	}
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, cu)
}

// Delete handles DELETE /api/customers/:id.
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, "customer not found")
	}
	cu, err := h.store.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "customer not found")
	}
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, cu)
}

func customerFromPayload(payload map[string]interface{}) *model.Customer {
	return &model.Customer{
		Name:   validate.GetString(payload, "name"),
		Phone:  validate.GetString(payload, "phone"),
		IsGold: validate.GetBool(payload, "isGold"),
	}
}
