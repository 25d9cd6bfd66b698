package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidly/vidly-api/internal/model"
	"github.com/vidly/vidly-api/internal/repository"
	"github.com/vidly/vidly-api/internal/utils"
	"github.com/vidly/vidly-api/internal/validate"
)

// UserStore is the persistence surface the user handler needs.
// *repository.UserRepo satisfies it.
type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id uint64) (*model.User, error)
}

// UserHandler serves /api/users. Passwords are bcrypt-hashed before
// they reach the store and the hash never appears in a response; a
// freshly created account gets a signed token in the x-auth-token
// header, which nothing in this API enforces.
type UserHandler struct {
	store      UserStore
	jwtSecret  string
	bcryptCost int
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(store UserStore, jwtSecret string, bcryptCost int) *UserHandler {
	if store == nil {
		panic("nil store passed to NewUserHandler")
	}
	return &UserHandler{store: store, jwtSecret: jwtSecret, bcryptCost: bcryptCost}
}

// List handles GET /api/users.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.store.List(c.Request().Context())
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, "user not found")
	}
	u, err := h.store.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "user not found")
	}
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, u)
}

// Create handles POST /api/users.
func (h *UserHandler) Create(c echo.Context) error {
	payload, err := bindPayload(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.User.Apply(payload); err != nil {
		return badRequest(c, err.Error())
	}
	hash, err := utils.HashPassword(validate.GetString(payload, "password"), h.bcryptCost)
	if err != nil {
		return dbError(c)
	}
	u := &model.User{
		Name:         validate.GetString(payload, "name"),
		Email:        validate.GetString(payload, "email"),
		PasswordHash: hash,
	}
	err = h.store.Create(c.Request().Context(), u)
	if errors.Is(err, repository.ErrEmailExists) {
		return badRequest(c, "email already registered")
	}
	if err != nil {
		return dbError(c)
	}
	if token, err := utils.NewAuthToken(h.jwtSecret, u.ID, u.Name); err == nil {
		c.Response().Header().Set("x-auth-token", token)
	}
	return c.JSON(http.StatusOK, u)
}

// Update handles PUT /api/users/:id. The full field set is replaced,
// so the password is rehashed on every update.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, "user not found")
	}
	payload, err := bindPayload(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.User.Apply(payload); err != nil {
		return badRequest(c, err.Error())
	}
	hash, err := utils.HashPassword(validate.GetString(payload, "password"), h.bcryptCost)
	if err != nil {
		return dbError(c)
	}
	u := &model.User{
		ID:           id,
		Name:         validate.GetString(payload, "name"),
		Email:        validate.GetString(payload, "email"),
		PasswordHash: hash,
	}
	err = h.store.Update(c.Request().Context(), u)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "user not found")
	}
	if errors.Is(err, repository.ErrEmailExists) {
		return badRequest(c, "email already registered")
	}
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /api/users/:id.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c, "user not found")
	}
	u, err := h.store.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "user not found")
	}
	if err != nil {
		return dbError(c)
	}
	return c.JSON(http.StatusOK, u)
}
