// Package repository implements persistence for the rental service on
// top of database/sql. This file defines the sentinel errors shared by
// the repositories; handlers translate them into HTTP statuses and no
// layer below the handlers ever sees an HTTP concern.
package repository

import "errors"

// ErrNotFound is returned when a lookup by id matches no row. Handlers
// translate it into a 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user insert collides with the
// unique email index. Handlers translate it into a 400 response.
var ErrEmailExists = errors.New("email already registered")

// ErrInvalidCustomer is returned by the rental workflow when the
// referenced customer does not exist. This is a 400, not a 404: the
// broken identifier arrived in the request body, so the request itself
// is malformed rather than the path resource missing.
var ErrInvalidCustomer = errors.New("invalid customer")

// ErrInvalidMovie is the movie counterpart of ErrInvalidCustomer.
var ErrInvalidMovie = errors.New("invalid movie")

// ErrOutOfStock is returned when the conditional stock decrement
// matches no row, i.e. the movie has zero copies available at the
// moment of mutation.
var ErrOutOfStock = errors.New("movie not in stock")
