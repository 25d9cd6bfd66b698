// Package handler translates HTTP requests into store operations and
// store errors back into HTTP statuses. Handlers depend on small
// store interfaces satisfied by the repository types, which keeps them
// testable against in-memory fakes.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// parseID reads the :id path parameter. A malformed or non-positive id
// is indistinguishable from an unknown one as far as callers are
// concerned, so both surface as 404.
func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// bindPayload decodes the JSON request body into a generic map for
// schema validation.
func bindPayload(c echo.Context) (map[string]interface{}, error) {
	payload := map[string]interface{}{}
	if err := c.Bind(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": msg})
}

func dbError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
