// Package handler contains the HTTP handlers of the API.  Handlers
// bind and validate request bodies, call into the service layer and
// translate domain errors to HTTP responses.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/service"
)

// dbTimeout bounds every service call made from a handler.
const dbTimeout = 5 * time.Second

// fail converts a service error into the matching JSON error response.
// Unclassified errors are logged by Echo and surface as a plain 500.
func fail(c echo.Context, err error) error {
	switch service.KindOf(err) {
	case service.KindNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case service.KindForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case service.KindBadRequest:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case service.KindConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
