// Package middleware contains the reusable Echo middleware of the
// HTTP layer: authentication, role gating, rate limiting and response
// caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
)

// JWTAuth validates a Bearer access token and stores the caller's
// identity in the request context.  Handlers read it back through
// ActorFrom; the raw claims are also available under "user_id" and
// "role" for middleware that predates the typed actor.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// Numeric claims come back as float64 from MapClaims.
			sub, ok := claims["sub"].(float64)
			if !ok || sub <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
			}
			role, _ := claims["role"].(string)

			actor := model.Actor{ID: uint64(sub), Role: model.Role(role)}
			c.Set("actor", actor)
			c.Set("user_id", actor.ID)
			c.Set("role", string(actor.Role))
			return next(c)
		}
	}
}

// ActorFrom extracts the authenticated actor stored by JWTAuth.  The
// second return is false on routes that skipped authentication.
func ActorFrom(c echo.Context) (model.Actor, bool) {
	a, ok := c.Get("actor").(model.Actor)
	return a, ok
}
