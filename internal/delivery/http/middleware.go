package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/FilipeAphrody/loggate/pkg/security"
)

// JWTMiddleware intercepts the request to validate the bearer token in the
// Authorization header. The token is verified by signature and expiry only;
// there is no store lookup.
func JWTMiddleware(codec *security.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				c.Response().Header().Set("WWW-Authenticate", "Bearer")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
			}

			// Expected format: "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.Response().Header().Set("WWW-Authenticate", "Bearer")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format"})
			}

			claims, err := codec.Parse(parts[1])
			if err != nil {
				c.Response().Header().Set("WWW-Authenticate", "Bearer")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			// Inject the authenticated subject into the Echo context so
			// subsequent handlers can identify the user.
			c.Set("username", claims.Subject)

			return next(c)
		}
	}
}
