package middleware

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"github.com/thesrcielos/CodeClash/internal/user"
)

const contextKey = "user"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// SetupJWTMiddleware validates the Bearer token and stores it in the context
// under "user". JWT_SECRET must be loaded before this is called.
func SetupJWTMiddleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(user.JwtCustomClaims)
		},
		SigningKey: user.SigningKey(),
		ContextKey: contextKey,
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.NewAppError(401, "missing or invalid token", ErrUnauthorized)
		},
	})
}

func Claims(c echo.Context) (*user.JwtCustomClaims, bool) {
	token, ok := c.Get(contextKey).(*jwt.Token)
	if !ok {
		return nil, false
	}
	claims, ok := token.Claims.(*user.JwtCustomClaims)
	return claims, ok
}

// UserID is the authenticated caller, 0 outside the JWT middleware.
func UserID(c echo.Context) uint {
	if claims, ok := Claims(c); ok {
		return claims.Id
	}
	return 0
}

func IsAdmin(c echo.Context) bool {
	claims, ok := Claims(c)
	return ok && claims.Role == user.RoleAdmin
}

func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				return apperrors.NewAppError(401, "missing or invalid token", ErrUnauthorized)
			}
			if claims.Role != role {
				return apperrors.NewAppError(403, "you are not allowed to do this", ErrForbidden)
			}
			return next(c)
		}
	}
}
