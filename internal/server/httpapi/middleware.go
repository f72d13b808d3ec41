package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/todovault/todovault/internal/common"
	"github.com/todovault/todovault/internal/server/auth"
)

// Keys under which the guard binds the resolved identity into the echo
// context for downstream handlers.
const (
	ctxUserID    = "userID"
	ctxUserEmail = "userEmail"
)

var (
	errMissingAuthorization = errors.New("missing authorization header")
	errBadAuthorization     = errors.New("bad auth header")
)

// requireAuth is the authorization guard: it rejects the request before any
// handler logic runs unless a valid bearer token is presented, and binds
// the token's identity into the request context. It has no other side
// effects.
func (s *HTTPServer) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {

		token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return writeError(c, http.StatusUnauthorized, "unauthenticated")
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = "token expired"
			}
			return writeError(c, http.StatusUnauthorized, msg)
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)

		return next(c)
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errMissingAuthorization
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", errBadAuthorization
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", errBadAuthorization
	}

	return token, nil
}

func userIDFromContext(c echo.Context) string {
	id, _ := c.Get(ctxUserID).(string)
	return id
}
