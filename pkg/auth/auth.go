// Package auth issues and verifies the HS256 principal tokens that
// identify upload callers.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	apierr "github.com/picket-dev/picket/pkg/api/types/errors"
	"github.com/picket-dev/picket/pkg/domain"
	"github.com/picket-dev/picket/pkg/utils/clock"
)

const issuer = "picket"

// context key the middleware stores the verified principal under.
const principalKey = "picket.principal"

type Tokens struct {
	key   []byte
	clock clock.Clock
}

func New(signKey string, clk clock.Clock) *Tokens {
	return &Tokens{key: []byte(signKey), clock: clk}
}

// Issue signs a token naming the principal, valid for ttl.
func (t *Tokens) Issue(principal string, ttl time.Duration) (string, error) {
	if principal == "" {
		return "", fmt.Errorf("%w: principal is required", domain.ErrInvalidPrincipal)
	}
	now := t.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   principal,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(t.key)
}

// Verify checks the signature and expiry, and returns the principal.
func (t *Tokens) Verify(tokenString string) (string, error) {
	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString, &claims,
		func(*jwt.Token) (interface{}, error) { return t.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.clock.Now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidPrincipal, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", domain.ErrInvalidPrincipal)
	}
	return claims.Subject, nil
}

// Middleware extracts the bearer token, verifies it and stores the
// principal for Principal().
func (t *Tokens) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				return apierr.Unauthorized("pass a bearer token", nil)
			}
			principal, err := t.Verify(tokenString)
			if err != nil {
				return apierr.Unauthorized("token is not valid", err)
			}
			SetPrincipal(c, principal)
			return next(c)
		}
	}
}

// SetPrincipal stores the principal as the middleware would. For
// handlers under test.
func SetPrincipal(c echo.Context, principal string) {
	c.Set(principalKey, principal)
}

// Principal reads the principal the middleware verified. Empty when
// the request did not pass the middleware.
func Principal(c echo.Context) string {
	principal, _ := c.Get(principalKey).(string)
	return principal
}
