package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	applog "storefront/internal/log"
)

const principalKey = "principal"

// principal name claims, most specific first
var nameClaims = []string{"unique_name", "name", "sub"}

// Authenticate attaches the principal name carried by a bearer token.
// Requests without a token stay anonymous; a token that does not verify is
// refused.
func Authenticate(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			applog.Security(c, "auth.scheme.unsupported", nil)
			return problem(c, fiber.StatusUnauthorized, "Unsupported authorization scheme", "")
		}
		name, err := principalName(raw, secret)
		if err != nil {
			applog.Security(c, "auth.token.invalid", map[string]any{"reason": err.Error()})
			return problem(c, fiber.StatusUnauthorized, "Invalid bearer token", "")
		}
		c.Locals(principalKey, name)
		return c.Next()
	}
}

// Principal returns the authenticated name, or "" for anonymous requests.
func Principal(c *fiber.Ctx) string {
	name, _ := c.Locals(principalKey).(string)
	return name
}

func principalName(raw string, secret []byte) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	for _, k := range nameClaims {
		if v, ok := claims[k].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", errors.New("token carries no principal name")
}
