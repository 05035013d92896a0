package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
)

const tokenIssuer = "lorawan-data-server"

// TokenAuthenticator accepts HS256 bearer tokens whose subject is still a
// known user.
type TokenAuthenticator struct {
	secret      []byte
	ttl         time.Duration
	credentials Credentials
	now         func() time.Time
}

func NewTokenAuthenticator(secret string, ttl time.Duration, credentials Credentials) *TokenAuthenticator {
	return &TokenAuthenticator{
		secret:      []byte(secret),
		ttl:         ttl,
		credentials: credentials,
		now:         time.Now,
	}
}

func (a *TokenAuthenticator) Issue(username string) (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(a.ttl)
	claims := jwt.StandardClaims{
		Subject:   username,
		Issuer:    tokenIssuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (a *TokenAuthenticator) Verify(raw string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Issuer != tokenIssuer {
		return "", fmt.Errorf("invalid token")
	}
	if !a.credentials.Has(claims.Subject) {
		return "", fmt.Errorf("unknown user %q", claims.Subject)
	}
	return claims.Subject, nil
}

func (a *TokenAuthenticator) IsAuthenticated(c *fiber.Ctx) bool {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return false
	}
	username, err := a.Verify(strings.TrimSpace(header[7:]))
	if err != nil {
		return false
	}
	c.Locals(LocalUser, username)
	return true
}
