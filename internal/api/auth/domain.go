package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const (
	// LocalUser is the fiber.Ctx local holding the authenticated username.
	LocalUser = "username"

	sessionLoggedIn = "logged_in"
	sessionUsername = "username"
)

// Authenticator decides whether a request may reach a guarded route.
// Implementations store the username under LocalUser on success.
type Authenticator interface {
	IsAuthenticated(c *fiber.Ctx) bool
}

// Credentials is a static username -> password table.
type Credentials map[string]string

func (cr Credentials) Verify(username, password string) bool {
	expected, ok := cr[username]
	if !ok || username == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(password)) == 1
}

func (cr Credentials) Has(username string) bool {
	_, ok := cr[username]
	return ok
}

type anyAuthenticator []Authenticator

// Any accepts a request as soon as one of the authenticators does.
func Any(authenticators ...Authenticator) Authenticator {
	return anyAuthenticator(authenticators)
}

func (a anyAuthenticator) IsAuthenticated(c *fiber.Ctx) bool {
	for _, authenticator := range a {
		if authenticator != nil && authenticator.IsAuthenticated(c) {
			return true
		}
	}
	return false
}

// Username returns the user stored by a successful authentication.
func Username(c *fiber.Ctx) string {
	if user, ok := c.Locals(LocalUser).(string); ok {
		return user
	}
	return ""
}
