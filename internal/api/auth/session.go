package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

type SessionAuthenticator struct {
	store *session.Store
}

func NewSessionStore(storage fiber.Storage, ttl time.Duration) *session.Store {
	return session.New(session.Config{
		Storage:        storage,
		Expiration:     ttl,
		KeyLookup:      "cookie:session_id",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		KeyGenerator:   uuid.NewString,
	})
}

func NewSessionAuthenticator(store *session.Store) *SessionAuthenticator {
	return &SessionAuthenticator{store: store}
}

func (a *SessionAuthenticator) IsAuthenticated(c *fiber.Ctx) bool {
	sess, err := a.store.Get(c)
	if err != nil {
		return false
	}
	if loggedIn, _ := sess.Get(sessionLoggedIn).(bool); !loggedIn {
		return false
	}
	username, _ := sess.Get(sessionUsername).(string)
	c.Locals(LocalUser, username)
	return true
}

// Login starts a fresh session for username.
func (a *SessionAuthenticator) Login(c *fiber.Ctx, username string) error {
	sess, err := a.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionLoggedIn, true)
	sess.Set(sessionUsername, username)
	return sess.Save()
}

func (a *SessionAuthenticator) Logout(c *fiber.Ctx) error {
	sess, err := a.store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}
