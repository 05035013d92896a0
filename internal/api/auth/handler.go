package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type loginForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type AuthHandler struct {
	sessions    *SessionAuthenticator
	tokens      *TokenAuthenticator
	credentials Credentials
	logger      *zap.Logger
}

// AuthRouter mounts the login form, logout and, when tokens is not nil, the
// bearer token endpoint.
func AuthRouter(route fiber.Router, sessions *SessionAuthenticator, tokens *TokenAuthenticator, credentials Credentials, logger *zap.Logger) {
	handler := &AuthHandler{
		sessions:    sessions,
		tokens:      tokens,
		credentials: credentials,
		logger:      logger,
	}

	route.Get(LoginPath, handler.showLogin)
	route.Post(LoginPath, handler.login)
	route.Get("/logout", handler.logout)
	if tokens != nil {
		route.Post("/api/token", handler.issueToken)
	}
}

func (h *AuthHandler) showLogin(c *fiber.Ctx) error {
	if h.sessions.IsAuthenticated(c) {
		return c.Redirect("/", fiber.StatusFound)
	}
	return c.Render("login", fiber.Map{})
}

// @Summary Start a dashboard session
// @Accept  x-www-form-urlencoded
// @Param username formData string true "username"
// @Param password formData string true "password"
// @Success 302
// @Failure 401 {string} string
// @Router /login [post]
func (h *AuthHandler) login(c *fiber.Ctx) error {
	form := new(loginForm)
	if err := c.BodyParser(form); err != nil {
		h.logger.Debug("login form parser error", zap.Error(err))
	}

	if !h.credentials.Verify(form.Username, form.Password) {
		h.logger.Info("login rejected", zap.String("username", form.Username), zap.String("ip", c.IP()))
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{
			"Error": "Invalid username or password",
		})
	}

	if err := h.sessions.Login(c, form.Username); err != nil {
		h.logger.Error("failed to save session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).Render("login", fiber.Map{
			"Error": "Login is temporarily unavailable",
		})
	}
	h.logger.Info("login", zap.String("username", form.Username), zap.String("ip", c.IP()))
	return c.Redirect("/", fiber.StatusFound)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c); err != nil {
		h.logger.Warn("failed to destroy session", zap.Error(err))
	}
	return c.Redirect(LoginPath, fiber.StatusFound)
}

// @Summary Issue a bearer token for the query endpoints
// @Accept  json
// @Produce json
// @Param credentials body loginForm true "username and password"
// @Success 200 {object} object
// @Failure 401 {object} object
// @Router /api/token [post]
func (h *AuthHandler) issueToken(c *fiber.Ctx) error {
	form := new(loginForm)
	if err := c.BodyParser(form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "fail",
			"error":  err.Error(),
		})
	}
	if !h.credentials.Verify(form.Username, form.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "fail",
			"error":  "invalid username or password",
		})
	}

	token, expiresAt, err := h.tokens.Issue(form.Username)
	if err != nil {
		h.logger.Error("failed to sign token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "fail",
			"error":  err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":     "success",
		"token":      token,
		"token_type": "Bearer",
		"expires_at": expiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}
