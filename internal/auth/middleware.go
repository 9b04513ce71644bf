package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
	"github.com/ubox-pos/cloud-dashboard/internal/session"
	apperrors "github.com/ubox-pos/cloud-dashboard/pkg/util/errorutil"
)

const sessionKey = "dashboard_session"

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// SessionMiddleware resolves the dashboard session from the cookie or a bearer token.
type SessionMiddleware struct {
	tokens     *TokenManager
	sessions   *session.Manager
	cookieName string
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, sessions *session.Manager, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, sessions: sessions, cookieName: cookieName}
}

// Handle is the private route guard: without a live session the visitor is redirected to the login view.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	sess, err := m.resolve(c)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return c.Redirect(LoginPath, fiber.StatusSeeOther)
		}
		return apperrors.NewInternalError(err)
	}
	c.Locals(sessionKey, sess)
	return c.Next()
}

// Optional attaches the session when present and never blocks.
func (m *SessionMiddleware) Optional(c *fiber.Ctx) error {
	if sess, err := m.resolve(c); err == nil {
		c.Locals(sessionKey, sess)
	}
	return c.Next()
}

// SessionID extracts the session id carried by the request, if any.
func (m *SessionMiddleware) SessionID(c *fiber.Ctx) string {
	raw := c.Cookies(m.cookieName)
	if raw == "" {
		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			raw = parts[1]
		}
	}
	if raw == "" {
		return ""
	}
	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return ""
	}
	return claims.SessionID
}

func (m *SessionMiddleware) resolve(c *fiber.Ctx) (*domain.Session, error) {
	id := m.SessionID(c)
	if id == "" {
		return nil, session.ErrNotFound
	}
	return m.sessions.Get(c.UserContext(), id)
}

// RequireBusiness rejects requests whose session is not bound to a business.
func RequireBusiness() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := SessionFromContext(c)
		if !ok || !sess.HasBusiness() {
			return apperrors.NewPreconditionFailed("no se encontró el ID del negocio")
		}
		return c.Next()
	}
}

// SessionFromContext retrieves the authenticated session.
func SessionFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	sess, ok := val.(*domain.Session)
	return sess, ok
}
