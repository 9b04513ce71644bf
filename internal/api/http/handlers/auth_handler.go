package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ubox-pos/cloud-dashboard/internal/api/dto"
	"github.com/ubox-pos/cloud-dashboard/internal/auth"
	"github.com/ubox-pos/cloud-dashboard/internal/posapi"
	"github.com/ubox-pos/cloud-dashboard/internal/service"
)

// HomePath is where owners land after signing in.
const HomePath = "/dashboard"

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler exposes login, registration and logout.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *auth.SessionMiddleware
	cookie   CookieConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, sessions *auth.SessionMiddleware, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions, cookie: cookie}
}

// LoginView handles GET /login.
func (h *AuthHandler) LoginView(c *fiber.Ctx) error {
	resp := dto.LoginViewResponse{
		Title:        "UBOX POS Cloud",
		LoginAction:  "/auth/login",
		RegisterPath: "/auth/register",
	}
	if _, ok := auth.SessionFromContext(c); ok {
		resp.Authenticated = true
		resp.Redirect = HomePath
	}
	return data(c, resp)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setCookie(c, out.Token, out.ExpiresAt)
	return data(c, h.response(out))
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.auth.Register(c.UserContext(), posapi.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		BusinessName: req.BusinessName,
	})
	if err != nil {
		return err
	}
	h.setCookie(c, out.Token, out.ExpiresAt)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": h.response(out)})
}

// Logout handles POST /auth/logout. It succeeds without a session too.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), h.sessions.SessionID(c)); err != nil {
		return err
	}
	c.ClearCookie(h.cookie.Name)
	return data(c, fiber.Map{"redirect": auth.LoginPath})
}

// Session handles GET /session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	return data(c, dto.NewSessionResponse(sess))
}

func (h *AuthHandler) response(out *service.AuthOutcome) dto.AuthResponse {
	return dto.AuthResponse{
		Token:      out.Token,
		ExpiresAt:  out.ExpiresAt,
		User:       out.Session.User,
		BusinessID: out.Session.BusinessID,
		LicenseKey: out.LicenseKey,
		Redirect:   HomePath,
	}
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
