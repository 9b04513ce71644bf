package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ubox-pos/cloud-dashboard/internal/auth"
	"github.com/ubox-pos/cloud-dashboard/internal/domain"
	"github.com/ubox-pos/cloud-dashboard/internal/events"
	"github.com/ubox-pos/cloud-dashboard/internal/posapi"
	"github.com/ubox-pos/cloud-dashboard/internal/session"
	apperrors "github.com/ubox-pos/cloud-dashboard/pkg/util/errorutil"
)

// AuthGateway is the part of the POS API that authenticates owners.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*posapi.AuthResult, error)
	Register(ctx context.Context, in posapi.RegisterInput) (*posapi.AuthResult, error)
}

// AuthOutcome is a freshly opened session and the token that carries it.
type AuthOutcome struct {
	Session    *domain.Session
	Token      string
	ExpiresAt  time.Time
	LicenseKey string
}

// AuthService coordinates login, registration and logout.
type AuthService struct {
	gateway    AuthGateway
	sessions   *session.Manager
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(gateway AuthGateway, sessions *session.Manager, tokenMgr *auth.TokenManager, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		gateway:    gateway,
		sessions:   sessions,
		tokenMgr:   tokenMgr,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Login authenticates against the POS API and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthOutcome, error) {
	res, err := s.gateway.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, s.mapGatewayError(err, "Error al iniciar sesión")
	}
	return s.open(ctx, res)
}

// Register creates the owner account and business, then opens a session.
func (s *AuthService) Register(ctx context.Context, in posapi.RegisterInput) (*AuthOutcome, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	res, err := s.gateway.Register(ctx, in)
	if err != nil {
		return nil, s.mapGatewayError(err, "Error al registrar")
	}
	return s.open(ctx, res)
}

// Logout destroys the session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Logout(ctx, sessionID); err != nil {
		return apperrors.NewInternalError(err)
	}
	if sessionID != "" {
		s.publish(ctx, events.EventSessionClosed, sessionID, "", events.SessionPayload{})
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) open(ctx context.Context, res *posapi.AuthResult) (*AuthOutcome, error) {
	if res.Token == "" {
		return nil, apperrors.NewUpstreamError("respuesta de autenticación inválida", errors.New("missing token"))
	}
	data := session.LoginData{Token: res.Token, User: res.User}
	if res.Business != nil {
		data.BusinessID = res.Business.ID
		data.BusinessName = res.Business.Name
	}
	sess, err := s.sessions.Login(ctx, data)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	token, exp, err := s.tokenMgr.GenerateToken(sess.ID)
	if err != nil {
		_ = s.sessions.Logout(ctx, sess.ID)
		return nil, apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.EventSessionOpened, sess.ID, sess.BusinessID, events.SessionPayload{UserID: sess.User.ID})
	return &AuthOutcome{Session: sess, Token: token, ExpiresAt: exp, LicenseKey: res.LicenseKey}, nil
}

func (s *AuthService) mapGatewayError(err error, fallback string) error {
	if posapi.IsStatus(err, http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusConflict) {
		return apperrors.NewUnauthorized(posapi.Message(err, fallback))
	}
	s.logger.Error("auth gateway failed", zap.Error(err))
	return apperrors.NewUpstreamError(posapi.Message(err, fallback), err)
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, sessionID, businessID string, payload events.SessionPayload) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		SessionID:  sessionID,
		BusinessID: businessID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	})
}
