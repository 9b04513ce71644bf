package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
)

// LoginData is what a successful login or registration binds to a new session.
type LoginData struct {
	Token        string
	User         domain.UserInfo
	BusinessID   string
	BusinessName string
}

// Manager owns the session lifecycle: created at login or registration,
// read on every request, destroyed at logout.
type Manager struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewManager builds a manager around a store.
func NewManager(store Store, ttl time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, ttl: ttl, logger: logger, now: time.Now}
}

// TTL returns the lifetime of new sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Login creates and persists a new session.
func (m *Manager) Login(ctx context.Context, data LoginData) (*domain.Session, error) {
	now := m.now()
	displayName := data.User.Name
	if displayName == "" {
		displayName = data.User.Email
	}
	sess := &domain.Session{
		ID:           uuid.NewString(),
		Token:        data.Token,
		User:         data.User,
		BusinessID:   data.BusinessID,
		BusinessName: data.BusinessName,
		DisplayName:  displayName,
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return nil, err
	}
	m.logger.Info("session created",
		zap.String("session_id", sess.ID),
		zap.String("user_id", sess.User.ID),
		zap.Bool("has_business", sess.HasBusiness()))
	return sess, nil
}

// Get loads a live session.
func (m *Manager) Get(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Expired(m.now()) {
		_ = m.store.Delete(ctx, id)
		return nil, ErrNotFound
	}
	return sess, nil
}

// Save writes back a modified session, keeping its original expiry.
func (m *Manager) Save(ctx context.Context, sess *domain.Session) error {
	remaining := sess.ExpiresAt.Sub(m.now())
	if remaining <= 0 {
		return ErrNotFound
	}
	return m.store.Save(ctx, sess, remaining)
}

// Logout destroys the session. Logging out twice is not an error.
func (m *Manager) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	m.logger.Info("session destroyed", zap.String("session_id", id))
	return nil
}
