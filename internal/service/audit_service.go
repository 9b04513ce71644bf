package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ubox-pos/cloud-dashboard/internal/events"
	"github.com/ubox-pos/cloud-dashboard/internal/repository"
)

// AuditService records role panel and session events.
type AuditService struct {
	dispatcher events.Dispatcher
	attempts   repository.PinAttemptRepository
	logger     *zap.Logger
}

// NewAuditService creates the service. attempts may be nil when Postgres is not configured.
func NewAuditService(dispatcher events.Dispatcher, attempts repository.PinAttemptRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		attempts:   attempts,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventPinAttempted, a.handlePinAttempted)
	a.dispatcher.Subscribe(events.EventAccessGranted, a.handleAccessGranted)
	a.dispatcher.Subscribe(events.EventAccessDenied, a.handleAccessDenied)
	a.dispatcher.Subscribe(events.EventSessionOpened, a.handleSession)
	a.dispatcher.Subscribe(events.EventSessionClosed, a.handleSession)
}

func (a *AuditService) handlePinAttempted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PinAttemptPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	a.logger.Info("PinAttempted",
		zap.String("session_id", event.SessionID),
		zap.String("category", string(payload.Category)),
		zap.String("account_id", payload.AccountID),
		zap.String("outcome", payload.Outcome))

	if a.attempts == nil {
		return nil
	}
	return a.attempts.Create(ctx, &repository.PinAttempt{
		BusinessID: event.BusinessID,
		SessionID:  event.SessionID,
		Category:   string(payload.Category),
		AccountID:  payload.AccountID,
		Outcome:    payload.Outcome,
	})
}

func (a *AuditService) handleAccessGranted(ctx context.Context, event events.Event) error {
	a.logger.Info("AccessGranted", zap.String("session_id", event.SessionID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleAccessDenied(ctx context.Context, event events.Event) error {
	a.logger.Warn("AccessDenied", zap.String("session_id", event.SessionID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleSession(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type), zap.String("session_id", event.SessionID), zap.String("business_id", event.BusinessID))
	return nil
}

// RecentAttempts returns the latest audited attempts of a business, empty when auditing is off.
func (a *AuditService) RecentAttempts(ctx context.Context, businessID string, limit int) ([]repository.PinAttempt, error) {
	if a.attempts == nil {
		return []repository.PinAttempt{}, nil
	}
	return a.attempts.ListRecent(ctx, businessID, limit)
}
