package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ubox-pos/cloud-dashboard/internal/auth"
	"github.com/ubox-pos/cloud-dashboard/internal/domain"
	"github.com/ubox-pos/cloud-dashboard/internal/events"
	apperrors "github.com/ubox-pos/cloud-dashboard/pkg/util/errorutil"
)

const (
	msgStaffNoSelection      = "Por favor, selecciona tu nombre."
	msgManagementNoSelection = "Selecciona un usuario"
	msgStaffMismatch         = "PIN incorrecto. Inténtalo de nuevo."
	msgManagementMismatch    = "PIN incorrecto"
	msgLocked                = "Demasiados intentos. Inténtalo más tarde."
)

// Outcomes recorded for each evaluated PIN attempt.
const (
	OutcomeGranted     = "granted"
	OutcomeMismatch    = "mismatch"
	OutcomeNoSelection = "no_selection"
	OutcomeLocked      = "locked"
)

// SessionSaver persists a modified session.
type SessionSaver interface {
	Save(ctx context.Context, sess *domain.Session) error
}

// DirectoryLoader loads the staff directory of a session's business.
type DirectoryLoader interface {
	Load(ctx context.Context, sess *domain.Session) (Directory, error)
}

// GateResult is the state of one dialog after an operation. Target is set only
// when the attempt was granted.
type GateResult struct {
	Category domain.PanelCategory
	Gate     domain.GateState
	Accounts []domain.PanelAccount
	Target   *domain.NavigationTarget
}

// RoleRouter runs the PIN gates of the role panel.
type RoleRouter struct {
	directory  DirectoryLoader
	sessions   SessionSaver
	limiter    AttemptLimiter
	dispatcher events.Dispatcher
	hashCost   int
	logger     *zap.Logger
}

// NewRoleRouter builds the router. A nil limiter allows unlimited retries.
func NewRoleRouter(directory DirectoryLoader, sessions SessionSaver, limiter AttemptLimiter, dispatcher events.Dispatcher, hashCost int, logger *zap.Logger) *RoleRouter {
	if limiter == nil {
		limiter = unlimitedLimiter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleRouter{
		directory:  directory,
		sessions:   sessions,
		limiter:    limiter,
		dispatcher: dispatcher,
		hashCost:   hashCost,
		logger:     logger,
	}
}

// Load fetches the staff directory into the session's panel and saves it.
// Open gates keep their state while their selected account is still eligible.
func (r *RoleRouter) Load(ctx context.Context, sess *domain.Session) (*domain.PanelState, error) {
	panel, err := r.reload(ctx, sess)
	if err != nil {
		return nil, err
	}
	if err := r.sessions.Save(ctx, sess); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return panel, nil
}

func (r *RoleRouter) reload(ctx context.Context, sess *domain.Session) (*domain.PanelState, error) {
	dir, err := r.directory.Load(ctx, sess)
	if err != nil {
		return nil, err
	}

	panel := domain.NewPanelState()
	for _, c := range domain.PanelCategories {
		accounts, err := r.hashAccounts(ctx, dir.For(c))
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		panel.Accounts[c] = accounts
	}
	if sess.Panel != nil {
		carryGates(sess.Panel, panel)
	}
	autoSelectAdmin(panel)

	sess.Panel = panel
	return panel, nil
}

func (r *RoleRouter) hashAccounts(ctx context.Context, accounts []domain.StaffAccount) ([]domain.PanelAccount, error) {
	out := make([]domain.PanelAccount, len(accounts))
	g, _ := errgroup.WithContext(ctx)
	for i, a := range accounts {
		i, a := i, a
		g.Go(func() error {
			hash, err := auth.HashPIN(a.PIN, r.hashCost)
			if err != nil {
				return err
			}
			out[i] = domain.PanelAccount{
				ID:      a.ID,
				Name:    a.Name,
				Role:    a.Role,
				Kind:    a.Kind,
				PINHash: hash,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// carryGates copies gate state from a previous panel, dropping selections of
// accounts that are no longer eligible.
func carryGates(prev, next *domain.PanelState) {
	for _, c := range domain.PanelCategories {
		gate := *prev.Gate(c)
		if gate.SelectedAccountID != "" {
			if _, ok := next.Account(c, gate.SelectedAccountID); !ok {
				gate.SelectedAccountID = ""
				gate.Digits = ""
			}
		}
		next.Gates[c] = &gate
	}
}

// Open shows the dialog of a category. The staff directory is fetched again
// so accounts disabled since the last load disappear.
func (r *RoleRouter) Open(ctx context.Context, sess *domain.Session, c domain.PanelCategory) (*GateResult, error) {
	if _, err := r.reload(ctx, sess); err != nil {
		return nil, err
	}
	return r.mutate(ctx, sess, c, func(panel *domain.PanelState, gate *domain.GateState) (*domain.NavigationTarget, error) {
		gate.Error = ""
		gate.Digits = ""
		if c == domain.PanelManagement {
			autoSelectAdmin(panel)
			gate.Phase = domain.GatePinEntry
			return nil, nil
		}
		gate.SelectedAccountID = ""
		gate.Phase = domain.GateSelecting
		return nil, nil
	})
}

// Select chooses the account whose PIN will be checked.
func (r *RoleRouter) Select(ctx context.Context, sess *domain.Session, c domain.PanelCategory, accountID string) (*GateResult, error) {
	return r.mutate(ctx, sess, c, func(panel *domain.PanelState, gate *domain.GateState) (*domain.NavigationTarget, error) {
		if _, ok := panel.Account(c, accountID); !ok {
			return nil, apperrors.NewValidationError("cuenta no disponible para esta categoría", map[string]any{
				"category":   c,
				"account_id": accountID,
			})
		}
		gate.SelectedAccountID = accountID
		gate.Phase = domain.GatePinEntry
		return nil, nil
	})
}

// Press feeds one keypad digit. The fourth digit triggers evaluation.
func (r *RoleRouter) Press(ctx context.Context, sess *domain.Session, c domain.PanelCategory, key string) (*GateResult, error) {
	return r.mutate(ctx, sess, c, func(panel *domain.PanelState, gate *domain.GateState) (*domain.NavigationTarget, error) {
		if err := requireOpen(gate); err != nil {
			return nil, err
		}
		pad := NewPinPad(gate.Digits)
		attempt, complete, err := pad.Press(key)
		if err != nil {
			return nil, apperrors.NewValidationError("tecla inválida", map[string]any{"key": key})
		}
		gate.Digits = pad.Digits()
		if !complete {
			return nil, nil
		}
		return r.evaluate(ctx, sess, panel, c, gate, attempt)
	})
}

// Backspace removes the last digit.
func (r *RoleRouter) Backspace(ctx context.Context, sess *domain.Session, c domain.PanelCategory) (*GateResult, error) {
	return r.mutate(ctx, sess, c, func(_ *domain.PanelState, gate *domain.GateState) (*domain.NavigationTarget, error) {
		if err := requireOpen(gate); err != nil {
			return nil, err
		}
		pad := NewPinPad(gate.Digits)
		pad.Backspace()
		gate.Digits = pad.Digits()
		return nil, nil
	})
}

// Clear empties the keypad.
func (r *RoleRouter) Clear(ctx context.Context, sess *domain.Session, c domain.PanelCategory) (*GateResult, error) {
	return r.mutate(ctx, sess, c, func(_ *domain.PanelState, gate *domain.GateState) (*domain.NavigationTarget, error) {
		if err := requireOpen(gate); err != nil {
			return nil, err
		}
		gate.Digits = ""
		return nil, nil
	})
}

// Close hides the dialog. The selection survives.
func (r *RoleRouter) Close(ctx context.Context, sess *domain.Session, c domain.PanelCategory) (*GateResult, error) {
	return r.mutate(ctx, sess, c, func(_ *domain.PanelState, gate *domain.GateState) (*domain.NavigationTarget, error) {
		gate.Phase = domain.GateClosed
		gate.Digits = ""
		return nil, nil
	})
}

// Panel returns the session's panel, loading it on first use.
func (r *RoleRouter) Panel(ctx context.Context, sess *domain.Session) (*domain.PanelState, error) {
	if sess.Panel != nil {
		return sess.Panel, nil
	}
	return r.Load(ctx, sess)
}

func (r *RoleRouter) mutate(ctx context.Context, sess *domain.Session, c domain.PanelCategory, fn func(*domain.PanelState, *domain.GateState) (*domain.NavigationTarget, error)) (*GateResult, error) {
	panel, err := r.Panel(ctx, sess)
	if err != nil {
		return nil, err
	}
	gate := panel.Gate(c)
	target, opErr := fn(panel, gate)

	var de *apperrors.DomainError
	if opErr != nil && (!errors.As(opErr, &de) || de.Code != "TOO_MANY_ATTEMPTS") {
		return nil, opErr
	}
	if err := r.sessions.Save(ctx, sess); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if opErr != nil {
		return nil, opErr
	}
	return &GateResult{
		Category: c,
		Gate:     *gate,
		Accounts: panel.Accounts[c],
		Target:   target,
	}, nil
}

func (r *RoleRouter) evaluate(ctx context.Context, sess *domain.Session, panel *domain.PanelState, c domain.PanelCategory, gate *domain.GateState, attempt string) (*domain.NavigationTarget, error) {
	account, ok := panel.Account(c, gate.SelectedAccountID)
	if gate.SelectedAccountID == "" || !ok {
		gate.Error = noSelectionMessage(c)
		r.publishAttempt(ctx, sess, c, "", OutcomeNoSelection)
		return nil, nil
	}

	key := sess.BusinessID + ":" + account.ID
	locked, err := r.limiter.Locked(ctx, key)
	if err != nil {
		r.logger.Warn("attempt limiter unavailable", zap.Error(err))
	}
	if locked {
		gate.Digits = ""
		gate.Error = msgLocked
		r.publishAttempt(ctx, sess, c, account.ID, OutcomeLocked)
		r.publish(ctx, sess, events.EventAccessDenied, events.PinAttemptPayload{Category: c, AccountID: account.ID, Outcome: OutcomeLocked})
		return nil, apperrors.NewTooManyAttempts(msgLocked)
	}

	match, err := auth.MatchPIN(account.PINHash, attempt)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if match {
		gate.Error = ""
		gate.Digits = ""
		gate.Phase = domain.GateGranted
		if err := r.limiter.Reset(ctx, key); err != nil {
			r.logger.Warn("failed to reset attempt counter", zap.Error(err))
		}
		target := navigationFor(c, account)
		r.publishAttempt(ctx, sess, c, account.ID, OutcomeGranted)
		r.publish(ctx, sess, events.EventAccessGranted, events.AccessGrantedPayload{Category: c, Target: target})
		return &target, nil
	}

	gate.Digits = ""
	gate.Error = mismatchMessage(c)
	if c != domain.PanelManagement {
		gate.SelectedAccountID = ""
	}
	if _, err := r.limiter.Fail(ctx, key); err != nil {
		r.logger.Warn("failed to record failed attempt", zap.Error(err))
	}
	r.publishAttempt(ctx, sess, c, account.ID, OutcomeMismatch)
	r.publish(ctx, sess, events.EventAccessDenied, events.PinAttemptPayload{Category: c, AccountID: account.ID, Outcome: OutcomeMismatch})
	return nil, nil
}

func (r *RoleRouter) publishAttempt(ctx context.Context, sess *domain.Session, c domain.PanelCategory, accountID, outcome string) {
	r.publish(ctx, sess, events.EventPinAttempted, events.PinAttemptPayload{Category: c, AccountID: accountID, Outcome: outcome})
}

func (r *RoleRouter) publish(ctx context.Context, sess *domain.Session, eventType events.EventType, payload any) {
	if r.dispatcher == nil {
		return
	}
	_ = r.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		SessionID:  sess.ID,
		BusinessID: sess.BusinessID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	})
}

func requireOpen(gate *domain.GateState) error {
	if gate.Phase == domain.GateClosed || gate.Phase == domain.GateGranted {
		return apperrors.NewValidationError("el diálogo no está abierto", nil)
	}
	return nil
}

func autoSelectAdmin(panel *domain.PanelState) {
	gate := panel.Gate(domain.PanelManagement)
	if gate.SelectedAccountID != "" {
		return
	}
	for _, a := range panel.Accounts[domain.PanelManagement] {
		if strings.EqualFold(a.Name, "ADMIN") {
			gate.SelectedAccountID = a.ID
			return
		}
	}
}

func navigationFor(c domain.PanelCategory, a domain.PanelAccount) domain.NavigationTarget {
	t := domain.NavigationTarget{Name: a.Name, AccountID: a.ID}
	switch c {
	case domain.PanelWaiter:
		t.Path, t.Role = "/waiter", "mozo"
	case domain.PanelCashier:
		t.Path, t.Role = "/cashier", "cajero"
	case domain.PanelBarman:
		t.Path, t.Role = "/bar", "barman"
	case domain.PanelManagement:
		t.Path, t.Role, t.DisplayRole = "/admin-dashboard", "boss", a.Role
		if domain.IsAdminRole(a.Role) {
			t.Role = "admin"
		}
	}
	return t
}

func noSelectionMessage(c domain.PanelCategory) string {
	if c == domain.PanelManagement {
		return msgManagementNoSelection
	}
	return msgStaffNoSelection
}

func mismatchMessage(c domain.PanelCategory) string {
	if c == domain.PanelManagement {
		return msgManagementMismatch
	}
	return msgStaffMismatch
}
