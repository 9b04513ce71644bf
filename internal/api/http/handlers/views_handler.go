package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ubox-pos/cloud-dashboard/internal/api/dto"
	"github.com/ubox-pos/cloud-dashboard/internal/auth"
	"github.com/ubox-pos/cloud-dashboard/internal/catalog"
	"github.com/ubox-pos/cloud-dashboard/internal/domain"
	"github.com/ubox-pos/cloud-dashboard/internal/service"
	"github.com/ubox-pos/cloud-dashboard/internal/session"
	"github.com/ubox-pos/cloud-dashboard/internal/view"
	"github.com/ubox-pos/cloud-dashboard/internal/worker"
)

// SessionReader looks up live sessions.
type SessionReader interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
}

var errSessionClosed = errors.New("session closed")

// ViewsHandler serves the dashboard pages.
type ViewsHandler struct {
	views    *service.ViewsService
	sessions SessionReader
	poller   *worker.Poller
	logger   *zap.Logger
}

// NewViewsHandler constructs handler.
func NewViewsHandler(views *service.ViewsService, sessions SessionReader, poller *worker.Poller, logger *zap.Logger) *ViewsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewsHandler{views: views, sessions: sessions, poller: poller, logger: logger}
}

func page[T any](fn func(context.Context, *domain.Session) (T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := currentSession(c)
		if err != nil {
			return err
		}
		v, err := fn(c.UserContext(), sess)
		if err != nil {
			return err
		}
		return data(c, v)
	}
}

// Dashboard handles GET /dashboard.
func (h *ViewsHandler) Dashboard(c *fiber.Ctx) error { return page(h.views.Dashboard)(c) }

// Devices handles GET /devices.
func (h *ViewsHandler) Devices(c *fiber.Ctx) error { return page(h.views.Devices)(c) }

// Orders handles GET /orders.
func (h *ViewsHandler) Orders(c *fiber.Ctx) error { return page(h.views.Orders)(c) }

// Inventory handles GET /inventory.
func (h *ViewsHandler) Inventory(c *fiber.Ctx) error { return page(h.views.Inventory)(c) }

// Catalog handles GET /catalog.
func (h *ViewsHandler) Catalog(c *fiber.Ctx) error { return page(h.views.Catalog)(c) }

// Staff handles GET /staff.
func (h *ViewsHandler) Staff(c *fiber.Ctx) error { return page(h.views.Staff)(c) }

// Logs handles GET /logs.
func (h *ViewsHandler) Logs(c *fiber.Ctx) error { return page(h.views.Logs)(c) }

// Plans handles GET /plans.
func (h *ViewsHandler) Plans(c *fiber.Ctx) error { return page(h.views.Plans)(c) }

// Waiters handles GET /waiters.
func (h *ViewsHandler) Waiters(c *fiber.Ctx) error { return page(h.views.Waiters)(c) }

// Cashier handles GET /cashier.
func (h *ViewsHandler) Cashier(c *fiber.Ctx) error { return page(h.views.Cashier)(c) }

// Reports handles GET /reports.
func (h *ViewsHandler) Reports(c *fiber.Ctx) error { return page(h.views.Reports)(c) }

// LicensePlans handles GET /license-plans?cycle=monthly|annual.
func (h *ViewsHandler) LicensePlans(c *fiber.Ctx) error {
	return data(c, h.views.LicensePlans(catalog.ParseBillingCycle(c.Query("cycle"))))
}

// AdminDashboard handles GET /admin-dashboard?role=admin|boss.
func (h *ViewsHandler) AdminDashboard(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var q dto.AdminDashboardQuery
	if err := c.QueryParser(&q); err != nil {
		return err
	}
	if err := validateStruct(&q); err != nil {
		return err
	}
	v, err := h.views.AdminDashboard(c.UserContext(), sess, view.AdminIdentity{
		Role:        q.Role,
		DisplayRole: q.DisplayRole,
		Name:        q.Name,
	})
	if err != nil {
		return err
	}
	return data(c, v)
}

// SetDeviceAuthorization handles POST /devices/:id/authorize.
func (h *ViewsHandler) SetDeviceAuthorization(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.DeviceAuthorizationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	deviceID := c.Params("id")
	if err := h.views.SetDeviceAuthorization(c.UserContext(), sess, deviceID, *req.Authorize); err != nil {
		return err
	}
	v, err := h.views.Devices(c.UserContext(), sess)
	if err != nil {
		return err
	}
	return data(c, v)
}

// CashierStream handles GET /cashier/stream. The cashier view is pushed as
// server-sent events on every poll until the client disconnects.
func (h *ViewsHandler) CashierStream(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	sessionID := sess.ID
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		err := h.StreamCashier(ctx, w, sessionID)
		h.logger.Debug("cashier stream closed", zap.String("session_id", sessionID), zap.Error(err))
	}))
	return nil
}

// StreamCashier writes one cashier event per poll until ctx ends or a write
// fails. The session is looked up on every poll; once it is gone a final
// logout event points the client to the login view and the stream ends.
func (h *ViewsHandler) StreamCashier(ctx context.Context, w *bufio.Writer, sessionID string) error {
	err := h.poller.Run(ctx, func(ctx context.Context) error {
		sess, err := h.sessions.Get(ctx, sessionID)
		if errors.Is(err, session.ErrNotFound) {
			if err := writeEvent(w, "logout", fiber.Map{"redirect": auth.LoginPath}); err != nil {
				return err
			}
			return errSessionClosed
		}
		if err != nil {
			return err
		}
		v, err := h.views.Cashier(ctx, sess)
		if err != nil {
			return err
		}
		return writeEvent(w, "cashier", v)
	})
	if errors.Is(err, errSessionClosed) {
		return nil
	}
	return err
}

func writeEvent(w *bufio.Writer, event string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return w.Flush()
}
