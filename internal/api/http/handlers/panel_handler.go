package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/ubox-pos/cloud-dashboard/internal/api/dto"
	"github.com/ubox-pos/cloud-dashboard/internal/domain"
	"github.com/ubox-pos/cloud-dashboard/internal/service"
	apperrors "github.com/ubox-pos/cloud-dashboard/pkg/util/errorutil"
)

// PanelHandler exposes the role panel PIN dialogs.
type PanelHandler struct {
	router *service.RoleRouter
	audit  *service.AuditService
}

// NewPanelHandler constructs handler.
func NewPanelHandler(router *service.RoleRouter, audit *service.AuditService) *PanelHandler {
	return &PanelHandler{router: router, audit: audit}
}

// Get handles GET /panel. ?refresh=true reloads the staff directory.
func (h *PanelHandler) Get(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var panel *domain.PanelState
	if c.QueryBool("refresh") {
		panel, err = h.router.Load(c.UserContext(), sess)
	} else {
		panel, err = h.router.Panel(c.UserContext(), sess)
	}
	if err != nil {
		return err
	}
	return data(c, dto.NewPanelResponse(panel))
}

// Open handles POST /panel/:category/open.
func (h *PanelHandler) Open(c *fiber.Ctx) error {
	return h.gate(c, h.router.Open)
}

// Close handles POST /panel/:category/close.
func (h *PanelHandler) Close(c *fiber.Ctx) error {
	return h.gate(c, h.router.Close)
}

// Clear handles POST /panel/:category/clear.
func (h *PanelHandler) Clear(c *fiber.Ctx) error {
	return h.gate(c, h.router.Clear)
}

// Backspace handles POST /panel/:category/backspace.
func (h *PanelHandler) Backspace(c *fiber.Ctx) error {
	return h.gate(c, h.router.Backspace)
}

// Select handles POST /panel/:category/select.
func (h *PanelHandler) Select(c *fiber.Ctx) error {
	var req dto.SelectAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.gateWithArg(c, h.router.Select, req.AccountID)
}

// Press handles POST /panel/:category/press.
func (h *PanelHandler) Press(c *fiber.Ctx) error {
	var req dto.PressKeyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.gateWithArg(c, h.router.Press, req.Key)
}

// Attempts handles GET /panel/attempts.
func (h *PanelHandler) Attempts(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	attempts, err := h.audit.RecentAttempts(c.UserContext(), sess.BusinessID, c.QueryInt("limit", 50))
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return data(c, attempts)
}

type gateOp = func(ctx context.Context, sess *domain.Session, category domain.PanelCategory) (*service.GateResult, error)

type gateArgOp = func(ctx context.Context, sess *domain.Session, category domain.PanelCategory, arg string) (*service.GateResult, error)

func (h *PanelHandler) gate(c *fiber.Ctx, op gateOp) error {
	return h.gateWithArg(c, func(ctx context.Context, sess *domain.Session, category domain.PanelCategory, _ string) (*service.GateResult, error) {
		return op(ctx, sess, category)
	}, "")
}

func (h *PanelHandler) gateWithArg(c *fiber.Ctx, op gateArgOp, arg string) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	category, ok := domain.ParsePanelCategory(c.Params("category"))
	if !ok {
		return apperrors.NewNotFound("panel category", map[string]any{"category": c.Params("category")})
	}
	res, err := op(c.UserContext(), sess, category, arg)
	if err != nil {
		return err
	}
	return data(c, dto.NewGateResponse(res))
}
