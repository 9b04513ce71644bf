package service

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ubox-pos/cloud-dashboard/internal/catalog"
	"github.com/ubox-pos/cloud-dashboard/internal/domain"
	"github.com/ubox-pos/cloud-dashboard/internal/posapi"
	"github.com/ubox-pos/cloud-dashboard/internal/view"
	apperrors "github.com/ubox-pos/cloud-dashboard/pkg/util/errorutil"
)

// PosGateway is the part of the POS API the dashboard pages read from.
type PosGateway interface {
	StaffSource
	ListOrders(ctx context.Context, creds posapi.Credentials) ([]domain.Order, error)
	OrderStats(ctx context.Context, creds posapi.Credentials) (*domain.OrderStats, error)
	ListProducts(ctx context.Context, creds posapi.Credentials) ([]domain.Product, error)
	ListDevices(ctx context.Context, creds posapi.Credentials) ([]domain.Device, error)
	SetDeviceAuthorization(ctx context.Context, creds posapi.Credentials, deviceID string, authorize bool) error
	GetBusiness(ctx context.Context, creds posapi.Credentials) (*domain.Business, error)
	ListBusinessMembers(ctx context.Context, creds posapi.Credentials) ([]domain.BusinessMember, error)
	ListLicenseLogs(ctx context.Context, creds posapi.Credentials) ([]domain.LicenseLog, error)
	Recovery(ctx context.Context, creds posapi.Credentials) (*posapi.RecoverySnapshot, error)
}

// ViewsService renders one page per call. Every page fetches its own data;
// nothing is cached between requests.
type ViewsService struct {
	pos     PosGateway
	catalog *catalog.Catalog
	loc     *time.Location
	logger  *zap.Logger
	now     func() time.Time
}

// NewViewsService builds the service.
func NewViewsService(pos PosGateway, plans *catalog.Catalog, loc *time.Location, logger *zap.Logger) *ViewsService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewsService{pos: pos, catalog: plans, loc: loc, logger: logger, now: time.Now}
}

func (s *ViewsService) creds(sess *domain.Session) (posapi.Credentials, error) {
	if !sess.HasBusiness() {
		return posapi.Credentials{}, apperrors.NewPreconditionFailed("no se encontró el ID del negocio")
	}
	return posapi.CredentialsFor(sess), nil
}

// fail logs an upstream failure and returns the banner message for the page.
func (s *ViewsService) fail(page string, err error, fallback string) string {
	s.logger.Error("failed to load page data", zap.String("page", page), zap.Error(err))
	return posapi.Message(err, fallback)
}

// Dashboard loads orders and devices in parallel.
func (s *ViewsService) Dashboard(ctx context.Context, sess *domain.Session) (view.DashboardView, error) {
	creds, err := s.creds(sess)
	if err != nil {
		return view.DashboardView{}, err
	}

	var (
		orders  []domain.Order
		devices []domain.Device
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.pos.ListOrders(gctx, creds)
		return err
	})
	g.Go(func() error {
		var err error
		devices, err = s.pos.ListDevices(gctx, creds)
		return err
	})
	if err := g.Wait(); err != nil {
		v := view.Dashboard(nil, nil, s.now(), s.loc)
		v.Failed(s.fail("dashboard", err, "Error al cargar el resumen"))
		return v, nil
	}
	return view.Dashboard(orders, devices, s.now(), s.loc), nil
}

// Devices lists the terminals of the business.
func (s *ViewsService) Devices(ctx context.Context, sess *domain.Session) (view.DevicesView, error) {
	creds, err := s.creds(sess)
	if err != nil {
		return view.DevicesView{}, err
	}
	devices, err := s.pos.ListDevices(ctx, creds)
	if err != nil {
		v := view.Devices(nil)
		v.Failed(s.fail("devices", err, "Error al cargar dispositivos"))
		return v, nil
	}
	return view.Devices(devices), nil
}

// SetDeviceAuthorization grants or revokes a terminal.
func (s *ViewsService) SetDeviceAuthorization(ctx context.Context, sess *domain.Session, deviceID string, authorize bool) error {
	creds, err := s.creds(sess)
	if err != nil {
		return err
	}
	if err := s.pos.SetDeviceAuthorization(ctx, creds, deviceID, authorize); err != nil {
		if posapi.IsStatus(err, http.StatusNotFound) {
			return apperrors.NewNotFound("device", map[string]any{"device_id": deviceID})
		}
		s.logger.Error("failed to update device authorization",
			zap.String("device_id", deviceID),
			zap.Bool("authorize", authorize),
			zap.Error(err))
		return apperrors.NewUpstreamError(posapi.Message(err, "Error al actualizar el dispositivo"), err)
	}
	s.logger.Info("device authorization changed",
		zap.String("business_id", sess.BusinessID),
		zap.String("device_id", deviceID),
		zap.Bool("authorize", authorize))
	return nil
}

// Orders lists orders.
func (s *ViewsService) Orders(ctx context.Context, sess *domain.Session) (view.OrdersView, error) {
	creds, err := s.creds(sess)
	if err != nil {
		return view.OrdersView{}, err
	}
	orders, err := s.pos.ListOrders(ctx, creds)
	if err != nil {
		v := view.Orders(nil)
		v.Failed(s.fail("orders", err, "Error al cargar pedidos"))
		return v, nil
	}
	return view.Orders(orders), nil
}

// Inventory lists products with their stock levels.
func (s *ViewsService) Inventory(ctx context.Context, sess *domain.Session) (view.ProductsView, error) {
	return s.products(ctx, sess, "inventory", false)
}

// Catalog lists products as a read-only catalog.
func (s *ViewsService) Catalog(ctx context.Context, sess *domain.Session) (view.ProductsView, error) {
	return s.products(ctx, sess, "catalog", true)
}

func (s *ViewsService) products(ctx context.Context, sess *domain.Session, page string, readOnly bool) (view.ProductsView, error) {
	creds, err := s.creds(sess)
	if err != nil {
		return view.ProductsView{}, err
	}
	products, err := s.pos.ListProducts(ctx, creds)
	if err != nil {
		v := view.Products(nil, readOnly)
		v.Failed(s.fail(page, err, "Error al cargar productos"))
		return v, nil
	}
	return view.Products(products, readOnly), nil
}

// Staff lists the dashboard users of the business.
func (s *ViewsService) Staff(ctx context.Context, sess *domain.Session) (view.StaffView, error) {
	creds, err := s.creds(sess)
	if err != nil {
		return view.StaffView{}, err
	}
	members, err := s.pos.ListBusinessMembers(ctx, creds)
	if err != nil {
		v := view.Staff(nil)
		v.Failed(s.fail("staff", err, "Error al cargar el equipo"))
		return v, nil
	}
	return view.Staff(members), nil
}

// Logs lists license log entries.
func (s *ViewsService) Logs(ctx context.Context, sess *domain.Session) (view.LogsView, error) {
	creds, err := s.creds(sess)
	if err != nil {
		return view.LogsView{}, err
	}
	logs, err := s.pos.ListLicenseLogs(ctx, creds)
	if err != nil {
		v := view.Logs(nil)
		v.Failed(s.fail("logs", err, "Error al cargar registros"))
		return v, nil
	}
	return view.Logs(logs), nil
}

// Plans compares the business plan with the subscription tiers.
func (s *ViewsService) Plans(ctx context.Context, sess *domain.Session) (view.PlansView, error) {
	creds, err := s.creds(sess)
	if err != nil {
		return view.PlansView{}, err
	}
	business, err := s.pos.GetBusiness(ctx, creds)
	if err != nil {
		v := view.Plans(s.catalog, "")
		v.Failed(s.fail("plans", err, "Error al cargar el plan"))
		return v, nil
	}
	return view.Plans(s.catalog, business.Plan), nil
}

// LicensePlans prices the license offers for a billing cycle.
func (s *ViewsService) LicensePlans(cycle catalog.BillingCycle) view.LicensePlansView {
	return view.LicensePlans(s.catalog, cycle)
}

// Waiters groups orders by waiter.
func (s *ViewsService) Waiters(ctx context.Context, sess *domain.Session) (view.WaitersView, error) {
	creds, err := s.creds(sess)
	if err != nil {
		return view.WaitersView{}, err
	}
	orders, err := s.pos.ListOrders(ctx, creds)
	if err != nil {
		v := view.Waiters(nil)
		v.Failed(s.fail("waiters", err, "Error al cargar pedidos"))
		return v, nil
	}
	return view.Waiters(orders), nil
}

// Cashier loads orders and the recovery snapshot in parallel.
func (s *ViewsService) Cashier(ctx context.Context, sess *domain.Session) (view.CashierView, error) {
	creds, err := s.creds(sess)
	if err != nil {
		return view.CashierView{}, err
	}

	var (
		orders   []domain.Order
		recovery *posapi.RecoverySnapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.pos.ListOrders(gctx, creds)
		return err
	})
	g.Go(func() error {
		var err error
		recovery, err = s.pos.Recovery(gctx, creds)
		return err
	})
	if err := g.Wait(); err != nil {
		v := view.Cashier(nil, nil, s.now())
		v.Failed(s.fail("cashier", err, "Error al cargar la caja"))
		return v, nil
	}
	return view.Cashier(orders, recovery.StaffUsers, s.now()), nil
}

// Reports sums sales per weekday in the configured time zone.
func (s *ViewsService) Reports(ctx context.Context, sess *domain.Session) (view.ReportsView, error) {
	creds, err := s.creds(sess)
	if err != nil {
		return view.ReportsView{}, err
	}
	orders, err := s.pos.ListOrders(ctx, creds)
	if err != nil {
		v := view.Reports(nil, s.loc)
		v.Failed(s.fail("reports", err, "Error al cargar reportes"))
		return v, nil
	}
	return view.Reports(orders, s.loc), nil
}

// AdminDashboard loads staff and order stats in parallel for the management menu.
func (s *ViewsService) AdminDashboard(ctx context.Context, sess *domain.Session, who view.AdminIdentity) (view.AdminDashboardView, error) {
	creds, err := s.creds(sess)
	if err != nil {
		return view.AdminDashboardView{}, err
	}

	var (
		staff []domain.StaffAccount
		stats *domain.OrderStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		staff, err = s.pos.ListStaffUsers(gctx, creds)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.pos.OrderStats(gctx, creds)
		return err
	})
	if err := g.Wait(); err != nil {
		v := view.AdminDashboard(who, 0, domain.OrderStats{}, s.now(), s.loc)
		v.Failed(s.fail("admin-dashboard", err, "Error al cargar el panel"))
		return v, nil
	}
	return view.AdminDashboard(who, len(staff), *stats, s.now(), s.loc), nil
}
