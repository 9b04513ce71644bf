package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ubox-pos/cloud-dashboard/internal/catalog"
	"github.com/ubox-pos/cloud-dashboard/internal/domain"
	"github.com/ubox-pos/cloud-dashboard/internal/posapi"
	"github.com/ubox-pos/cloud-dashboard/internal/view"
	apperrors "github.com/ubox-pos/cloud-dashboard/pkg/util/errorutil"
)

type fakePos struct {
	fakeStaffSource
	orders     []domain.Order
	ordersErr  error
	stats      *domain.OrderStats
	products   []domain.Product
	devices    []domain.Device
	toggleErr  error
	toggled    map[string]bool
	business   *domain.Business
	members    []domain.BusinessMember
	logs       []domain.LicenseLog
	recovery   *posapi.RecoverySnapshot
	recoverErr error
}

func (f *fakePos) ListOrders(context.Context, posapi.Credentials) ([]domain.Order, error) {
	return f.orders, f.ordersErr
}

func (f *fakePos) OrderStats(context.Context, posapi.Credentials) (*domain.OrderStats, error) {
	if f.stats == nil {
		return &domain.OrderStats{}, nil
	}
	return f.stats, nil
}

func (f *fakePos) ListProducts(context.Context, posapi.Credentials) ([]domain.Product, error) {
	return f.products, nil
}

func (f *fakePos) ListDevices(context.Context, posapi.Credentials) ([]domain.Device, error) {
	return f.devices, nil
}

func (f *fakePos) SetDeviceAuthorization(_ context.Context, _ posapi.Credentials, id string, authorize bool) error {
	if f.toggleErr != nil {
		return f.toggleErr
	}
	if f.toggled == nil {
		f.toggled = map[string]bool{}
	}
	f.toggled[id] = authorize
	return nil
}

func (f *fakePos) GetBusiness(context.Context, posapi.Credentials) (*domain.Business, error) {
	if f.business == nil {
		return nil, &posapi.APIError{Status: http.StatusNotFound}
	}
	return f.business, nil
}

func (f *fakePos) ListBusinessMembers(context.Context, posapi.Credentials) ([]domain.BusinessMember, error) {
	return f.members, nil
}

func (f *fakePos) ListLicenseLogs(context.Context, posapi.Credentials) ([]domain.LicenseLog, error) {
	return f.logs, nil
}

func (f *fakePos) Recovery(context.Context, posapi.Credentials) (*posapi.RecoverySnapshot, error) {
	if f.recoverErr != nil {
		return nil, f.recoverErr
	}
	if f.recovery == nil {
		return &posapi.RecoverySnapshot{}, nil
	}
	return f.recovery, nil
}

var boundSession = &domain.Session{ID: "s1", Token: "tok", BusinessID: "b1"}

func newViews(t *testing.T, pos *fakePos) *ViewsService {
	t.Helper()
	plans, err := catalog.Default()
	require.NoError(t, err)
	lima := time.FixedZone("America/Lima", -5*60*60)
	return NewViewsService(pos, plans, lima, zap.NewNop())
}

func TestViewsRequireBusiness(t *testing.T) {
	svc := newViews(t, &fakePos{})
	_, err := svc.Orders(context.Background(), &domain.Session{Token: "tok"})
	require.Error(t, err)
	assert.Equal(t, "PRECONDITION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestUpstreamFailureBecomesBanner(t *testing.T) {
	pos := &fakePos{ordersErr: &posapi.APIError{Status: http.StatusInternalServerError, Message: "db down"}}
	svc := newViews(t, pos)

	v, err := svc.Orders(context.Background(), boundSession)
	require.NoError(t, err)
	assert.Equal(t, "db down", v.Error)
	assert.Empty(t, v.Orders)

	w, err := svc.Waiters(context.Background(), boundSession)
	require.NoError(t, err)
	assert.NotEmpty(t, w.Error)
	assert.Empty(t, w.Groups)
}

func TestCashierFansOutAndDerives(t *testing.T) {
	pos := &fakePos{
		orders: []domain.Order{
			{ID: "o1", Status: "PENDING", TotalAmount: decimal.NewFromInt(50), PaidAmount: decimal.NewFromInt(20)},
			{ID: "o2", Status: "COMPLETED", Payments: []domain.Payment{{ID: "p1", Amount: decimal.NewFromInt(10)}}},
		},
		recovery: &posapi.RecoverySnapshot{StaffUsers: []domain.RecoveryStaff{
			{ID: "1", Name: "Ana", Status: "ACTIVE"},
			{ID: "2", Name: "Luis", Status: "Inactive"},
		}},
	}
	svc := newViews(t, pos)

	v, err := svc.Cashier(context.Background(), boundSession)
	require.NoError(t, err)
	assert.Empty(t, v.Error)
	assert.Equal(t, 1, v.PendingCount)
	assert.True(t, decimal.NewFromInt(30).Equal(v.Pending[0].Balance))
	assert.Len(t, v.RecentPayments, 1)
	assert.Len(t, v.ActiveStaff, 1)
}

func TestCashierRecoveryFailure(t *testing.T) {
	pos := &fakePos{
		orders:     []domain.Order{{ID: "o1", Status: "PENDING"}},
		recoverErr: errors.New("timeout"),
	}
	svc := newViews(t, pos)

	v, err := svc.Cashier(context.Background(), boundSession)
	require.NoError(t, err)
	assert.Equal(t, "Error al cargar la caja", v.Error)
	assert.Empty(t, v.Pending)
}

func TestDeviceToggle(t *testing.T) {
	pos := &fakePos{}
	svc := newViews(t, pos)

	require.NoError(t, svc.SetDeviceAuthorization(context.Background(), boundSession, "d1", true))
	assert.True(t, pos.toggled["d1"])

	pos.toggleErr = &posapi.APIError{Status: http.StatusNotFound}
	err := svc.SetDeviceAuthorization(context.Background(), boundSession, "zz", false)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)

	pos.toggleErr = &posapi.APIError{Status: http.StatusInternalServerError, Message: "fallo"}
	err = svc.SetDeviceAuthorization(context.Background(), boundSession, "d1", false)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, "UPSTREAM_ERROR", de.Code)
	assert.Equal(t, "fallo", de.Message)
}

func TestPlansMarksCurrentTier(t *testing.T) {
	svc := newViews(t, &fakePos{business: &domain.Business{ID: "b1", Plan: "BASIC"}})

	v, err := svc.Plans(context.Background(), boundSession)
	require.NoError(t, err)
	require.Len(t, v.Plans, 3)
	assert.False(t, v.Plans[0].Current)
	assert.True(t, v.Plans[1].Current)
	assert.Equal(t, "Plan Actual", v.Plans[1].ActionLabel)
	assert.Equal(t, "No Disponible en Web", v.Plans[2].ActionLabel)
}

func TestReportsUseConfiguredZone(t *testing.T) {
	// 03:00 UTC on a Tuesday is still Monday in Lima.
	pos := &fakePos{orders: []domain.Order{
		{ID: "o1", Total: decimal.NewFromInt(10), CreatedAt: time.Date(2024, 5, 7, 3, 0, 0, 0, time.UTC)},
		{ID: "o2", Total: decimal.NewFromInt(5), CreatedAt: time.Date(2024, 5, 7, 18, 0, 0, 0, time.UTC)},
	}}
	svc := newViews(t, pos)

	v, err := svc.Reports(context.Background(), boundSession)
	require.NoError(t, err)
	require.Len(t, v.Sales, 2)
	assert.Equal(t, "lun", v.Sales[0].Name)
	assert.Equal(t, "mar", v.Sales[1].Name)
}

func TestAdminDashboardCounts(t *testing.T) {
	pos := &fakePos{stats: &domain.OrderStats{TotalOrders: 42}}
	pos.accounts = []domain.StaffAccount{staff("1", "Ana", "Cajero", "Active", "1")}
	svc := newViews(t, pos)

	v, err := svc.AdminDashboard(context.Background(), boundSession, view.AdminIdentity{Role: "admin", Name: "ADMIN"})
	require.NoError(t, err)
	require.Len(t, v.Menu, 6)
	assert.Equal(t, 1, *v.Menu[0].Count)
	assert.Equal(t, 42, *v.Menu[4].Count)
}

func TestLicensePlansAnnual(t *testing.T) {
	svc := newViews(t, &fakePos{})
	v := svc.LicensePlans(catalog.CycleAnnual)
	require.Len(t, v.Plans, 4)
	assert.Equal(t, "año", v.Plans[0].Duration)
}
