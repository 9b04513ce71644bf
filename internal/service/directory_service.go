package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
	"github.com/ubox-pos/cloud-dashboard/internal/posapi"
	apperrors "github.com/ubox-pos/cloud-dashboard/pkg/util/errorutil"
)

// StaffSource lists the staff accounts of a business.
type StaffSource interface {
	ListStaffUsers(ctx context.Context, creds posapi.Credentials) ([]domain.StaffAccount, error)
}

// Directory holds the four disjoint working sets of active staff.
type Directory struct {
	Waiters    []domain.StaffAccount
	Cashiers   []domain.StaffAccount
	Barmen     []domain.StaffAccount
	Management []domain.StaffAccount
}

// For returns the working set of a panel category.
func (d Directory) For(c domain.PanelCategory) []domain.StaffAccount {
	switch c {
	case domain.PanelWaiter:
		return d.Waiters
	case domain.PanelCashier:
		return d.Cashiers
	case domain.PanelBarman:
		return d.Barmen
	case domain.PanelManagement:
		return d.Management
	default:
		return nil
	}
}

// Partition keeps active accounts and files each under its role kind.
func Partition(accounts []domain.StaffAccount) Directory {
	d := Directory{
		Waiters:    []domain.StaffAccount{},
		Cashiers:   []domain.StaffAccount{},
		Barmen:     []domain.StaffAccount{},
		Management: []domain.StaffAccount{},
	}
	for _, a := range accounts {
		if !a.Active() {
			continue
		}
		switch a.Kind {
		case domain.RoleKindWaiter:
			d.Waiters = append(d.Waiters, a)
		case domain.RoleKindCashier:
			d.Cashiers = append(d.Cashiers, a)
		case domain.RoleKindBarman:
			d.Barmen = append(d.Barmen, a)
		case domain.RoleKindManagement:
			d.Management = append(d.Management, a)
		}
	}
	return d
}

// DirectoryService fetches the staff of the session's business.
type DirectoryService struct {
	source StaffSource
	logger *zap.Logger
}

// NewDirectoryService builds the service.
func NewDirectoryService(source StaffSource, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{source: source, logger: logger}
}

// Load fetches and partitions the staff. No call is made without a business id.
func (s *DirectoryService) Load(ctx context.Context, sess *domain.Session) (Directory, error) {
	if !sess.HasBusiness() {
		return Directory{}, apperrors.NewPreconditionFailed("no se encontró el ID del negocio")
	}
	accounts, err := s.source.ListStaffUsers(ctx, posapi.CredentialsFor(sess))
	if err != nil {
		if errors.Is(err, posapi.ErrMissingBusiness) {
			return Directory{}, apperrors.NewPreconditionFailed(err.Error())
		}
		s.logger.Error("failed to fetch staff users", zap.String("business_id", sess.BusinessID), zap.Error(err))
		return Directory{}, apperrors.NewUpstreamError("Error al cargar usuarios", err)
	}

	unknown := 0
	for _, a := range accounts {
		if a.Kind == domain.RoleKindUnknown {
			unknown++
		}
	}
	if unknown > 0 {
		s.logger.Debug("staff accounts with unroutable roles", zap.Int("count", unknown))
	}
	return Partition(accounts), nil
}
