package posapi

import (
	"context"
	"net/http"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
)

// GetBusiness handles GET /business/{id}.
func (c *Client) GetBusiness(ctx context.Context, creds Credentials) (*domain.Business, error) {
	if creds.BusinessID == "" {
		return nil, ErrMissingBusiness
	}
	var data authBusiness
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/business/" + pathEscape(creds.BusinessID),
		creds:  creds,
	}, &data)
	if err != nil {
		return nil, err
	}
	return &domain.Business{ID: data.ID.String(), Name: data.Name, Plan: data.Plan}, nil
}

// ListLicenseLogs handles GET /license/logs.
func (c *Client) ListLicenseLogs(ctx context.Context, creds Credentials) ([]domain.LicenseLog, error) {
	var logs []domain.LicenseLog
	err := c.do(ctx, request{
		method:        http.MethodGet,
		path:          "/license/logs",
		creds:         creds,
		needsBusiness: true,
	}, &logs)
	if err != nil {
		return nil, err
	}
	return logs, nil
}
