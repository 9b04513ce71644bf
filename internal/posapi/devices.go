package posapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
)

// ListDevices handles GET /device/list, falling back to GET /device/{businessId}
// on backends that predate the list route.
func (c *Client) ListDevices(ctx context.Context, creds Credentials) ([]domain.Device, error) {
	var devices []domain.Device
	err := c.do(ctx, request{
		method:        http.MethodGet,
		path:          "/device/list",
		creds:         creds,
		needsBusiness: true,
	}, &devices)
	if err == nil {
		return devices, nil
	}
	if !IsStatus(err, http.StatusNotFound, http.StatusMethodNotAllowed) {
		return nil, err
	}

	devices = nil
	err = c.do(ctx, request{
		method:        http.MethodGet,
		path:          "/device/" + pathEscape(creds.BusinessID),
		creds:         creds,
		needsBusiness: true,
	}, &devices)
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// SetDeviceAuthorization handles POST /device/authorize, falling back to
// PATCH /device/{id}/authorize.
func (c *Client) SetDeviceAuthorization(ctx context.Context, creds Credentials, deviceID string, authorize bool) error {
	err := c.do(ctx, request{
		method:        http.MethodPost,
		path:          "/device/authorize",
		creds:         creds,
		needsBusiness: true,
		body: map[string]any{
			"deviceId":  deviceID,
			"authorize": authorize,
		},
	}, nil)
	if err == nil || !IsStatus(err, http.StatusNotFound, http.StatusMethodNotAllowed) {
		return err
	}

	return c.do(ctx, request{
		method:        http.MethodPatch,
		path:          "/device/" + pathEscape(deviceID) + "/authorize",
		creds:         creds,
		needsBusiness: true,
		body:          map[string]any{"authorize": authorize},
	}, nil)
}

func pathEscape(s string) string {
	return url.PathEscape(s)
}
