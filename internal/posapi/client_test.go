package posapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithHTTP(srv.URL+"/api", srv.Client(), nil)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestListStaffUsersSendsHeadersAndMapsRoles(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/staff-users", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "biz-9", r.Header.Get(BusinessHeader))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{
				{"id": 1, "name": "Ana", "role": "Cajero", "status": "Active", "pin": "1234"},
				{"id": "u-2", "name": "Luis", "role": " MOZO ", "status": "Inactive"},
				{"id": 3, "name": "Eva", "role": "chef", "status": "Active", "pin": 987},
			},
		})
	})

	accounts, err := client.ListStaffUsers(context.Background(), Credentials{Token: "tok-1", BusinessID: "biz-9"})
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	assert.Equal(t, "1", accounts[0].ID)
	assert.Equal(t, domain.RoleKindCashier, accounts[0].Kind)
	assert.Equal(t, "1234", accounts[0].PIN)
	assert.Equal(t, "u-2", accounts[1].ID)
	assert.Equal(t, domain.RoleKindWaiter, accounts[1].Kind)
	assert.Equal(t, "", accounts[1].PIN)
	assert.Equal(t, domain.RoleKindUnknown, accounts[2].Kind)
	assert.Empty(t, accounts[2].PIN, "numeric pins are not PINs")
}

func TestBusinessScopedCallWithoutBusinessMakesNoRequest(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := client.ListOrders(context.Background(), Credentials{Token: "tok"})
	assert.ErrorIs(t, err, ErrMissingBusiness)

	_, err = client.GetBusiness(context.Background(), Credentials{Token: "tok"})
	assert.ErrorIs(t, err, ErrMissingBusiness)

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"token": "new", "user": map[string]any{"id": 5, "name": "Owner", "email": "o@x.pe"}},
		})
	})

	res, err := client.Login(context.Background(), "o@x.pe", "secret")
	require.NoError(t, err)
	assert.Equal(t, "new", res.Token)
	assert.Equal(t, "5", res.User.ID)
	assert.Nil(t, res.Business)
}

func TestRegisterReturnsBusinessAndLicense(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Mi Restaurante", body["businessName"])
		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"data": map[string]any{
				"token":      "tok",
				"user":       map[string]any{"id": "u1", "name": "Juan"},
				"business":   map[string]any{"id": "b1", "name": "Mi Restaurante"},
				"licenseKey": "UBOX-AAAA",
			},
		})
	})

	res, err := client.Register(context.Background(), RegisterInput{
		Name: "Juan", Email: "j@x.pe", Password: "secret", BusinessName: "Mi Restaurante",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Business)
	assert.Equal(t, "b1", res.Business.ID)
	assert.Equal(t, "UBOX-AAAA", res.LicenseKey)
}

func TestErrorEnvelopeBecomesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"error":   map[string]any{"message": "Credenciales inválidas"},
		})
	})

	_, err := client.Login(context.Background(), "a@b.c", "bad")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Credenciales inválidas", Message(err, "fallback"))
}

func TestSuccessFalseWithOKStatusIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
	})

	_, err := client.ListProducts(context.Background(), Credentials{BusinessID: "b"})
	require.Error(t, err)
	assert.Equal(t, "Error al cargar", Message(err, "Error al cargar"))
}

func TestListDevicesFallsBackToBusinessRoute(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/device/list":
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false})
		case "/api/device/biz-1":
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    []map[string]any{{"id": "d1", "name": "Caja 1", "isAuthorized": true}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	devices, err := client.ListDevices(context.Background(), Credentials{BusinessID: "biz-1"})
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.True(t, devices[0].IsAuthorized)
}

func TestSetDeviceAuthorizationFallsBackToPatch(t *testing.T) {
	var patched bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/device/authorize":
			writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"success": false})
		case r.Method == http.MethodPatch && r.URL.Path == "/api/device/d1/authorize":
			var body map[string]bool
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.False(t, body["authorize"])
			patched = true
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	err := client.SetDeviceAuthorization(context.Background(), Credentials{BusinessID: "b"}, "d1", false)
	require.NoError(t, err)
	assert.True(t, patched)
}

func TestRecoveryDecodesStaff(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{"staffUsers": []map[string]any{
				{"id": 7, "name": "Rosa", "status": "ACTIVE"},
			}},
		})
	})

	snap, err := client.Recovery(context.Background(), Credentials{BusinessID: "b"})
	require.NoError(t, err)
	require.Len(t, snap.StaffUsers, 1)
	assert.Equal(t, "7", snap.StaffUsers[0].ID)
	assert.True(t, snap.StaffUsers[0].Active())
}

func TestFlexIDRejectsObjects(t *testing.T) {
	var id FlexID
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &id))
}

func TestPinCodeAcceptsOnlyStrings(t *testing.T) {
	cases := map[string]string{
		`"0420"`:  "0420",
		`1234`:    "",
		`null`:    "",
		`true`:    "",
		`{"a":1}`: "",
	}
	for raw, want := range cases {
		var pin PinCode
		require.NoError(t, json.Unmarshal([]byte(raw), &pin), raw)
		assert.Equal(t, want, string(pin), raw)
	}
}
