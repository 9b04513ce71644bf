package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ubox-pos/cloud-dashboard/internal/api/http/handlers"
	"github.com/ubox-pos/cloud-dashboard/internal/auth"
	"github.com/ubox-pos/cloud-dashboard/internal/catalog"
	"github.com/ubox-pos/cloud-dashboard/internal/domain"
	"github.com/ubox-pos/cloud-dashboard/internal/events"
	"github.com/ubox-pos/cloud-dashboard/internal/observability"
	"github.com/ubox-pos/cloud-dashboard/internal/posapi"
	"github.com/ubox-pos/cloud-dashboard/internal/service"
	"github.com/ubox-pos/cloud-dashboard/internal/session"
	"github.com/ubox-pos/cloud-dashboard/internal/worker"
)

const cookieName = "ubox_session"

// fakeBackend serves the subset of the POS API used by these tests.
func fakeBackend(t *testing.T, businessID string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	reply := func(w http.ResponseWriter, status int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "secret" {
			reply(w, http.StatusUnauthorized, map[string]any{"success": false, "error": map[string]string{"message": "Credenciales inválidas"}})
			return
		}
		user := map[string]any{"id": 7, "name": "Dueño", "email": in["email"]}
		if businessID != "" {
			user["businessId"] = businessID
		}
		reply(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"token": "upstream", "user": user}})
	})
	mux.HandleFunc("/api/staff-users", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer upstream" || r.Header.Get(posapi.BusinessHeader) != businessID {
			reply(w, http.StatusUnauthorized, map[string]any{"success": false})
			return
		}
		reply(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{
			{"id": 1, "name": "Ana", "role": "Cajero", "status": "Active", "pin": "1234"},
			{"id": 2, "name": "ADMIN", "role": "Administrador", "status": "Active", "pin": 9999},
		}})
	})
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{
			{"id": "o1", "status": "PENDING", "total": "12.50", "totalAmount": "12.50", "paidAmount": "2.50", "createdAt": "2024-05-06T15:00:00Z"},
		}})
	})
	mux.HandleFunc("/api/recovery", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"staffUsers": []any{}}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type testApp struct {
	app      *fiber.App
	viewsSvc *service.ViewsService
	sessions *session.Manager
}

func newTestApp(t *testing.T, backendURL string) *testApp {
	t.Helper()
	logger := zap.NewNop()
	client := posapi.NewClientWithHTTP(backendURL+"/api", &http.Client{Timeout: 5 * time.Second}, logger)
	sessions := session.NewManager(session.NewMemoryStore(), time.Hour, logger)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	dispatcher := events.NewInMemoryDispatcher(logger)
	plans, err := catalog.Default()
	require.NoError(t, err)

	authSvc := service.NewAuthService(client, sessions, tokens, dispatcher, logger)
	router := service.NewRoleRouter(service.NewDirectoryService(client, logger), sessions, nil, dispatcher, bcrypt.MinCost, logger)
	audit := service.NewAuditService(dispatcher, nil, logger)
	audit.RegisterHandlers()
	viewsSvc := service.NewViewsService(client, plans, time.UTC, logger)
	middleware := auth.NewSessionMiddleware(tokens, sessions, cookieName)
	views := handlers.NewViewsHandler(viewsSvc, sessions, worker.NewPoller(time.Hour, logger), logger)

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:   handlers.NewHealthHandler("dashboard", "test", nil, nil),
		Auth:     handlers.NewAuthHandler(authSvc, middleware, handlers.CookieConfig{Name: cookieName}),
		Views:    views,
		Panel:    handlers.NewPanelHandler(router, audit),
		Sessions: middleware,
	})
	return &testApp{app: app, viewsSvc: viewsSvc, sessions: sessions}
}

func (a *testApp) do(t *testing.T, method, path, cookie string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookie})
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (a *testApp) login(t *testing.T) string {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "owner@ubox.pe", "password": "secret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			return c.Value
		}
	}
	t.Fatal("session cookie not set")
	return ""
}

func decodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func decodeError(t *testing.T, resp *http.Response) (code, message string) {
	t.Helper()
	defer resp.Body.Close()
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env.Error.Code, env.Error.Message
}

type gateBody struct {
	Phase             string `json:"phase"`
	SelectedAccountID string `json:"selected_account_id"`
	DigitCount        int    `json:"digit_count"`
	Error             string `json:"error"`
	Target            *struct {
		URL string `json:"url"`
	} `json:"target"`
}

func TestProtectedRouteRedirectsToLogin(t *testing.T) {
	a := newTestApp(t, fakeBackend(t, "b1").URL)

	resp := a.do(t, http.MethodGet, "/dashboard", "", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp = a.do(t, http.MethodGet, "/dashboard", "not-a-token", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestLoginSessionLogoutCycle(t *testing.T) {
	a := newTestApp(t, fakeBackend(t, "b1").URL)
	cookie := a.login(t)

	resp := a.do(t, http.MethodGet, "/session", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sess struct {
		BusinessID  string `json:"business_id"`
		DisplayName string `json:"display_name"`
	}
	decodeData(t, resp, &sess)
	assert.Equal(t, "b1", sess.BusinessID)
	assert.Equal(t, "Dueño", sess.DisplayName)

	resp = a.do(t, http.MethodGet, "/login", cookie, nil)
	var loginView struct {
		Authenticated bool   `json:"authenticated"`
		Redirect      string `json:"redirect"`
	}
	decodeData(t, resp, &loginView)
	assert.True(t, loginView.Authenticated)
	assert.Equal(t, "/dashboard", loginView.Redirect)

	resp = a.do(t, http.MethodPost, "/auth/logout", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/orders", cookie, nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLoginFailures(t *testing.T) {
	a := newTestApp(t, fakeBackend(t, "b1").URL)

	resp := a.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "owner@ubox.pe", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	code, msg := decodeError(t, resp)
	assert.Equal(t, "UNAUTHORIZED", code)
	assert.Equal(t, "Credenciales inválidas", msg)

	resp = a.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "nope", "password": "secret"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	code, _ = decodeError(t, resp)
	assert.Equal(t, "VALIDATION_FAILED", code)
}

func TestPagesRequireBusiness(t *testing.T) {
	a := newTestApp(t, fakeBackend(t, "").URL)
	cookie := a.login(t)

	resp := a.do(t, http.MethodGet, "/orders", cookie, nil)
	assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
	code, _ := decodeError(t, resp)
	assert.Equal(t, "PRECONDITION_FAILED", code)

	resp = a.do(t, http.MethodGet, "/license-plans?cycle=annual", cookie, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCashierPINGrantsNavigation(t *testing.T) {
	a := newTestApp(t, fakeBackend(t, "b1").URL)
	cookie := a.login(t)

	resp := a.do(t, http.MethodPost, "/panel/cashier/open", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = a.do(t, http.MethodPost, "/panel/cashier/select", cookie, map[string]string{"account_id": "1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var gate gateBody
	for _, d := range "1234" {
		resp = a.do(t, http.MethodPost, "/panel/cashier/press", cookie, map[string]string{"key": string(d)})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		gate = gateBody{}
		decodeData(t, resp, &gate)
	}
	require.NotNil(t, gate.Target)
	assert.Equal(t, "/cashier?role=cajero&name=Ana&id=1", gate.Target.URL)
	assert.Empty(t, gate.Error)
}

func TestCashierWrongPINShowsError(t *testing.T) {
	a := newTestApp(t, fakeBackend(t, "b1").URL)
	cookie := a.login(t)

	a.do(t, http.MethodPost, "/panel/cashier/open", cookie, nil)
	a.do(t, http.MethodPost, "/panel/cashier/select", cookie, map[string]string{"account_id": "1"})

	var gate gateBody
	for _, d := range "0000" {
		resp := a.do(t, http.MethodPost, "/panel/cashier/press", cookie, map[string]string{"key": string(d)})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		gate = gateBody{}
		decodeData(t, resp, &gate)
	}
	assert.Nil(t, gate.Target)
	assert.Equal(t, "PIN incorrecto. Inténtalo de nuevo.", gate.Error)
	assert.Zero(t, gate.DigitCount)
}

func TestNumericUpstreamPINNeverGrants(t *testing.T) {
	a := newTestApp(t, fakeBackend(t, "b1").URL)
	cookie := a.login(t)

	resp := a.do(t, http.MethodPost, "/panel/management/open", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var gate gateBody
	for _, d := range "9999" {
		resp = a.do(t, http.MethodPost, "/panel/management/press", cookie, map[string]string{"key": string(d)})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		gate = gateBody{}
		decodeData(t, resp, &gate)
	}
	assert.Nil(t, gate.Target)
	assert.Equal(t, "2", gate.SelectedAccountID)
	assert.Equal(t, "PIN incorrecto", gate.Error)
}

func TestPanelListsGatesWithoutPINs(t *testing.T) {
	a := newTestApp(t, fakeBackend(t, "b1").URL)
	cookie := a.login(t)

	resp := a.do(t, http.MethodGet, "/panel", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "1234")
	assert.NotContains(t, string(raw), "pin_hash")
	assert.Contains(t, string(raw), `"selected_account_id":"2"`)

	resp = a.do(t, http.MethodPost, "/panel/kitchen/open", cookie, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/panel/cashier/press", cookie, map[string]string{"key": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// closingWriter accepts one flush and then behaves like a disconnected client.
type closingWriter struct {
	bytes.Buffer
	writes  int
	onWrite func(n int)
}

func (w *closingWriter) Write(p []byte) (int, error) {
	w.writes++
	n, _ := w.Buffer.Write(p)
	if w.onWrite != nil {
		w.onWrite(w.writes)
		return n, nil
	}
	if w.writes > 1 {
		return n, io.ErrClosedPipe
	}
	return n, nil
}

func (a *testApp) streamingViews() *handlers.ViewsHandler {
	return handlers.NewViewsHandler(a.viewsSvc, a.sessions, worker.NewPoller(time.Millisecond, nil), nil)
}

func (a *testApp) newSession(t *testing.T) *domain.Session {
	t.Helper()
	sess, err := a.sessions.Login(context.Background(), session.LoginData{Token: "upstream", BusinessID: "b1"})
	require.NoError(t, err)
	return sess
}

func TestCashierStreamWritesEventsUntilClientLeaves(t *testing.T) {
	a := newTestApp(t, fakeBackend(t, "b1").URL)
	sess := a.newSession(t)

	sink := &closingWriter{}
	err := a.streamingViews().StreamCashier(context.Background(), bufio.NewWriter(sink), sess.ID)
	assert.ErrorIs(t, err, io.ErrClosedPipe)

	out := sink.String()
	assert.True(t, strings.HasPrefix(out, "event: cashier\ndata: {"))
	assert.Contains(t, out, `"pending_count":1`)
	assert.Equal(t, 2, strings.Count(out, "event: cashier"))
}

func TestCashierStreamEndsAfterLogout(t *testing.T) {
	a := newTestApp(t, fakeBackend(t, "b1").URL)
	sess := a.newSession(t)

	sink := &closingWriter{}
	sink.onWrite = func(n int) {
		if n == 1 {
			require.NoError(t, a.sessions.Logout(context.Background(), sess.ID))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := a.streamingViews().StreamCashier(ctx, bufio.NewWriter(sink), sess.ID)
	require.NoError(t, err)

	out := sink.String()
	assert.Equal(t, 1, strings.Count(out, "event: cashier"))
	assert.True(t, strings.HasSuffix(out, "event: logout\ndata: {\"redirect\":\"/login\"}\n\n"))
}

func TestCashierStreamWithUnknownSessionOnlySendsLogout(t *testing.T) {
	a := newTestApp(t, fakeBackend(t, "b1").URL)

	sink := &closingWriter{}
	err := a.streamingViews().StreamCashier(context.Background(), bufio.NewWriter(sink), "gone")
	require.NoError(t, err)
	assert.Equal(t, "event: logout\ndata: {\"redirect\":\"/login\"}\n\n", sink.String())
}

func TestHealthLive(t *testing.T) {
	a := newTestApp(t, fakeBackend(t, "b1").URL)
	resp := a.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
