// Package posapi is the gateway to the remote POS REST API.
package posapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ubox-pos/cloud-dashboard/internal/config"
	"github.com/ubox-pos/cloud-dashboard/internal/domain"
)

// BusinessHeader carries the tenant on business scoped endpoints.
const BusinessHeader = "x-business-id"

// ErrMissingBusiness is returned before any call when a business scoped
// endpoint is requested without a business id.
var ErrMissingBusiness = errors.New("no se encontró el ID del negocio")

// Credentials is what the gateway needs from a dashboard session.
type Credentials struct {
	Token      string
	BusinessID string
}

// CredentialsFor extracts credentials from a session. A nil session yields anonymous credentials.
func CredentialsFor(sess *domain.Session) Credentials {
	if sess == nil {
		return Credentials{}
	}
	return Credentials{Token: sess.Token, BusinessID: sess.BusinessID}
}

// Client talks to the POS backend with a fixed base URL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a client from configuration.
func NewClient(cfg config.PosAPIConfig, logger *zap.Logger) *Client {
	return NewClientWithHTTP(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout()}, logger)
}

// NewClientWithHTTP builds a client around an existing http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type request struct {
	method        string
	path          string
	creds         Credentials
	needsBusiness bool
	body          any
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	if req.needsBusiness && req.creds.BusinessID == "" {
		return ErrMissingBusiness
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.creds.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.creds.Token)
	}
	if req.needsBusiness {
		httpReq.Header.Set(BusinessHeader, req.creds.BusinessID)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("pos api unreachable",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", req.method, req.path, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || decodeErr != nil || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode, Method: req.method, Path: req.path}
		if decodeErr == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		c.logger.Debug("pos api request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}
