package posapi

import (
	"context"
	"net/http"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
)

// AuthResult is the outcome of a successful login or registration.
type AuthResult struct {
	Token      string
	User       domain.UserInfo
	Business   *domain.Business
	LicenseKey string
}

// RegisterInput is the payload for owner registration.
type RegisterInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"businessName,omitempty"`
}

type authUser struct {
	ID         FlexID `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	BusinessID FlexID `json:"businessId"`
}

type authBusiness struct {
	ID   FlexID `json:"id"`
	Name string `json:"name"`
	Plan string `json:"plan"`
}

type authData struct {
	Token      string        `json:"token"`
	User       authUser      `json:"user"`
	Business   *authBusiness `json:"business"`
	LicenseKey string        `json:"licenseKey"`
}

func (d authData) result() *AuthResult {
	res := &AuthResult{
		Token: d.Token,
		User: domain.UserInfo{
			ID:    d.User.ID.String(),
			Name:  d.User.Name,
			Email: d.User.Email,
		},
		LicenseKey: d.LicenseKey,
	}
	switch {
	case d.Business != nil && d.Business.ID != "":
		res.Business = &domain.Business{ID: d.Business.ID.String(), Name: d.Business.Name, Plan: d.Business.Plan}
	case d.User.BusinessID != "":
		res.Business = &domain.Business{ID: d.User.BusinessID.String()}
	}
	return res
}

// Login handles POST /auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var data authData
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.result(), nil
}

// Register handles POST /auth/register. The backend creates the business and its license.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	var data authData
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   in,
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.result(), nil
}
