package posapi

import (
	"context"
	"net/http"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
)

type staffUser struct {
	ID     FlexID  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Role   string  `json:"role"`
	Status string  `json:"status"`
	PIN    PinCode `json:"pin"`
}

// ListStaffUsers handles GET /staff-users. Raw roles are resolved to role kinds here.
func (c *Client) ListStaffUsers(ctx context.Context, creds Credentials) ([]domain.StaffAccount, error) {
	var users []staffUser
	err := c.do(ctx, request{
		method:        http.MethodGet,
		path:          "/staff-users",
		creds:         creds,
		needsBusiness: true,
	}, &users)
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.StaffAccount, 0, len(users))
	for _, u := range users {
		accounts = append(accounts, domain.StaffAccount{
			ID:     u.ID.String(),
			Name:   u.Name,
			Role:   u.Role,
			Kind:   domain.ParseRoleKind(u.Role),
			Status: u.Status,
			PIN:    string(u.PIN),
		})
	}
	return accounts, nil
}

type businessMember struct {
	User struct {
		ID    FlexID `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	Role string `json:"role"`
}

// ListBusinessMembers handles GET /business/{id}/users.
func (c *Client) ListBusinessMembers(ctx context.Context, creds Credentials) ([]domain.BusinessMember, error) {
	if creds.BusinessID == "" {
		return nil, ErrMissingBusiness
	}
	var members []businessMember
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/business/" + pathEscape(creds.BusinessID) + "/users",
		creds:  creds,
	}, &members)
	if err != nil {
		return nil, err
	}

	out := make([]domain.BusinessMember, 0, len(members))
	for _, m := range members {
		out = append(out, domain.BusinessMember{
			User: domain.UserInfo{ID: m.User.ID.String(), Name: m.User.Name, Email: m.User.Email},
			Role: m.Role,
		})
	}
	return out, nil
}

// RecoverySnapshot is the subset of GET /recovery the dashboard uses.
type RecoverySnapshot struct {
	StaffUsers []domain.RecoveryStaff
}

type recoveryStaff struct {
	ID     FlexID `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// Recovery handles GET /recovery.
func (c *Client) Recovery(ctx context.Context, creds Credentials) (*RecoverySnapshot, error) {
	var data struct {
		StaffUsers []recoveryStaff `json:"staffUsers"`
	}
	err := c.do(ctx, request{
		method:        http.MethodGet,
		path:          "/recovery",
		creds:         creds,
		needsBusiness: true,
	}, &data)
	if err != nil {
		return nil, err
	}

	snap := &RecoverySnapshot{StaffUsers: make([]domain.RecoveryStaff, 0, len(data.StaffUsers))}
	for _, s := range data.StaffUsers {
		snap.StaffUsers = append(snap.StaffUsers, domain.RecoveryStaff{
			ID:     s.ID.String(),
			Name:   s.Name,
			Role:   s.Role,
			Status: s.Status,
		})
	}
	return snap, nil
}
