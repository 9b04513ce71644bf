package dto

import (
	"github.com/ubox-pos/cloud-dashboard/internal/domain"
	"github.com/ubox-pos/cloud-dashboard/internal/service"
)

// SelectAccountRequest picks the account of a dialog.
type SelectAccountRequest struct {
	AccountID string `json:"account_id" validate:"required"`
}

// PressKeyRequest is one keypad press.
type PressKeyRequest struct {
	Key string `json:"key" validate:"required,len=1,numeric"`
}

// DeviceAuthorizationRequest grants or revokes a terminal.
type DeviceAuthorizationRequest struct {
	Authorize *bool `json:"authorize" validate:"required"`
}

// AdminDashboardQuery identifies who was routed to the management dashboard.
type AdminDashboardQuery struct {
	Role        string `query:"role" validate:"required,oneof=admin boss"`
	DisplayRole string `query:"displayRole"`
	Name        string `query:"name"`
	ID          string `query:"id"`
}

// AccountOption is an account offered in a dialog. PINs never leave the server.
type AccountOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// TargetResponse is the navigation decision of a granted attempt.
type TargetResponse struct {
	domain.NavigationTarget
	URL string `json:"url"`
}

// GateResponse is one dialog of the role panel.
type GateResponse struct {
	Category          domain.PanelCategory `json:"category"`
	Phase             domain.GatePhase     `json:"phase"`
	SelectedAccountID string               `json:"selected_account_id,omitempty"`
	DigitCount        int                  `json:"digit_count"`
	Error             string               `json:"error,omitempty"`
	Accounts          []AccountOption      `json:"accounts"`
	Target            *TargetResponse      `json:"target,omitempty"`
}

// PanelResponse lists every dialog in display order.
type PanelResponse struct {
	Gates []GateResponse `json:"gates"`
}

func accountOptions(accounts []domain.PanelAccount) []AccountOption {
	out := make([]AccountOption, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountOption{ID: a.ID, Name: a.Name, Role: a.Role})
	}
	return out
}

// NewGateResponse maps a router result. Entered digits are reported as a count only.
func NewGateResponse(res *service.GateResult) GateResponse {
	resp := GateResponse{
		Category:          res.Category,
		Phase:             res.Gate.Phase,
		SelectedAccountID: res.Gate.SelectedAccountID,
		DigitCount:        len(res.Gate.Digits),
		Error:             res.Gate.Error,
		Accounts:          accountOptions(res.Accounts),
	}
	if res.Target != nil {
		resp.Target = &TargetResponse{NavigationTarget: *res.Target, URL: res.Target.URL()}
	}
	return resp
}

// NewPanelResponse maps the whole panel.
func NewPanelResponse(panel *domain.PanelState) PanelResponse {
	resp := PanelResponse{Gates: make([]GateResponse, 0, len(domain.PanelCategories))}
	for _, c := range domain.PanelCategories {
		gate := panel.Gate(c)
		resp.Gates = append(resp.Gates, NewGateResponse(&service.GateResult{
			Category: c,
			Gate:     *gate,
			Accounts: panel.Accounts[c],
		}))
	}
	return resp
}
