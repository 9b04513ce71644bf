package domain

import "time"

// Business is the tenant that owns staff, devices, products and orders.
type Business struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Plan string `json:"plan"`
}

// BusinessMember is a dashboard user linked to a business with a membership role.
type BusinessMember struct {
	User UserInfo `json:"user"`
	Role string   `json:"role"`
}

// Membership roles.
const (
	MemberRoleOwner = "OWNER"
	MemberRoleAdmin = "ADMIN"
)

// LicenseLog is an audit entry of the business license.
type LicenseLog struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	DeviceID  string    `json:"deviceId"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// RecoveryStaff is the staff member shape returned by the recovery snapshot.
type RecoveryStaff struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// Active accepts both status spellings the desktop app emits.
func (s RecoveryStaff) Active() bool {
	return s.Status == "ACTIVE" || s.Status == "Active"
}
