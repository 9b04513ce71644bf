package domain

import "strings"

// RoleKind is the closed set of operational roles a staff account can hold.
type RoleKind string

const (
	RoleKindUnknown    RoleKind = "unknown"
	RoleKindWaiter     RoleKind = "waiter"
	RoleKindCashier    RoleKind = "cashier"
	RoleKindBarman     RoleKind = "barman"
	RoleKindManagement RoleKind = "management"
)

// roleTable maps lower-cased backend role strings to role kinds.
var roleTable = map[string]RoleKind{
	"mozo":                RoleKindWaiter,
	"cajero":              RoleKindCashier,
	"barman":              RoleKindBarman,
	"administrador":       RoleKindManagement,
	"admin":               RoleKindManagement,
	"boss":                RoleKindManagement,
	"jefe":                RoleKindManagement,
	"super administrador": RoleKindManagement,
}

// ParseRoleKind resolves a free-text backend role. Matching is case-insensitive.
func ParseRoleKind(raw string) RoleKind {
	if kind, ok := roleTable[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return kind
	}
	return RoleKindUnknown
}

// Valid reports whether the kind is one of the routable roles.
func (k RoleKind) Valid() bool {
	switch k {
	case RoleKindWaiter, RoleKindCashier, RoleKindBarman, RoleKindManagement:
		return true
	default:
		return false
	}
}

// BackendRole returns the role string the operational screens expect in their query.
func (k RoleKind) BackendRole() string {
	switch k {
	case RoleKindWaiter:
		return "mozo"
	case RoleKindCashier:
		return "cajero"
	case RoleKindBarman:
		return "barman"
	default:
		return ""
	}
}

// IsAdminRole distinguishes admin accounts from other management roles.
func IsAdminRole(raw string) bool {
	return strings.Contains(strings.ToLower(raw), "admin")
}
