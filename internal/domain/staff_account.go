package domain

// StaffStatusActive is the only status that makes an account eligible for the panel.
const StaffStatusActive = "Active"

// StaffAccount is a staff member of a business as returned by the POS backend.
type StaffAccount struct {
	ID     string
	Name   string
	Role   string
	Kind   RoleKind
	Status string
	PIN    string
}

// Active reports whether the account has the exact active status.
func (a StaffAccount) Active() bool {
	return a.Status == StaffStatusActive
}

// HasPIN reports whether a PIN is configured for the account.
func (a StaffAccount) HasPIN() bool {
	return a.PIN != ""
}
