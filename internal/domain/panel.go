package domain

// PanelCategory identifies one of the independent PIN dialogs of the role panel.
type PanelCategory string

const (
	PanelWaiter     PanelCategory = "waiter"
	PanelCashier    PanelCategory = "cashier"
	PanelBarman     PanelCategory = "barman"
	PanelManagement PanelCategory = "management"
)

// PanelCategories lists the categories in display order.
var PanelCategories = []PanelCategory{PanelWaiter, PanelCashier, PanelBarman, PanelManagement}

// ParsePanelCategory validates a category coming from a route parameter.
func ParsePanelCategory(raw string) (PanelCategory, bool) {
	for _, c := range PanelCategories {
		if string(c) == raw {
			return c, true
		}
	}
	return "", false
}

// Kind returns the role kind whose accounts are eligible for the category.
func (c PanelCategory) Kind() RoleKind {
	switch c {
	case PanelWaiter:
		return RoleKindWaiter
	case PanelCashier:
		return RoleKindCashier
	case PanelBarman:
		return RoleKindBarman
	case PanelManagement:
		return RoleKindManagement
	default:
		return RoleKindUnknown
	}
}

// GatePhase is the state of a single PIN dialog.
type GatePhase string

const (
	GateClosed    GatePhase = "closed"
	GateSelecting GatePhase = "selecting"
	GatePinEntry  GatePhase = "pin_entry"
	GateGranted   GatePhase = "granted"
)

// GateState is the pending PIN entry of one dialog.
type GateState struct {
	Phase             GatePhase `json:"phase"`
	SelectedAccountID string    `json:"selected_account_id,omitempty"`
	Digits            string    `json:"digits,omitempty"`
	Error             string    `json:"error,omitempty"`
}

// PanelAccount is an eligible account cached for the panel. The PIN is kept hashed.
type PanelAccount struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Role    string   `json:"role"`
	Kind    RoleKind `json:"kind"`
	PINHash string   `json:"pin_hash,omitempty"`
}

// PanelState is the role panel as loaded for one session.
type PanelState struct {
	Accounts map[PanelCategory][]PanelAccount `json:"accounts"`
	Gates    map[PanelCategory]*GateState     `json:"gates"`
}

// NewPanelState returns a panel with every gate closed.
func NewPanelState() *PanelState {
	p := &PanelState{
		Accounts: make(map[PanelCategory][]PanelAccount, len(PanelCategories)),
		Gates:    make(map[PanelCategory]*GateState, len(PanelCategories)),
	}
	for _, c := range PanelCategories {
		p.Accounts[c] = []PanelAccount{}
		p.Gates[c] = &GateState{Phase: GateClosed}
	}
	return p
}

// Gate returns the gate for the category, creating a closed one if missing.
func (p *PanelState) Gate(c PanelCategory) *GateState {
	if p.Gates == nil {
		p.Gates = make(map[PanelCategory]*GateState)
	}
	g, ok := p.Gates[c]
	if !ok || g == nil {
		g = &GateState{Phase: GateClosed}
		p.Gates[c] = g
	}
	return g
}

// Account finds an eligible account of the category.
func (p *PanelState) Account(c PanelCategory, id string) (PanelAccount, bool) {
	for _, a := range p.Accounts[c] {
		if a.ID == id {
			return a, true
		}
	}
	return PanelAccount{}, false
}
