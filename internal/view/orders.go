package view

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
)

const (
	waiterPreview      = 5
	recentPaymentLimit = 10
	unassignedWaiter   = "Sin Asignar"
)

// OrderRow is one order as listed.
type OrderRow struct {
	ID          string          `json:"id"`
	Customer    string          `json:"customer,omitempty"`
	WaiterName  string          `json:"waiter_name,omitempty"`
	Status      string          `json:"status"`
	StatusLabel string          `json:"status_label"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

func orderRow(o domain.Order) OrderRow {
	return OrderRow{
		ID:          o.ID,
		Customer:    o.Customer,
		WaiterName:  o.WaiterName,
		Status:      o.Status,
		StatusLabel: StatusLabel(o.Status),
		Total:       orderTotal(o),
		ItemCount:   len(o.Items),
		CreatedAt:   o.CreatedAt,
	}
}

// OrdersView is the orders page.
type OrdersView struct {
	Status
	Orders []OrderRow `json:"orders"`
}

// Orders lists orders in upstream order.
func Orders(orders []domain.Order) OrdersView {
	v := OrdersView{Status: Status{Notice: ReadOnlyNotice}, Orders: make([]OrderRow, 0, len(orders))}
	for _, o := range orders {
		v.Orders = append(v.Orders, orderRow(o))
	}
	return v
}

// WaiterGroup is the orders taken by one waiter.
type WaiterGroup struct {
	Waiter     string     `json:"waiter"`
	OrderCount int        `json:"order_count"`
	Orders     []OrderRow `json:"orders"`
	Remaining  int        `json:"remaining"`
}

// WaitersView is the waiters page.
type WaitersView struct {
	Status
	Groups []WaiterGroup `json:"groups"`
}

// Waiters groups orders by waiter in order of first appearance, previewing five per group.
func Waiters(orders []domain.Order) WaitersView {
	v := WaitersView{Status: Status{Notice: ReadOnlyNotice}, Groups: []WaiterGroup{}}
	index := make(map[string]int)
	var all [][]OrderRow
	for _, o := range orders {
		name := o.WaiterName
		if name == "" {
			name = unassignedWaiter
		}
		i, ok := index[name]
		if !ok {
			i = len(v.Groups)
			index[name] = i
			v.Groups = append(v.Groups, WaiterGroup{Waiter: name})
			all = append(all, nil)
		}
		all[i] = append(all[i], orderRow(o))
	}
	for i := range v.Groups {
		rows := all[i]
		v.Groups[i].OrderCount = len(rows)
		if len(rows) > waiterPreview {
			v.Groups[i].Remaining = len(rows) - waiterPreview
			rows = rows[:waiterPreview]
		}
		v.Groups[i].Orders = rows
	}
	return v
}

// PendingAccount is an open order awaiting payment.
type PendingAccount struct {
	OrderID   string          `json:"order_id"`
	Customer  string          `json:"customer,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Paid      decimal.Decimal `json:"paid"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// PaymentRow is a payment with the order it settled.
type PaymentRow struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	Customer  string          `json:"customer,omitempty"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// StaffRow is an active staff member on shift.
type StaffRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// CashierView is the cashier page.
type CashierView struct {
	Status
	PendingCount   int              `json:"pending_count"`
	Pending        []PendingAccount `json:"pending"`
	RecentPayments []PaymentRow     `json:"recent_payments"`
	ActiveStaff    []StaffRow       `json:"active_staff"`
	RefreshedAt    time.Time        `json:"refreshed_at"`
}

// Cashier derives pending accounts, the ten latest payments and the active staff.
func Cashier(orders []domain.Order, staff []domain.RecoveryStaff, now time.Time) CashierView {
	v := CashierView{
		Status:         Status{Notice: ReadOnlyNotice},
		Pending:        []PendingAccount{},
		RecentPayments: []PaymentRow{},
		ActiveStaff:    []StaffRow{},
		RefreshedAt:    now,
	}
	for _, o := range orders {
		if o.Pending() {
			v.Pending = append(v.Pending, PendingAccount{
				OrderID:   o.ID,
				Customer:  o.Customer,
				Total:     o.TotalAmount,
				Paid:      o.PaidAmount,
				Balance:   o.Balance(),
				CreatedAt: o.CreatedAt,
			})
		}
		for _, p := range o.Payments {
			v.RecentPayments = append(v.RecentPayments, PaymentRow{
				ID:        p.ID,
				OrderID:   o.ID,
				Customer:  o.Customer,
				Method:    p.Method,
				Amount:    p.Amount,
				Timestamp: p.Timestamp,
			})
		}
	}
	v.PendingCount = len(v.Pending)

	sort.SliceStable(v.RecentPayments, func(i, j int) bool {
		return v.RecentPayments[i].Timestamp.After(v.RecentPayments[j].Timestamp)
	})
	if len(v.RecentPayments) > recentPaymentLimit {
		v.RecentPayments = v.RecentPayments[:recentPaymentLimit]
	}

	for _, s := range staff {
		if s.Active() {
			v.ActiveStaff = append(v.ActiveStaff, StaffRow{ID: s.ID, Name: s.Name, Role: s.Role})
		}
	}
	return v
}
