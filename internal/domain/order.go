package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusCompleted marks a closed and paid order.
const OrderStatusCompleted = "COMPLETED"

// Order is a POS order as synchronised to the cloud.
type Order struct {
	ID          string          `json:"id"`
	Total       decimal.Decimal `json:"total"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	Status      string          `json:"status"`
	Customer    string          `json:"customer"`
	WaiterName  string          `json:"waiterName"`
	CreatedAt   time.Time       `json:"createdAt"`
	Items       []OrderItem     `json:"items"`
	Payments    []Payment       `json:"payments"`
}

// Pending reports whether the order is still an open account.
func (o Order) Pending() bool {
	return o.Status == "PENDING" || o.Status == "Pending"
}

// Balance is what remains to be paid on the order.
func (o Order) Balance() decimal.Decimal {
	return o.TotalAmount.Sub(o.PaidAmount)
}

// OrderItem is a line of an order.
type OrderItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Payment is a payment registered against an order.
type Payment struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Timestamp time.Time       `json:"timestamp"`
}

// OrderStats is the aggregate served by the orders stats endpoint.
type OrderStats struct {
	TotalUsers   int             `json:"totalUsers"`
	ActiveUsers  int             `json:"activeUsers"`
	TotalOrders  int             `json:"totalOrders"`
	TodayRevenue decimal.Decimal `json:"todayRevenue"`
}
