package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is an inventory item of the business.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Category  string          `json:"category"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// StockLevel buckets the stock for display.
func (p Product) StockLevel() string {
	switch {
	case p.Stock > 10:
		return "ok"
	case p.Stock > 0:
		return "low"
	default:
		return "out"
	}
}
