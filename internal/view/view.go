// Package view derives the page models of the dashboard from upstream data.
// Builders are pure: they never fetch and never fail.
package view

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
)

// ReadOnlyNotice is shown on pages that mirror data edited in the desktop app.
const ReadOnlyNotice = "Este dashboard es solo para visualización. Para realizar cambios, usa la aplicación de escritorio UBOX POS."

// Status is the banner state shared by every page.
type Status struct {
	Error  string `json:"error,omitempty"`
	Notice string `json:"notice,omitempty"`
}

// Failed marks the page as unavailable with a banner message.
func (s *Status) Failed(message string) {
	s.Error = message
}

// spanish short weekday names, indexed by time.Weekday.
var weekdayNames = [...]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"}

// WeekdayName is the short Spanish name of the day t falls on in loc.
func WeekdayName(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return weekdayNames[t.Weekday()]
}

func orderTotal(o domain.Order) decimal.Decimal {
	if o.Total.IsZero() {
		return o.TotalAmount
	}
	return o.Total
}

// StatusLabel translates order statuses shown to owners.
func StatusLabel(status string) string {
	if status == domain.OrderStatusCompleted {
		return "Completado"
	}
	return status
}
