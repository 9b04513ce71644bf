package view

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
)

// SalesPoint is the revenue of one weekday.
type SalesPoint struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// ReportsView is the reports page.
type ReportsView struct {
	Status
	Sales []SalesPoint `json:"sales"`
}

// SalesByWeekday sums order totals per weekday in loc, keeping the order in which
// each weekday first appears.
func SalesByWeekday(orders []domain.Order, loc *time.Location) []SalesPoint {
	points := []SalesPoint{}
	index := make(map[string]int)
	for _, o := range orders {
		name := WeekdayName(o.CreatedAt, loc)
		i, ok := index[name]
		if !ok {
			i = len(points)
			index[name] = i
			points = append(points, SalesPoint{Name: name, Total: decimal.Zero})
		}
		points[i].Total = points[i].Total.Add(orderTotal(o))
	}
	return points
}

// Reports builds the reports page.
func Reports(orders []domain.Order, loc *time.Location) ReportsView {
	return ReportsView{Sales: SalesByWeekday(orders, loc)}
}

// DashboardView is the landing page of the owner.
type DashboardView struct {
	Status
	TotalSales    decimal.Decimal `json:"total_sales"`
	OrderCount    int             `json:"order_count"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	ActiveDevices int             `json:"active_devices"`
	LastSevenDays []SalesPoint    `json:"last_seven_days"`
	RecentOrders  []OrderRow      `json:"recent_orders"`
}

const dashboardRecentOrders = 5

// Dashboard aggregates orders and devices. The chart covers the seven days ending
// today in loc, oldest first.
func Dashboard(orders []domain.Order, devices []domain.Device, now time.Time, loc *time.Location) DashboardView {
	if loc == nil {
		loc = time.UTC
	}
	v := DashboardView{
		TotalSales:    decimal.Zero,
		AverageTicket: decimal.Zero,
		OrderCount:    len(orders),
		RecentOrders:  []OrderRow{},
	}

	today := now.In(loc)
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -6)
	days := make([]SalesPoint, 7)
	for i := range days {
		days[i] = SalesPoint{Name: WeekdayName(start.AddDate(0, 0, i), loc), Total: decimal.Zero}
	}

	for _, o := range orders {
		total := orderTotal(o)
		v.TotalSales = v.TotalSales.Add(total)
		created := o.CreatedAt.In(loc)
		if created.Before(start) {
			continue
		}
		day := int(created.Sub(start).Hours() / 24)
		if day >= 0 && day < len(days) {
			days[day].Total = days[day].Total.Add(total)
		}
	}
	if v.OrderCount > 0 {
		v.AverageTicket = v.TotalSales.Div(decimal.NewFromInt(int64(v.OrderCount))).Round(2)
	}
	v.LastSevenDays = days

	for _, d := range devices {
		if d.IsAuthorized {
			v.ActiveDevices++
		}
	}

	recent := append([]domain.Order(nil), orders...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	for i := 0; i < len(recent) && i < dashboardRecentOrders; i++ {
		v.RecentOrders = append(v.RecentOrders, orderRow(recent[i]))
	}
	return v
}
