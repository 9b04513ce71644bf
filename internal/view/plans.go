package view

import (
	"github.com/shopspring/decimal"

	"github.com/ubox-pos/cloud-dashboard/internal/catalog"
)

// PlanRow is a subscription tier compared against the business plan.
type PlanRow struct {
	Name        string          `json:"name"`
	Currency    string          `json:"currency"`
	Price       decimal.Decimal `json:"price"`
	Features    []string        `json:"features"`
	Current     bool            `json:"current"`
	ActionLabel string          `json:"action_label"`
}

// PlansView is the subscription page.
type PlansView struct {
	Status
	CurrentPlan string    `json:"current_plan"`
	Plans       []PlanRow `json:"plans"`
}

// Plans marks the business's current tier. Upgrades are not sold on the web.
func Plans(c *catalog.Catalog, currentPlan string) PlansView {
	v := PlansView{Status: Status{Notice: ReadOnlyNotice}, CurrentPlan: currentPlan, Plans: []PlanRow{}}
	for _, p := range c.Subscription {
		row := PlanRow{
			Name:        p.Name,
			Currency:    p.Currency,
			Price:       p.Price,
			Features:    p.Features,
			Current:     p.Name == currentPlan,
			ActionLabel: "No Disponible en Web",
		}
		if row.Current {
			row.ActionLabel = "Plan Actual"
		}
		v.Plans = append(v.Plans, row)
	}
	return v
}

// LicensePlanRow is a license offer priced for a billing cycle.
type LicensePlanRow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Currency    string          `json:"currency"`
	Price       decimal.Decimal `json:"price"`
	Duration    string          `json:"duration"`
	DeviceLimit int             `json:"device_limit"`
	Recommended bool            `json:"recommended"`
	Features    []string        `json:"features"`
}

// LicensePlansView is the license purchase page.
type LicensePlansView struct {
	Status
	Cycle          catalog.BillingCycle `json:"cycle"`
	AnnualDiscount decimal.Decimal      `json:"annual_discount"`
	Plans          []LicensePlanRow     `json:"plans"`
}

// LicensePlans prices every license plan for the cycle.
func LicensePlans(c *catalog.Catalog, cycle catalog.BillingCycle) LicensePlansView {
	v := LicensePlansView{Cycle: cycle, AnnualDiscount: c.AnnualDiscount, Plans: []LicensePlanRow{}}
	for _, p := range c.License {
		price, duration := c.PriceFor(p, cycle)
		v.Plans = append(v.Plans, LicensePlanRow{
			ID:          p.ID,
			Name:        p.Name,
			Currency:    p.Currency,
			Price:       price,
			Duration:    duration,
			DeviceLimit: p.DeviceLimit,
			Recommended: p.Recommended,
			Features:    p.Features,
		})
	}
	return v
}
