// Package catalog holds the subscription and license plans offered by the dashboard.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed plans.yaml
var plansYAML []byte

// BillingCycle selects how license plans are priced.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleAnnual  BillingCycle = "annual"
)

// ParseBillingCycle defaults to monthly for anything unrecognised.
func ParseBillingCycle(raw string) BillingCycle {
	if BillingCycle(raw) == CycleAnnual {
		return CycleAnnual
	}
	return CycleMonthly
}

// SubscriptionPlan is a business plan tier.
type SubscriptionPlan struct {
	Name     string
	Currency string
	Price    decimal.Decimal
	Features []string
}

// LicensePlan is a purchasable device license.
type LicensePlan struct {
	ID          string
	Name        string
	Currency    string
	Price       decimal.Decimal
	Duration    string
	OneTime     bool
	DeviceLimit int
	Recommended bool
	Features    []string
}

// Catalog is the parsed plan file.
type Catalog struct {
	Subscription   []SubscriptionPlan
	License        []LicensePlan
	AnnualDiscount decimal.Decimal
}

type fileFormat struct {
	Subscription []struct {
		Name     string   `yaml:"name"`
		Currency string   `yaml:"currency"`
		Price    string   `yaml:"price"`
		Features []string `yaml:"features"`
	} `yaml:"subscription"`
	License struct {
		AnnualDiscount string `yaml:"annual_discount"`
		Plans          []struct {
			ID          string   `yaml:"id"`
			Name        string   `yaml:"name"`
			Currency    string   `yaml:"currency"`
			Price       string   `yaml:"price"`
			Duration    string   `yaml:"duration"`
			OneTime     bool     `yaml:"one_time"`
			DeviceLimit int      `yaml:"device_limit"`
			Recommended bool     `yaml:"recommended"`
			Features    []string `yaml:"features"`
		} `yaml:"plans"`
	} `yaml:"license"`
}

// Default parses the embedded plan file.
func Default() (*Catalog, error) {
	return Parse(plansYAML)
}

// Parse decodes a plan file.
func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse plans: %w", err)
	}

	c := &Catalog{AnnualDiscount: decimal.Zero}
	if f.License.AnnualDiscount != "" {
		d, err := decimal.NewFromString(f.License.AnnualDiscount)
		if err != nil {
			return nil, fmt.Errorf("annual discount: %w", err)
		}
		c.AnnualDiscount = d
	}
	for _, p := range f.Subscription {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("plan %s price: %w", p.Name, err)
		}
		c.Subscription = append(c.Subscription, SubscriptionPlan{
			Name:     p.Name,
			Currency: p.Currency,
			Price:    price,
			Features: p.Features,
		})
	}
	for _, p := range f.License.Plans {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("license %s price: %w", p.ID, err)
		}
		c.License = append(c.License, LicensePlan{
			ID:          p.ID,
			Name:        p.Name,
			Currency:    p.Currency,
			Price:       price,
			Duration:    p.Duration,
			OneTime:     p.OneTime,
			DeviceLimit: p.DeviceLimit,
			Recommended: p.Recommended,
			Features:    p.Features,
		})
	}
	return c, nil
}

// PriceFor returns the price and duration label of a license plan for the cycle.
// Annual billing charges twelve months less the discount; one-time plans are unaffected.
func (c *Catalog) PriceFor(p LicensePlan, cycle BillingCycle) (decimal.Decimal, string) {
	if p.OneTime || cycle != CycleAnnual {
		return p.Price, p.Duration
	}
	factor := decimal.NewFromInt(1).Sub(c.AnnualDiscount)
	return p.Price.Mul(decimal.NewFromInt(12)).Mul(factor).Round(2), "año"
}

// SubscriptionPlan looks up a business plan tier by name.
func (c *Catalog) SubscriptionPlan(name string) (SubscriptionPlan, bool) {
	for _, p := range c.Subscription {
		if p.Name == name {
			return p, true
		}
	}
	return SubscriptionPlan{}, false
}
