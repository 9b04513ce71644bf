package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	require.Len(t, c.Subscription, 3)
	assert.Equal(t, "FREE", c.Subscription[0].Name)
	assert.True(t, decimal.NewFromInt(199).Equal(c.Subscription[2].Price))

	require.Len(t, c.License, 4)
	assert.Equal(t, "pro", c.License[1].ID)
	assert.True(t, c.License[1].Recommended)
	assert.True(t, c.License[3].OneTime)

	p, ok := c.SubscriptionPlan("BASIC")
	assert.True(t, ok)
	assert.Contains(t, p.Features, "Sincronización Cloud")
}

func TestAnnualPricingAppliesDiscount(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	price, duration := c.PriceFor(c.License[0], CycleAnnual)
	// 29 * 12 * 0.8
	assert.Equal(t, "278.4", price.String())
	assert.Equal(t, "año", duration)

	price, duration = c.PriceFor(c.License[0], CycleMonthly)
	assert.Equal(t, "29", price.String())
	assert.Equal(t, "mes", duration)

	price, duration = c.PriceFor(c.License[3], CycleAnnual)
	assert.Equal(t, "499", price.String())
	assert.Equal(t, "único", duration)
}

func TestParseRejectsBadPrice(t *testing.T) {
	_, err := Parse([]byte("subscription:\n  - name: X\n    price: abc\n"))
	assert.Error(t, err)
}

func TestParseBillingCycle(t *testing.T) {
	assert.Equal(t, CycleAnnual, ParseBillingCycle("annual"))
	assert.Equal(t, CycleMonthly, ParseBillingCycle("weekly"))
}
