package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPricing() Pricing {
	return Pricing{
		MinOrderAmount:        700,
		FreeDeliveryThreshold: 1000,
		DeliveryFee:           50,
		TaxRate:               0,
	}
}

func TestQuoteBelowFreeDeliveryThreshold(t *testing.T) {
	// 2 x 400 = 800: above the minimum, below free delivery
	charges, err := testPricing().Quote(800)
	require.NoError(t, err)

	assert.Equal(t, int64(800), charges.Subtotal)
	assert.Equal(t, int64(50), charges.DeliveryCharge)
	assert.Equal(t, int64(0), charges.Tax)
	assert.Equal(t, int64(850), charges.Total)
}

func TestQuoteFreeDelivery(t *testing.T) {
	// 2 x 600 = 1200: delivery fee waived
	charges, err := testPricing().Quote(1200)
	require.NoError(t, err)

	assert.Equal(t, int64(0), charges.DeliveryCharge)
	assert.Equal(t, int64(1200), charges.Total)
}

func TestQuoteFreeDeliveryBoundary(t *testing.T) {
	charges, err := testPricing().Quote(1000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), charges.DeliveryCharge)

	charges, err = testPricing().Quote(999)
	require.NoError(t, err)
	assert.Equal(t, int64(50), charges.DeliveryCharge)
}

func TestQuoteBelowMinimum(t *testing.T) {
	_, err := testPricing().Quote(500)
	assert.ErrorIs(t, err, ErrBelowMinimum)
}

func TestQuoteWithTax(t *testing.T) {
	p := testPricing()
	p.TaxRate = 0.02

	charges, err := p.Quote(800)
	require.NoError(t, err)

	assert.Equal(t, int64(16), charges.Tax)
	assert.Equal(t, int64(800+50+16), charges.Total)
}

func TestQuoteTotalIsSumOfParts(t *testing.T) {
	p := testPricing()
	p.TaxRate = 0.05

	for _, subtotal := range []int64{700, 850, 999, 1000, 2500} {
		charges, err := p.Quote(subtotal)
		require.NoError(t, err)
		assert.Equal(t, charges.Subtotal+charges.DeliveryCharge+charges.Tax, charges.Total)
	}
}
