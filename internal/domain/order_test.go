package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderPrice(t *testing.T) {
	o := &Order{
		Items: []OrderItem{
			{Price: decimal.RequireFromString("199.00"), Quantity: 2},
			{Price: decimal.RequireFromString("49.50"), Quantity: 1},
		},
	}
	o.Price()

	assert.True(t, o.Subtotal.Equal(decimal.RequireFromString("447.50")), "subtotal %s", o.Subtotal)
	// 447.50 * 0.25 = 111.875 -> 111.88
	assert.True(t, o.Tax.Equal(decimal.RequireFromString("111.88")), "tax %s", o.Tax)
	assert.True(t, o.Shipping.Equal(decimal.NewFromInt(99)))
	assert.True(t, o.Total.Equal(o.Subtotal.Add(o.Tax).Add(o.Shipping)))
	assert.Equal(t, DefaultCurrency, o.Currency)
}

func TestOrderPrice_EmptyOrder(t *testing.T) {
	o := &Order{}
	o.Price()
	assert.True(t, o.Subtotal.IsZero())
	assert.True(t, o.Tax.IsZero())
	assert.True(t, o.Total.Equal(FlatShipping))
}

func TestSetStatus_TimestampsAreOneWay(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	o := &Order{Status: StatusPending}

	o.SetStatus(StatusProcessing, now)
	require.NotNil(t, o.PaidAt)
	assert.Nil(t, o.ShippedAt)
	firstPaid := *o.PaidAt

	later := now.Add(2 * time.Hour)
	o.SetStatus(StatusCompleted, later)
	require.NotNil(t, o.ShippedAt)
	assert.Equal(t, later, *o.ShippedAt)
	assert.Equal(t, firstPaid, *o.PaidAt, "paidAt must not move once set")

	// reverse transitions clear nothing
	o.SetStatus(StatusCancelled, later.Add(time.Hour))
	assert.NotNil(t, o.PaidAt)
	assert.NotNil(t, o.ShippedAt)
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, s.Valid(), "%s", s)
	}
	assert.False(t, OrderStatus("SHIPPED").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestNewOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^WB-\d{8}$`)

	n := NewOrderNumber(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	assert.True(t, pattern.MatchString(n), "got %s", n)

	// last 8 digits of the millisecond clock
	assert.Equal(t, "WB-00123456", NewOrderNumber(time.UnixMilli(123456)))
	assert.Equal(t, "WB-91272834", NewOrderNumber(time.UnixMilli(1700091272834)))

	for i := 0; i < 10; i++ {
		assert.True(t, pattern.MatchString(RandomOrderNumber()))
	}
}
