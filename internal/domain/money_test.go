package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFromDecimal_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, int64(15000), MoneyFromDecimal(150.00).Cents)
	assert.Equal(t, int64(3334), MoneyFromDecimal(33.335).Cents)
	assert.Equal(t, int64(3333), MoneyFromDecimal(33.334).Cents)
	assert.Equal(t, int64(1), MoneyFromDecimal(0.005).Cents)
	assert.Equal(t, int64(0), MoneyFromDecimal(0.004).Cents)
	assert.Equal(t, int64(-1050), MoneyFromDecimal(-10.50).Cents)
}

func TestMoney_Decimal(t *testing.T) {
	assert.Equal(t, 150.0, MoneyFromCents(15000).Decimal())
	assert.Equal(t, 0.01, MoneyFromCents(1).Decimal())
}

func TestMoney_Split_SumsExactly(t *testing.T) {
	cases := []struct {
		cents int64
		n     int
	}{
		{10000, 3},
		{10000, 1},
		{9999, 7},
		{1, 3},
		{123457, 12},
	}
	for _, tc := range cases {
		parts := MoneyFromCents(tc.cents).Split(tc.n)
		require.Len(t, parts, tc.n)
		var sum int64
		for _, p := range parts {
			sum += p.Cents
		}
		assert.Equal(t, tc.cents, sum, "split %d into %d", tc.cents, tc.n)
	}
}

func TestMoney_Split_RemainderOnLastRow(t *testing.T) {
	// 100.00 into 3: 33.33, 33.33, 33.34
	parts := MoneyFromCents(10000).Split(3)
	require.Len(t, parts, 3)
	assert.Equal(t, int64(3333), parts[0].Cents)
	assert.Equal(t, int64(3333), parts[1].Cents)
	assert.Equal(t, int64(3334), parts[2].Cents)
}

func TestMoney_Percent(t *testing.T) {
	assert.Equal(t, int64(2000), MoneyFromCents(20000).Percent(10).Cents)
	assert.Equal(t, int64(3000), MoneyFromCents(30000).Percent(10).Cents)
	// half-up on fractional cents: 33.33 * 5% = 1.6665 -> 1.67
	assert.Equal(t, int64(167), MoneyFromCents(3333).Percent(5).Cents)
	assert.Equal(t, int64(0), MoneyFromCents(12345).Percent(0).Cents)
}

func TestMoney_FloorZero(t *testing.T) {
	assert.Equal(t, int64(0), MoneyFromCents(-2000).FloorZero().Cents)
	assert.Equal(t, int64(500), MoneyFromCents(500).FloorZero().Cents)
}

func TestMoney_SignPredicates(t *testing.T) {
	assert.True(t, MoneyFromCents(0).IsZero())
	assert.False(t, MoneyFromCents(1).IsZero())
	assert.True(t, MoneyFromCents(1).IsPositive())
	assert.True(t, MoneyFromCents(-1).IsNegative())
}

func TestPaymentStatusFor(t *testing.T) {
	total := MoneyFromCents(15000)
	assert.Equal(t, PaymentPending, PaymentStatusFor(total, MoneyFromCents(0)))
	assert.Equal(t, PaymentPartial, PaymentStatusFor(total, MoneyFromCents(10000)))
	assert.Equal(t, PaymentPaid, PaymentStatusFor(total, MoneyFromCents(15000)))
	// overpaid is still paid
	assert.Equal(t, PaymentPaid, PaymentStatusFor(total, MoneyFromCents(20000)))
	// a free order is born paid
	assert.Equal(t, PaymentPaid, PaymentStatusFor(MoneyFromCents(0), MoneyFromCents(0)))
}
