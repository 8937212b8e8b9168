package domain

import (
	"fmt"
	"math"
)

// Money is an amount in integer minor units (cents). All arithmetic
// stays on int64; decimal values exist only at the JSON boundary, where
// they are rounded half-up to 2 places.
type Money struct {
	Cents int64 `json:"cents"`
}

// MoneyFromDecimal converts a boundary decimal amount to cents,
// rounding half-up.
func MoneyFromDecimal(v float64) Money {
	if v >= 0 {
		return Money{Cents: int64(math.Floor(v*100 + 0.5))}
	}
	return Money{Cents: -int64(math.Floor(-v*100 + 0.5))}
}

// MoneyFromCents wraps raw cents.
func MoneyFromCents(c int64) Money {
	return Money{Cents: c}
}

// Decimal returns the boundary representation.
func (m Money) Decimal() float64 {
	return float64(m.Cents) / 100
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// Mul scales by an integer factor (line totals).
func (m Money) Mul(n int) Money {
	return Money{Cents: m.Cents * int64(n)}
}

func (m Money) IsZero() bool     { return m.Cents == 0 }
func (m Money) IsPositive() bool { return m.Cents > 0 }
func (m Money) IsNegative() bool { return m.Cents < 0 }

// FloorZero clamps negative amounts to zero. Overpaid orders keep a
// zero remaining balance, never a negative one.
func (m Money) FloorZero() Money {
	if m.Cents < 0 {
		return Money{}
	}
	return m
}

// Percent applies a percentage rate (e.g. 10 for 10%), half-up.
func (m Money) Percent(rate float64) Money {
	raw := float64(m.Cents) * rate / 100
	if raw >= 0 {
		return Money{Cents: int64(math.Floor(raw + 0.5))}
	}
	return Money{Cents: -int64(math.Floor(-raw + 0.5))}
}

// Split divides m into n parts whose sum is exactly m: rows 1..n-1 get
// the floored even share, the last row absorbs the remainder. Naively
// truncating every part independently drifts by up to n-1 cents.
func (m Money) Split(n int) []Money {
	if n <= 0 {
		return nil
	}
	base := m.Cents / int64(n)
	parts := make([]Money, n)
	for i := 0; i < n-1; i++ {
		parts[i] = Money{Cents: base}
	}
	parts[n-1] = Money{Cents: m.Cents - base*int64(n-1)}
	return parts
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f", m.Decimal())
}
