package kernel

import (
	"fmt"

	"clickboucher/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (cents). All order totals and
// line totals are integers; fractional arithmetic happens in decimal space
// and is rounded half-up exactly once per computed price.
type Money int64

// NewMoney creates a Money amount, rejecting negative values.
func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is negative", amount))
	}
	return Money(amount), nil
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return m + other
}

// Int64 returns the amount in minor units.
func (m Money) Int64() int64 {
	return int64(m)
}

// Decimal returns the amount as a decimal in minor units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(m))
}

// String renders the amount in major units with two decimals, e.g. "11.20".
func (m Money) String() string {
	return decimal.NewFromInt(int64(m)).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// Grams is a weight quantity for weight-sold goods.
type Grams int64

// NewGrams creates a Grams quantity, rejecting non-positive values.
func NewGrams(g int64) (Grams, error) {
	if g <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("grams",
			fmt.Errorf("%d is not greater than 0", g))
	}
	return Grams(g), nil
}

// Int64 returns the weight in grams.
func (g Grams) Int64() int64 {
	return int64(g)
}

// WeightPrice computes round(grams/1000 × pricePerKg) in minor units,
// rounded half-up. This is the single place weight-based line totals and
// weighing adjustments are derived from.
func WeightPrice(grams Grams, pricePerKg Money) Money {
	kg := decimal.NewFromInt(int64(grams)).Div(decimal.NewFromInt(1000))
	return Money(kg.Mul(pricePerKg.Decimal()).Round(0).IntPart())
}

// DeviationPercent computes (actual-requested)/requested × 100 with two
// decimals of precision, as a decimal to avoid float drift in comparisons.
func DeviationPercent(requested, actual Grams) decimal.Decimal {
	r := decimal.NewFromInt(int64(requested))
	a := decimal.NewFromInt(int64(actual))
	return a.Sub(r).Div(r).Mul(decimal.NewFromInt(100)).Round(2)
}
