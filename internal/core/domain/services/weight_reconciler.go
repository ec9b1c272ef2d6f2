package services

import (
	"fmt"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DefaultWeightTolerancePercent is the deviation band, in percent, within
// which weighed totals adjust silently.
const DefaultWeightTolerancePercent = 10

// Measurement is one item's actually weighed quantity as reported by the
// kitchen scale flow.
type Measurement struct {
	ItemID      kernel.UUID
	ActualGrams kernel.Grams
}

// WeightCheck is the outcome of reconciling one measurement against the
// requested quantity. It is ephemeral: computed, reported, never persisted.
type WeightCheck struct {
	ItemID         kernel.UUID
	RequestedGrams kernel.Grams
	ActualGrams    kernel.Grams
	// Deviation is (actual-requested)/requested × 100, two decimals.
	Deviation     decimal.Decimal
	AdjustedPrice kernel.Money
	Exceeds       bool
	Underweight   bool
}

// WeightReconciler reconciles weighed quantities against an order. Checks
// within the tolerance band adjust line totals silently; any check above
// +tolerance freezes the order in WeightReview for customer approval.
// Underweight never blocks, the customer simply pays less.
type WeightReconciler interface {
	Reconcile(o *order.Order, measurements []Measurement, now time.Time) ([]WeightCheck, error)
}

var _ WeightReconciler = &weightReconciler{}

type weightReconciler struct {
	tolerance decimal.Decimal
}

// NewWeightReconciler creates a reconciler with the given tolerance band in
// percent.
func NewWeightReconciler(tolerancePercent int) (WeightReconciler, error) {
	if tolerancePercent < 1 || tolerancePercent > 100 {
		return nil, errs.NewValueIsOutOfRangeError("tolerancePercent", tolerancePercent, 1, 100)
	}
	return &weightReconciler{tolerance: decimal.NewFromInt(int64(tolerancePercent))}, nil
}

func (w *weightReconciler) Reconcile(o *order.Order, measurements []Measurement, now time.Time) ([]WeightCheck, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if len(measurements) == 0 {
		return nil, errs.NewValueIsRequiredError("checks")
	}

	checks := make([]WeightCheck, 0, len(measurements))
	adjustments := make([]order.WeightAdjustment, 0, len(measurements))
	freeze := false

	for _, m := range measurements {
		item, err := o.Item(m.ItemID)
		if err != nil {
			return nil, err
		}
		if item.Unit() != order.UnitWeight {
			return nil, errs.NewValueIsInvalidErrorWithCause("itemId",
				fmt.Errorf("item %s is not sold by weight", m.ItemID))
		}
		if m.ActualGrams <= 0 {
			return nil, errs.NewValueIsInvalidErrorWithCause("actualGrams",
				fmt.Errorf("%d is not greater than 0", m.ActualGrams.Int64()))
		}

		requested := kernel.Grams(item.Quantity())
		deviation := kernel.DeviationPercent(requested, m.ActualGrams)
		check := WeightCheck{
			ItemID:         m.ItemID,
			RequestedGrams: requested,
			ActualGrams:    m.ActualGrams,
			Deviation:      deviation,
			AdjustedPrice:  kernel.WeightPrice(m.ActualGrams, item.UnitPrice()),
			Exceeds:        deviation.GreaterThan(w.tolerance),
			Underweight:    deviation.LessThan(w.tolerance.Neg()),
		}
		if check.Exceeds {
			freeze = true
		}

		checks = append(checks, check)
		adjustments = append(adjustments, order.WeightAdjustment{ItemID: m.ItemID, ActualGrams: m.ActualGrams})
	}

	if err := o.ApplyWeighing(adjustments, freeze, now); err != nil {
		return nil, err
	}
	return checks, nil
}
