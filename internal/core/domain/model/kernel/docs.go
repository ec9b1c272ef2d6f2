// Package kernel provides core domain primitives shared by all aggregates of
// the click-and-collect engine.
//
// The package includes:
//   - UUID: identity value object with validation and comparison
//   - Money: integer minor-currency amounts with decimal-backed price math
//   - Grams: weight quantities plus the weight-price and deviation helpers
//
// These primitives are immutable and safe for concurrent use. Monetary
// rounding happens here and nowhere else, so line totals, weighing
// adjustments and order totals all agree on the same arithmetic.
package kernel
