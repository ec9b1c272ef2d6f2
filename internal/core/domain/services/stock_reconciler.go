package services

import (
	"fmt"
	"sort"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/core/domain/model/product"
	"clickboucher/internal/pkg/errs"
)

// maxSubstituteCandidates caps how many substitutes are proposed per
// flagged item.
const maxSubstituteCandidates = 5

// Decision is the customer's verdict for one flagged item, as it arrives
// from the outside: remove, or replace by product id.
type Decision struct {
	ItemID               kernel.UUID
	Remove               bool
	ReplacementProductID *kernel.UUID
}

// StockReconciler proposes substitutes for out-of-stock items and applies
// the customer's decisions to the order.
type StockReconciler interface {
	// Candidates returns up to five substitutes for the flagged product:
	// same category, same unit kind, in stock, closest price first.
	Candidates(flagged *product.Product, catalog []*product.Product) []*product.Product

	// ApplyDecisions resolves the replacement products from the catalog and
	// applies all decisions to the order in one all-or-nothing call.
	ApplyDecisions(o *order.Order, decisions []Decision, catalog []*product.Product, now time.Time) error
}

var _ StockReconciler = &stockReconciler{}

type stockReconciler struct{}

// NewStockReconciler creates the reconciler.
func NewStockReconciler() StockReconciler {
	return &stockReconciler{}
}

func (s *stockReconciler) Candidates(flagged *product.Product, catalog []*product.Product) []*product.Product {
	if flagged == nil {
		return nil
	}

	candidates := make([]*product.Product, 0, maxSubstituteCandidates)
	for _, p := range catalog {
		if p.ID().IsEqual(flagged.ID()) {
			continue
		}
		if !p.IsInStock() || p.Category() != flagged.Category() || p.Unit() != flagged.Unit() {
			continue
		}
		candidates = append(candidates, p)
	}

	sort.Slice(candidates, func(i, j int) bool {
		di := priceDistance(candidates[i].Price(), flagged.Price())
		dj := priceDistance(candidates[j].Price(), flagged.Price())
		if di != dj {
			return di < dj
		}
		return candidates[i].Name() < candidates[j].Name()
	})

	if len(candidates) > maxSubstituteCandidates {
		candidates = candidates[:maxSubstituteCandidates]
	}
	return candidates
}

func (s *stockReconciler) ApplyDecisions(o *order.Order, decisions []Decision, catalog []*product.Product, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	byID := make(map[kernel.UUID]*product.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID()] = p
	}

	resolved := make([]order.ItemDecision, 0, len(decisions))
	for _, d := range decisions {
		if d.Remove {
			resolved = append(resolved, order.ItemDecision{ItemID: d.ItemID, Remove: true})
			continue
		}
		if d.ReplacementProductID == nil {
			return errs.NewValueIsRequiredError("replacementProductId")
		}

		substitute, ok := byID[*d.ReplacementProductID]
		if !ok {
			return errs.NewObjectNotFoundError("replacementProductId", d.ReplacementProductID.String())
		}
		if !substitute.IsInStock() {
			return errs.NewValueIsInvalidErrorWithCause("replacementProductId",
				fmt.Errorf("product %s is out of stock", substitute.ID()))
		}

		resolved = append(resolved, order.ItemDecision{
			ItemID: d.ItemID,
			Replacement: &order.Replacement{
				ProductID: substitute.ID(),
				Name:      substitute.Name(),
				Unit:      substitute.Unit(),
				UnitPrice: substitute.Price(),
			},
		})
	}

	return o.ResolveAlternatives(resolved, now)
}

func priceDistance(a, b kernel.Money) int64 {
	d := a.Int64() - b.Int64()
	if d < 0 {
		return -d
	}
	return d
}
