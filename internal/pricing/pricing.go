// Package pricing computes custom-order totals from a seller's price
// table. It is pure: no I/O, no state, identical inputs always yield
// identical output.
package pricing

import "github.com/skecho/skecho-client/internal/model"

// Breakdown itemizes a quote the way it is shown to the buyer.
type Breakdown struct {
	Base     int64
	Extra    int64
	Material int64
	Total    int64
}

// Quote prices a draft against a seller's table. A size missing from
// the table contributes zero base and extra; an unknown material
// contributes zero surcharge. Partial drafts therefore produce a
// defined degraded total rather than an error.
func Quote(table model.PriceTable, materials []model.MaterialOption, draft model.CustomOrderDraft) Breakdown {
	var b Breakdown

	if tier, ok := table[draft.Size]; ok {
		b.Base = tier.BasePrice
		if draft.Units > 1 {
			b.Extra = int64(draft.Units-1) * tier.PerExtraUnit
		}
	}

	for _, m := range materials {
		if m.Name == draft.Material {
			b.Material = m.CostBySize[draft.Size]
			break
		}
	}

	b.Total = b.Base + b.Extra + b.Material
	return b
}

// ComputeTotal returns the total price for a draft.
func ComputeTotal(table model.PriceTable, materials []model.MaterialOption, draft model.CustomOrderDraft) int64 {
	return Quote(table, materials, draft).Total
}
