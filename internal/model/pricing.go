package model

// Canonical size tiers offered for custom orders. Price tables are
// keyed by open strings, so unknown sizes simply miss the table.
const (
	SizeA1 = "A1"
	SizeA2 = "A2"
	SizeA4 = "A4"
)

// SizePrice holds the seller's pricing for one size tier, in integral
// currency units.
type SizePrice struct {
	BasePrice    int64 `json:"basePrice"`
	PerExtraUnit int64 `json:"perExtraUnitPrice"`
}

// PriceTable maps a size tier to its pricing.
type PriceTable map[string]SizePrice

// MaterialOption is a seller-defined surcharge applied on top of the
// size-tier price.
type MaterialOption struct {
	Name       string           `json:"name"`
	CostBySize map[string]int64 `json:"costBySize"`
}

// CustomOrderDraft is a transient, possibly partially-filled custom
// order being priced. Units counts the subjects of the piece and is
// expected to be at least 1.
type CustomOrderDraft struct {
	Size     string
	Material string
	Units    int
}

// Seller represents an artist profile with its custom-order pricing,
// as served by the commerce API.
type Seller struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Bio           string           `json:"bio,omitempty"`
	DoesCustomArt bool             `json:"doesCustomArt"`
	Pricing       PriceTable       `json:"customArtPricing,omitempty"`
	Materials     []MaterialOption `json:"materialOptions,omitempty"`
}
