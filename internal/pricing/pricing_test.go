package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skecho/skecho-client/internal/model"
)

func testTable() model.PriceTable {
	return model.PriceTable{
		model.SizeA1: {BasePrice: 500, PerExtraUnit: 100},
		model.SizeA2: {BasePrice: 350, PerExtraUnit: 75},
	}
}

func testMaterials() []model.MaterialOption {
	return []model.MaterialOption{
		{Name: "Canvas", CostBySize: map[string]int64{model.SizeA1: 50, model.SizeA2: 40}},
		{Name: "Silk", CostBySize: map[string]int64{model.SizeA2: 90}},
	}
}

func TestComputeTotal_SingleUnit(t *testing.T) {
	total := ComputeTotal(testTable(), testMaterials(), model.CustomOrderDraft{
		Size: model.SizeA1, Material: "Canvas", Units: 1,
	})
	assert.Equal(t, int64(550), total)
}

func TestComputeTotal_ExtraUnits(t *testing.T) {
	total := ComputeTotal(testTable(), testMaterials(), model.CustomOrderDraft{
		Size: model.SizeA1, Material: "Canvas", Units: 3,
	})
	// 500 base + 2*100 extra + 50 material
	assert.Equal(t, int64(750), total)
}

func TestComputeTotal_UnknownMaterial(t *testing.T) {
	total := ComputeTotal(testTable(), testMaterials(), model.CustomOrderDraft{
		Size: model.SizeA1, Material: "Gold Leaf", Units: 1,
	})
	assert.Equal(t, int64(500), total)
}

func TestComputeTotal_UnknownSize(t *testing.T) {
	total := ComputeTotal(testTable(), testMaterials(), model.CustomOrderDraft{
		Size: "A0", Material: "Canvas", Units: 1,
	})
	// Unknown size: base and extra are 0, and the material has no cost
	// under that size either.
	assert.Equal(t, int64(0), total)
}

func TestComputeTotal_MaterialMissingSizeCost(t *testing.T) {
	total := ComputeTotal(testTable(), testMaterials(), model.CustomOrderDraft{
		Size: model.SizeA1, Material: "Silk", Units: 1,
	})
	// Silk has no A1 cost, so only the base applies.
	assert.Equal(t, int64(500), total)
}

func TestComputeTotal_UnitsBelowOne(t *testing.T) {
	total := ComputeTotal(testTable(), testMaterials(), model.CustomOrderDraft{
		Size: model.SizeA1, Material: "Canvas", Units: 0,
	})
	// Units below 1 contribute no extra term.
	assert.Equal(t, int64(550), total)
}

func TestComputeTotal_EmptyDraft(t *testing.T) {
	assert.Equal(t, int64(0), ComputeTotal(testTable(), testMaterials(), model.CustomOrderDraft{}))
	assert.Equal(t, int64(0), ComputeTotal(nil, nil, model.CustomOrderDraft{Size: model.SizeA1}))
}

func TestQuote_Breakdown(t *testing.T) {
	quote := Quote(testTable(), testMaterials(), model.CustomOrderDraft{
		Size: model.SizeA2, Material: "Silk", Units: 4,
	})

	assert.Equal(t, int64(350), quote.Base)
	assert.Equal(t, int64(225), quote.Extra)
	assert.Equal(t, int64(90), quote.Material)
	assert.Equal(t, int64(665), quote.Total)
}

func TestQuote_Deterministic(t *testing.T) {
	draft := model.CustomOrderDraft{Size: model.SizeA1, Material: "Canvas", Units: 2}
	first := Quote(testTable(), testMaterials(), draft)
	second := Quote(testTable(), testMaterials(), draft)
	assert.Equal(t, first, second)
}
