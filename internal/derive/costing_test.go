package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docelar/docelar/internal/domain/models"
)

func testStock() []models.StockItem {
	return []models.StockItem{
		{ID: "flour", Name: "Flour", UnitPrice: 2, Unit: "kg"},
		{ID: "sugar", Name: "Sugar", UnitPrice: 3, Unit: "kg"},
		{ID: "eggs", Name: "Eggs", UnitPrice: 0.5, Unit: "un"},
	}
}

func TestUnitCost(t *testing.T) {
	stock := testStock()

	t.Run("basic recipe", func(t *testing.T) {
		p := models.Product{
			Yield: 10,
			Ingredients: []models.Ingredient{
				{StockItemID: "flour", Quantity: 2}, // 4
				{StockItemID: "sugar", Quantity: 1}, // 3
				{StockItemID: "eggs", Quantity: 6},  // 3
			},
		}
		assert.InDelta(t, 1.0, UnitCost(p, stock), 1e-9)
	})

	t.Run("overhead markup", func(t *testing.T) {
		p := models.Product{
			Yield:           10,
			OverheadPercent: 20,
			Ingredients: []models.Ingredient{
				{StockItemID: "flour", Quantity: 5}, // batch 10, +20% = 12
			},
		}
		assert.InDelta(t, 1.2, UnitCost(p, stock), 1e-9)
	})

	t.Run("zero yield treated as one", func(t *testing.T) {
		p := models.Product{
			Yield:       0,
			Ingredients: []models.Ingredient{{StockItemID: "sugar", Quantity: 2}},
		}
		assert.InDelta(t, 6.0, UnitCost(p, stock), 1e-9)
	})

	t.Run("unknown ingredient contributes zero", func(t *testing.T) {
		p := models.Product{
			Yield:       1,
			Ingredients: []models.Ingredient{{StockItemID: "ghost", Quantity: 100}},
		}
		assert.Zero(t, UnitCost(p, stock))
	})

	t.Run("monotone in quantity and price", func(t *testing.T) {
		base := models.Product{
			Yield:       4,
			Ingredients: []models.Ingredient{{StockItemID: "flour", Quantity: 2}},
		}
		baseCost := UnitCost(base, stock)

		more := base.Clone()
		more.Ingredients[0].Quantity = 3
		assert.GreaterOrEqual(t, UnitCost(more, stock), baseCost)

		pricier := testStock()
		pricier[0].UnitPrice = 5
		assert.GreaterOrEqual(t, UnitCost(base, pricier), baseCost)
	})

	t.Run("doubling batch and yield leaves unit cost unchanged", func(t *testing.T) {
		p := models.Product{
			Yield: 6,
			Ingredients: []models.Ingredient{
				{StockItemID: "flour", Quantity: 3},
				{StockItemID: "eggs", Quantity: 12},
			},
		}
		doubled := p.Clone()
		doubled.Yield = 12
		for i := range doubled.Ingredients {
			doubled.Ingredients[i].Quantity *= 2
		}
		assert.InDelta(t, UnitCost(p, stock), UnitCost(doubled, stock), 1e-9)
	})
}

func TestSuggestedPrice(t *testing.T) {
	cases := []struct {
		name   string
		cost   float64
		margin float64
		want   float64
	}{
		{"half margin", 10, 0.5, 20},
		{"zero margin", 10, 0, 10},
		{"full margin falls back to double", 10, 1, 20},
		{"above one falls back to double", 10, 1.2, 20},
		{"zero cost", 0, 0.5, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SuggestedPrice(tc.cost, tc.margin)
			assert.InDelta(t, tc.want, got, 1e-9)
			assert.False(t, got < 0, "price must never be negative")
		})
	}
}

func TestMargin(t *testing.T) {
	assert.InDelta(t, 0.5, Margin(20, 10), 1e-9)
	assert.Zero(t, Margin(0, 10))
	assert.InDelta(t, -1.0, Margin(10, 20), 1e-9)
}
