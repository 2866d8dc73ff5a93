package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docelar/docelar/internal/domain/models"
	"github.com/docelar/docelar/internal/store"
	"github.com/docelar/docelar/pkg/ids"
)

func newTestService() (*Service, *store.Store) {
	st := store.New()
	state := models.NewAppState()
	state.User = &models.Session{UserID: "u1", CompanyID: "acme", Email: "o@acme.com", Role: models.RoleOwner}
	state.Stock = []models.StockItem{
		{ID: "flour", Name: "Flour", Quantity: 20, MinQuantity: 5, Unit: "kg", UnitPrice: 4},
		{ID: "sugar", Name: "Sugar", Quantity: 15, MinQuantity: 3, Unit: "kg", UnitPrice: 2},
	}
	st.Replace(state)
	return NewService(st, ids.NewSequence("cat"), nil), st
}

func TestCreateProductDerivesCostFromRecipe(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.CreateProduct(ProductInput{
		Name:  "Bolo",
		Price: 30,
		Yield: 10,
		Ingredients: []models.Ingredient{
			{StockItemID: "flour", Quantity: 2}, // 8
			{StockItemID: "sugar", Quantity: 1}, // 2
		},
		OverheadPercent: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, "cat-1", p.ID)
	assert.Equal(t, "acme", p.CompanyID)
	// (8+2) * 1.10 / 10
	assert.InDelta(t, 1.1, p.Cost, 1e-9)
}

func TestCreateProductWithoutRecipeKeepsManualCost(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.CreateProduct(ProductInput{Name: "Revenda", Cost: 7.5, Price: 12})
	require.NoError(t, err)
	assert.InDelta(t, 7.5, p.Cost, 1e-9)
}

func TestUpdateProductRecomputesCost(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.CreateProduct(ProductInput{
		Name: "Bolo", Price: 30, Yield: 10,
		Ingredients: []models.Ingredient{{StockItemID: "flour", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, p.Cost, 1e-9)

	// Doubling the recipe and halving the yield quadruples the unit cost.
	updated, err := svc.UpdateProduct(p.ID, ProductInput{
		Name: "Bolo", Price: 30, Yield: 5,
		Ingredients: []models.Ingredient{{StockItemID: "flour", Quantity: 4}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 3.2, updated.Cost, 1e-9)
}

func TestStockPriceChangePropagatesToProductCosts(t *testing.T) {
	svc, st := newTestService()

	p, err := svc.CreateProduct(ProductInput{
		Name: "Bolo", Price: 30, Yield: 1,
		Ingredients: []models.Ingredient{{StockItemID: "flour", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, p.Cost, 1e-9)

	_, err = svc.UpdateStockItem("flour", StockItemInput{
		Name: "Flour", Quantity: 20, MinQuantity: 5, Unit: "kg", UnitPrice: 6,
	})
	require.NoError(t, err)

	snap := st.Snapshot()
	assert.InDelta(t, 12.0, snap.Products[0].Cost, 1e-9)
}

func TestSuggestPrice(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.CreateProduct(ProductInput{
		Name: "Bolo", Price: 15, Yield: 1,
		Ingredients:         []models.Ingredient{{StockItemID: "flour", Quantity: 2.5}},
		TargetMarginPercent: 50,
	})
	require.NoError(t, err)

	quote, err := svc.SuggestPrice(p.ID)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, quote.UnitCost, 1e-9)
	assert.InDelta(t, 20.0, quote.SuggestedPrice, 1e-9) // 10 / (1 - 0.5)
	assert.InDelta(t, 1.0/3.0, quote.CurrentMargin, 1e-9)

	_, err = svc.SuggestPrice("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	svc, st := newTestService()

	p, err := svc.CreateProduct(ProductInput{Name: "Bolo", Price: 10})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(p.ID))
	assert.Empty(t, st.Snapshot().Products)

	assert.ErrorIs(t, svc.DeleteProduct(p.ID), ErrNotFound)
}

func TestProductValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateProduct(ProductInput{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateProduct(ProductInput{Name: "Bolo", Price: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateProduct(ProductInput{
		Name: "Bolo", Ingredients: []models.Ingredient{{StockItemID: "", Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStockItemCRUD(t *testing.T) {
	svc, st := newTestService()

	item, err := svc.CreateStockItem(StockItemInput{Name: "Cocoa", Quantity: 5, MinQuantity: 1, Unit: "kg", UnitPrice: 9})
	require.NoError(t, err)
	assert.Equal(t, "cat-1", item.ID)

	updated, err := svc.UpdateStockItem(item.ID, StockItemInput{Name: "Cocoa Extra", Quantity: 4, MinQuantity: 1, Unit: "kg", UnitPrice: 9})
	require.NoError(t, err)
	assert.Equal(t, "Cocoa Extra", updated.Name)

	require.NoError(t, svc.DeleteStockItem(item.ID))
	assert.Len(t, st.Snapshot().Stock, 2)

	_, err = svc.UpdateStockItem("ghost", StockItemInput{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOperationsRequireSession(t *testing.T) {
	svc, st := newTestService()
	st.Reset()

	_, err := svc.CreateProduct(ProductInput{Name: "Bolo"})
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = svc.CreateStockItem(StockItemInput{Name: "Flour"})
	assert.ErrorIs(t, err, ErrNoSession)
}
