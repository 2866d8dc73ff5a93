package pos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docelar/docelar/internal/domain/models"
	"github.com/docelar/docelar/internal/store"
	"github.com/docelar/docelar/pkg/ids"
)

var testNow = time.Date(2025, time.May, 20, 15, 0, 0, 0, time.UTC)

func newTestService(session *models.Session) (*Service, *store.Store) {
	st := store.New()
	state := models.NewAppState()
	state.User = session
	state.Products = []models.Product{
		{
			ID: "cake", Name: "Chocolate Cake", Price: 30, Cost: 12, Quantity: 5, Yield: 4,
			Ingredients: []models.Ingredient{
				{StockItemID: "flour", Quantity: 2},
				{StockItemID: "cocoa", Quantity: 1},
			},
		},
	}
	state.Stock = []models.StockItem{
		{ID: "flour", Name: "Flour", Quantity: 10, Unit: "kg", UnitPrice: 3},
		{ID: "cocoa", Name: "Cocoa", Quantity: 2, Unit: "kg", UnitPrice: 8},
	}
	state.Customers = []models.Customer{{ID: "c1", Name: "Maria", Purchases: 1}}
	state.Collaborators = []models.Collaborator{
		{Email: "ana@acme.com", Name: "Ana", Role: models.RoleSeller, CommissionRate: 10},
	}
	st.Replace(state)

	svc := NewService(st, ids.NewSequence("rec"), nil)
	svc.now = func() time.Time { return testNow }
	return svc, st
}

func owner() *models.Session {
	return &models.Session{UserID: "u1", CompanyID: "acme", Email: "o@acme.com", Role: models.RoleOwner, Name: "Olga"}
}

func seller() *models.Session {
	return &models.Session{UserID: "u2", CompanyID: "acme", Email: "ana@acme.com", Role: models.RoleSeller, Name: "Ana"}
}

func TestCheckoutRecordsSale(t *testing.T) {
	svc, st := newTestService(owner())

	sale, err := svc.Checkout(CheckoutInput{ProductID: "cake", Quantity: 2, PaymentMethod: "cash", CustomerID: "c1"})
	require.NoError(t, err)

	assert.Equal(t, "rec-1", sale.ID)
	assert.InDelta(t, 60.0, sale.Total, 1e-9)
	assert.InDelta(t, 12.0, sale.UnitCost, 1e-9)
	assert.Equal(t, testNow, sale.Date)
	assert.Zero(t, sale.CommissionValue) // owner sales accrue nothing
	assert.Empty(t, sale.SellerEmail)

	snap := st.Snapshot()
	assert.Equal(t, 3, snap.Products[0].Quantity)
	assert.Equal(t, 2, snap.Customers[0].Purchases)
	require.Len(t, snap.Sales, 1)
}

func TestCheckoutFreezesSellerCommission(t *testing.T) {
	svc, st := newTestService(seller())

	sale, err := svc.Checkout(CheckoutInput{ProductID: "cake", Quantity: 1, PaymentMethod: "pix"})
	require.NoError(t, err)

	assert.Equal(t, "ana@acme.com", sale.SellerEmail)
	assert.InDelta(t, 3.0, sale.CommissionValue, 1e-9) // 30 * 10%

	// Changing the rate afterwards must not touch the stored sale.
	st.Update(func(s models.AppState) models.AppState {
		s.Collaborators[0].CommissionRate = 50
		return s
	})

	stored := st.Snapshot().Sales[0]
	assert.InDelta(t, 3.0, stored.CommissionValue, 1e-9)
}

func TestCheckoutValidation(t *testing.T) {
	svc, st := newTestService(owner())

	_, err := svc.Checkout(CheckoutInput{ProductID: "cake", Quantity: 0, PaymentMethod: "cash"})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Checkout(CheckoutInput{ProductID: "ghost", Quantity: 1, PaymentMethod: "cash"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.Checkout(CheckoutInput{ProductID: "cake", Quantity: 99, PaymentMethod: "cash"})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.Checkout(CheckoutInput{ProductID: "cake", Quantity: 1, PaymentMethod: "cash", CustomerID: "ghost"})
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	// No partial writes from any rejected attempt.
	snap := st.Snapshot()
	assert.Empty(t, snap.Sales)
	assert.Equal(t, 5, snap.Products[0].Quantity)
	assert.Equal(t, 1, snap.Customers[0].Purchases)
}

func TestCheckoutWithoutSession(t *testing.T) {
	svc, _ := newTestService(nil)
	_, err := svc.Checkout(CheckoutInput{ProductID: "cake", Quantity: 1, PaymentMethod: "cash"})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestProduceConsumesStockAtomically(t *testing.T) {
	svc, st := newTestService(owner())

	run, err := svc.Produce(ProduceInput{ProductID: "cake", Batches: 2})
	require.NoError(t, err)

	// 2 batches x yield 4
	assert.Equal(t, 8, run.Quantity)
	// 2 batches x (2kg flour @3 + 1kg cocoa @8)
	assert.InDelta(t, 28.0, run.TotalCost, 1e-9)
	assert.Equal(t, testNow, run.Date)

	snap := st.Snapshot()
	assert.InDelta(t, 6.0, snap.Stock[0].Quantity, 1e-9)
	assert.InDelta(t, 0.0, snap.Stock[1].Quantity, 1e-9)
	assert.Equal(t, 13, snap.Products[0].Quantity)
	require.Len(t, snap.Productions, 1)
}

func TestProduceRejectsInsufficientStockWithoutPartialWrites(t *testing.T) {
	svc, st := newTestService(owner())

	// Three batches need 3kg cocoa; only 2kg on hand. Flour alone would cover.
	_, err := svc.Produce(ProduceInput{ProductID: "cake", Batches: 3})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	snap := st.Snapshot()
	assert.InDelta(t, 10.0, snap.Stock[0].Quantity, 1e-9)
	assert.InDelta(t, 2.0, snap.Stock[1].Quantity, 1e-9)
	assert.Equal(t, 5, snap.Products[0].Quantity)
	assert.Empty(t, snap.Productions)
}

func TestProduceUnknownIngredient(t *testing.T) {
	svc, st := newTestService(owner())
	st.Update(func(s models.AppState) models.AppState {
		s.Products[0].Ingredients = append(s.Products[0].Ingredients, models.Ingredient{StockItemID: "ghost", Quantity: 1})
		return s
	})

	_, err := svc.Produce(ProduceInput{ProductID: "cake", Batches: 1})
	assert.ErrorIs(t, err, ErrMissingIngredient)
}

func TestProduceZeroYieldTreatedAsOne(t *testing.T) {
	svc, st := newTestService(owner())
	st.Update(func(s models.AppState) models.AppState {
		s.Products[0].Yield = 0
		return s
	})

	run, err := svc.Produce(ProduceInput{ProductID: "cake", Batches: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, run.Quantity)
}
