// Package pos implements the point-of-sale operations: checkout and
// production runs. Both validate synchronously before mutating the state
// document, so a rejected operation leaves no partial write behind.
package pos

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/docelar/docelar/internal/derive"
	"github.com/docelar/docelar/internal/domain/models"
	"github.com/docelar/docelar/internal/store"
	"github.com/docelar/docelar/pkg/ids"
)

// ErrNoSession indicates an operation was attempted while logged out.
var ErrNoSession = errors.New("no active session")

// ErrProductNotFound indicates the referenced product does not exist.
var ErrProductNotFound = errors.New("product not found")

// ErrCustomerNotFound indicates the referenced customer does not exist.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrInvalidQuantity indicates a non-positive quantity.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// ErrInsufficientStock indicates the on-hand quantity cannot cover the
// operation.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrMissingIngredient indicates the recipe references a stock item that no
// longer exists.
var ErrMissingIngredient = errors.New("recipe references unknown stock item")

// Service executes sales and production runs against the state store.
type Service struct {
	store  *store.Store
	ids    ids.Generator
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs the point-of-sale service.
func NewService(st *store.Store, gen ids.Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  st,
		ids:    gen,
		logger: logger,
		now:    time.Now,
	}
}

// CheckoutInput describes one counter sale.
type CheckoutInput struct {
	ProductID     string `json:"productId" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
	CustomerID    string `json:"customerId"`
}

// Checkout records an immutable sale: the product quantity is decremented,
// the commission for the acting user is computed once and frozen onto the
// record, and the customer's purchase counter is incremented when the sale is
// attributed.
func (s *Service) Checkout(in CheckoutInput) (models.Sale, error) {
	if in.Quantity <= 0 {
		return models.Sale{}, ErrInvalidQuantity
	}

	var sale models.Sale
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		productIdx := -1
		for i, p := range st.Products {
			if p.ID == in.ProductID {
				productIdx = i
				break
			}
		}
		if productIdx == -1 {
			opErr = ErrProductNotFound
			return st
		}

		product := st.Products[productIdx]
		if product.Quantity < in.Quantity {
			opErr = fmt.Errorf("%w: %s has %d on hand", ErrInsufficientStock, product.Name, product.Quantity)
			return st
		}

		customerIdx := -1
		if in.CustomerID != "" {
			for i, c := range st.Customers {
				if c.ID == in.CustomerID {
					customerIdx = i
					break
				}
			}
			if customerIdx == -1 {
				opErr = ErrCustomerNotFound
				return st
			}
		}

		session := *st.User
		total := product.Price * float64(in.Quantity)

		sale = models.Sale{
			ID:              s.ids.NewID(),
			CompanyID:       session.CompanyID,
			ProductID:       product.ID,
			ProductName:     product.Name,
			Quantity:        in.Quantity,
			Total:           total,
			UnitCost:        product.Cost,
			PaymentMethod:   in.PaymentMethod,
			Date:            s.now(),
			CommissionValue: derive.CommissionFor(st, session, total),
			CustomerID:      in.CustomerID,
		}
		if session.Role.EarnsCommission() {
			sale.SellerEmail = session.Email
			sale.SellerName = session.Name
		}

		st.Products[productIdx].Quantity -= in.Quantity
		if customerIdx != -1 {
			st.Customers[customerIdx].Purchases++
		}
		st.Sales = append(st.Sales, sale)
		return st
	})

	if opErr != nil {
		return models.Sale{}, opErr
	}

	s.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("product", sale.ProductName),
		zap.Int("quantity", sale.Quantity),
		zap.Float64("total", sale.Total))
	return sale, nil
}

// ProduceInput describes one manufacturing run, in whole recipe batches.
type ProduceInput struct {
	ProductID string `json:"productId" binding:"required"`
	Batches   int    `json:"batches" binding:"required"`
}

// Produce executes a production run: every ingredient must be coverable from
// stock or the whole run is rejected. On success the stock decrements, the
// product quantity increment and the production record land as one atomic
// update.
func (s *Service) Produce(in ProduceInput) (models.Production, error) {
	if in.Batches <= 0 {
		return models.Production{}, ErrInvalidQuantity
	}

	var run models.Production
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		productIdx := -1
		for i, p := range st.Products {
			if p.ID == in.ProductID {
				productIdx = i
				break
			}
		}
		if productIdx == -1 {
			opErr = ErrProductNotFound
			return st
		}
		product := st.Products[productIdx]

		stockIdx := make(map[string]int, len(st.Stock))
		for i, item := range st.Stock {
			stockIdx[item.ID] = i
		}

		// Validate the full consumption before touching anything.
		var totalCost float64
		for _, ing := range product.Ingredients {
			i, ok := stockIdx[ing.StockItemID]
			if !ok {
				opErr = fmt.Errorf("%w: %s", ErrMissingIngredient, ing.StockItemID)
				return st
			}
			need := ing.Quantity * float64(in.Batches)
			item := st.Stock[i]
			if item.Quantity < need {
				opErr = fmt.Errorf("%w: %s needs %.2f %s, has %.2f", ErrInsufficientStock, item.Name, need, item.Unit, item.Quantity)
				return st
			}
			totalCost += item.UnitPrice * need
		}

		yield := product.Yield
		if yield <= 0 {
			yield = 1
		}
		produced := int(yield * float64(in.Batches))

		for _, ing := range product.Ingredients {
			i := stockIdx[ing.StockItemID]
			st.Stock[i].Quantity -= ing.Quantity * float64(in.Batches)
		}
		st.Products[productIdx].Quantity += produced

		run = models.Production{
			ID:          s.ids.NewID(),
			CompanyID:   st.User.CompanyID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    produced,
			TotalCost:   totalCost,
			Date:        s.now(),
		}
		st.Productions = append(st.Productions, run)
		return st
	})

	if opErr != nil {
		return models.Production{}, opErr
	}

	s.logger.Info("production run recorded",
		zap.String("production_id", run.ID),
		zap.String("product", run.ProductName),
		zap.Int("quantity", run.Quantity),
		zap.Float64("cost", run.TotalCost))
	return run, nil
}
