// Package catalog manages products (with their recipes and pricing
// parameters) and raw-material stock items. Product unit cost is derived from
// the recipe; any mutation of its inputs recomputes it inline, since the
// store runs no triggers.
package catalog

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/docelar/docelar/internal/derive"
	"github.com/docelar/docelar/internal/domain/models"
	"github.com/docelar/docelar/internal/store"
	"github.com/docelar/docelar/pkg/ids"
)

// ErrNoSession indicates an operation was attempted while logged out.
var ErrNoSession = errors.New("no active session")

// ErrNotFound indicates the referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInvalidInput indicates a missing or out-of-range field.
var ErrInvalidInput = errors.New("invalid input")

// Service manages the product and stock collections.
type Service struct {
	store  *store.Store
	ids    ids.Generator
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs the catalog service.
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

// ProductInput carries the writable product fields. Cost is only
// authoritative while the product has no recipe.
type ProductInput struct {
	Name                string              `json:"name" binding:"required"`
	Category            string              `json:"category"`
	Cost                float64             `json:"cost"`
	Price               float64             `json:"price"`
	Quantity            int                 `json:"quantity"`
	Yield               float64             `json:"yield"`
	Ingredients         []models.Ingredient `json:"ingredients"`
	Image               string              `json:"image"`
	OverheadPercent     float64             `json:"overheadPercent"`
	TargetMarginPercent float64             `json:"targetMarginPercent"`
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrInvalidInput
	}
	if in.Price < 0 || in.Cost < 0 || in.Quantity < 0 {
		return ErrInvalidInput
	}
	for _, ing := range in.Ingredients {
		if ing.StockItemID == "" || ing.Quantity < 0 {
			return ErrInvalidInput
		}
	}
	return nil
}

func (in ProductInput) apply(p models.Product, stock []models.StockItem) models.Product {
	p.Name = in.Name
	p.Category = in.Category
	p.Price = in.Price
	p.Quantity = in.Quantity
	p.Yield = in.Yield
	p.Ingredients = append([]models.Ingredient(nil), in.Ingredients...)
	p.Image = in.Image
	p.OverheadPercent = in.OverheadPercent
	p.TargetMarginPercent = in.TargetMarginPercent

	if len(p.Ingredients) > 0 {
		p.Cost = derive.UnitCost(p, stock)
	} else {
		p.Cost = in.Cost
	}
	return p
}

// CreateProduct adds a product. When a recipe is present the unit cost is
// derived from it immediately.
func (s *Service) CreateProduct(in ProductInput) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}

	var created models.Product
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		created = in.apply(models.Product{
			ID:        s.ids.NewID(),
			CompanyID: st.User.CompanyID,
		}, st.Stock)
		st.Products = append(st.Products, created)
		return st
	})

	if opErr != nil {
		return models.Product{}, opErr
	}

	s.logger.Info("product created", zap.String("product_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// UpdateProduct rewrites a product's fields, recomputing the derived unit
// cost from the (possibly changed) recipe, yield and overhead.
func (s *Service) UpdateProduct(id string, in ProductInput) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}

	var updated models.Product
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		for i, p := range st.Products {
			if p.ID == id {
				updated = in.apply(p, st.Stock)
				st.Products[i] = updated
				return st
			}
		}
		opErr = ErrNotFound
		return st
	})

	if opErr != nil {
		return models.Product{}, opErr
	}
	return updated, nil
}

// DeleteProduct removes a product. Deletion is a plain local filter; a pull
// from an out-of-date remote copy can resurrect the record.
func (s *Service) DeleteProduct(id string) error {
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		kept := st.Products[:0]
		found := false
		for _, p := range st.Products {
			if p.ID == id {
				found = true
				continue
			}
			kept = append(kept, p)
		}
		if !found {
			opErr = ErrNotFound
			return st
		}
		st.Products = kept
		return st
	})

	return opErr
}

// PriceQuote is the pricing assistant's answer for one product.
type PriceQuote struct {
	ProductID      string  `json:"productId"`
	UnitCost       float64 `json:"unitCost"`
	SuggestedPrice float64 `json:"suggestedPrice"`
	CurrentMargin  float64 `json:"currentMargin"`
}

// SuggestPrice computes the price realizing the product's target margin on
// its current derived unit cost.
func (s *Service) SuggestPrice(id string) (PriceQuote, error) {
	st := s.store.Snapshot()

	for _, p := range st.Products {
		if p.ID != id {
			continue
		}

		cost := p.Cost
		if len(p.Ingredients) > 0 {
			cost = derive.UnitCost(p, st.Stock)
		}

		return PriceQuote{
			ProductID:      p.ID,
			UnitCost:       cost,
			SuggestedPrice: derive.SuggestedPrice(cost, p.TargetMarginPercent/100),
			CurrentMargin:  derive.Margin(p.Price, cost),
		}, nil
	}

	return PriceQuote{}, ErrNotFound
}

// StockItemInput carries the writable stock item fields.
type StockItemInput struct {
	Name        string  `json:"name" binding:"required"`
	Quantity    float64 `json:"quantity"`
	MinQuantity float64 `json:"minQuantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
}

func (in StockItemInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrInvalidInput
	}
	if in.Quantity < 0 || in.MinQuantity < 0 || in.UnitPrice < 0 {
		return ErrInvalidInput
	}
	return nil
}

// CreateStockItem adds a raw material.
func (s *Service) CreateStockItem(in StockItemInput) (models.StockItem, error) {
	if err := in.validate(); err != nil {
		return models.StockItem{}, err
	}

	var created models.StockItem
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		created = models.StockItem{
			ID:          s.ids.NewID(),
			CompanyID:   st.User.CompanyID,
			Name:        in.Name,
			Quantity:    in.Quantity,
			MinQuantity: in.MinQuantity,
			Unit:        in.Unit,
			UnitPrice:   in.UnitPrice,
		}
		st.Stock = append(st.Stock, created)
		return st
	})

	if opErr != nil {
		return models.StockItem{}, opErr
	}
	return created, nil
}

// UpdateStockItem rewrites a stock item. A changed unit price feeds every
// recipe referencing the item, so the affected products' derived costs are
// recomputed in the same mutation.
func (s *Service) UpdateStockItem(id string, in StockItemInput) (models.StockItem, error) {
	if err := in.validate(); err != nil {
		return models.StockItem{}, err
	}

	var updated models.StockItem
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		idx := -1
		for i, item := range st.Stock {
			if item.ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			opErr = ErrNotFound
			return st
		}

		item := st.Stock[idx]
		priceChanged := item.UnitPrice != in.UnitPrice
		item.Name = in.Name
		item.Quantity = in.Quantity
		item.MinQuantity = in.MinQuantity
		item.Unit = in.Unit
		item.UnitPrice = in.UnitPrice
		st.Stock[idx] = item
		updated = item

		if priceChanged {
			for i, p := range st.Products {
				if len(p.Ingredients) == 0 {
					continue
				}
				for _, ing := range p.Ingredients {
					if ing.StockItemID == id {
						st.Products[i].Cost = derive.UnitCost(p, st.Stock)
						break
					}
				}
			}
		}
		return st
	})

	if opErr != nil {
		return models.StockItem{}, opErr
	}
	return updated, nil
}

// DeleteStockItem removes a raw material. Same local-filter semantics as
// DeleteProduct; recipes referencing the item will fail production until
// edited.
func (s *Service) DeleteStockItem(id string) error {
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		kept := st.Stock[:0]
		found := false
		for _, item := range st.Stock {
			if item.ID == id {
				found = true
				continue
			}
			kept = append(kept, item)
		}
		if !found {
			opErr = ErrNotFound
			return st
		}
		st.Stock = kept
		return st
	})

	return opErr
}
