// Package agenda manages scheduled orders and the customer book.
package agenda

import (
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

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

// Service manages the orders and customers collections.
type Service struct {
	store  *store.Store
	ids    ids.Generator
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs the agenda service.
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

// OrderInput carries the writable order fields.
type OrderInput struct {
	ClientName    string    `json:"clientName" binding:"required"`
	Description   string    `json:"description"`
	DeliveryDate  time.Time `json:"deliveryDate" binding:"required"`
	Value         float64   `json:"value"`
	Cost          float64   `json:"cost"`
	PaymentMethod string    `json:"paymentMethod"`
}

func (in OrderInput) validate() error {
	if strings.TrimSpace(in.ClientName) == "" || in.DeliveryDate.IsZero() {
		return ErrInvalidInput
	}
	if in.Value < 0 || in.Cost < 0 {
		return ErrInvalidInput
	}
	return nil
}

// CreateOrder schedules a new order, starting in the pending state.
func (s *Service) CreateOrder(in OrderInput) (models.Order, error) {
	if err := in.validate(); err != nil {
		return models.Order{}, err
	}

	var created models.Order
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		created = models.Order{
			ID:            s.ids.NewID(),
			CompanyID:     st.User.CompanyID,
			ClientName:    in.ClientName,
			Description:   in.Description,
			DeliveryDate:  in.DeliveryDate,
			Value:         in.Value,
			Cost:          in.Cost,
			PaymentMethod: in.PaymentMethod,
			Status:        models.OrderPending,
		}
		st.Orders = append(st.Orders, created)
		return st
	})

	if opErr != nil {
		return models.Order{}, opErr
	}

	s.logger.Info("order scheduled", zap.String("order_id", created.ID), zap.Time("delivery", created.DeliveryDate))
	return created, nil
}

// ToggleOrderStatus flips an order between pending and delivered.
func (s *Service) ToggleOrderStatus(id string) (models.Order, error) {
	var updated models.Order
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		for i, o := range st.Orders {
			if o.ID != id {
				continue
			}
			if o.Status == models.OrderPending {
				o.Status = models.OrderDelivered
			} else {
				o.Status = models.OrderPending
			}
			st.Orders[i] = o
			updated = o
			return st
		}
		opErr = ErrNotFound
		return st
	})

	if opErr != nil {
		return models.Order{}, opErr
	}
	return updated, nil
}

// DeleteOrder removes an order (local filter, no tombstone).
func (s *Service) DeleteOrder(id string) error {
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		kept := st.Orders[:0]
		found := false
		for _, o := range st.Orders {
			if o.ID == id {
				found = true
				continue
			}
			kept = append(kept, o)
		}
		if !found {
			opErr = ErrNotFound
			return st
		}
		st.Orders = kept
		return st
	})

	return opErr
}

// Upcoming lists pending orders due within the next n days, soonest first.
func (s *Service) Upcoming(days int) []models.Order {
	st := s.store.Snapshot()
	now := s.now()
	horizon := now.AddDate(0, 0, days)

	upcoming := []models.Order{}
	for _, o := range st.Orders {
		if o.Status != models.OrderPending {
			continue
		}
		if o.DeliveryDate.Before(now) || o.DeliveryDate.After(horizon) {
			continue
		}
		upcoming = append(upcoming, o)
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].DeliveryDate.Before(upcoming[j].DeliveryDate)
	})
	return upcoming
}

// CustomerInput carries the writable customer fields.
type CustomerInput struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// CreateCustomer adds a customer with a zero purchase counter.
func (s *Service) CreateCustomer(in CustomerInput) (models.Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Customer{}, ErrInvalidInput
	}

	var created models.Customer
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		created = models.Customer{
			ID:        s.ids.NewID(),
			CompanyID: st.User.CompanyID,
			Name:      in.Name,
			Phone:     in.Phone,
			Address:   in.Address,
			Notes:     in.Notes,
		}
		st.Customers = append(st.Customers, created)
		return st
	})

	if opErr != nil {
		return models.Customer{}, opErr
	}
	return created, nil
}

// UpdateCustomer rewrites a customer's contact fields. The purchase counter
// is owned by checkout and never edited here.
func (s *Service) UpdateCustomer(id string, in CustomerInput) (models.Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Customer{}, ErrInvalidInput
	}

	var updated models.Customer
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		for i, c := range st.Customers {
			if c.ID != id {
				continue
			}
			c.Name = in.Name
			c.Phone = in.Phone
			c.Address = in.Address
			c.Notes = in.Notes
			st.Customers[i] = c
			updated = c
			return st
		}
		opErr = ErrNotFound
		return st
	})

	if opErr != nil {
		return models.Customer{}, opErr
	}
	return updated, nil
}

// DeleteCustomer removes a customer (local filter, no tombstone).
func (s *Service) DeleteCustomer(id string) error {
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		kept := st.Customers[:0]
		found := false
		for _, c := range st.Customers {
			if c.ID == id {
				found = true
				continue
			}
			kept = append(kept, c)
		}
		if !found {
			opErr = ErrNotFound
			return st
		}
		st.Customers = kept
		return st
	})

	return opErr
}
