// Package finance manages expenses and assembles the report figures the
// dashboard shows: revenue, break-even, net profit, stock alerts, seller
// ranking and VIP customers. All figures are recomputed from the current
// snapshot on every request.
package finance

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

// Service manages expenses and reads the derived financial figures.
type Service struct {
	store  *store.Store
	ids    ids.Generator
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs the finance service.
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

// ExpenseInput carries the writable expense fields.
type ExpenseInput struct {
	Description string    `json:"description" binding:"required"`
	Value       float64   `json:"value" binding:"required"`
	Date        time.Time `json:"date"`
	Fixed       bool      `json:"fixed"`
}

// CreateExpense records an operating cost. A zero date means "now".
func (s *Service) CreateExpense(in ExpenseInput) (models.Expense, error) {
	if strings.TrimSpace(in.Description) == "" || in.Value <= 0 {
		return models.Expense{}, ErrInvalidInput
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	var created models.Expense
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		created = models.Expense{
			ID:          s.ids.NewID(),
			CompanyID:   st.User.CompanyID,
			Description: in.Description,
			Value:       in.Value,
			Date:        date,
			Fixed:       in.Fixed,
		}
		st.Expenses = append(st.Expenses, created)
		return st
	})

	if opErr != nil {
		return models.Expense{}, opErr
	}
	return created, nil
}

// DeleteExpense removes an expense (local filter, no tombstone).
func (s *Service) DeleteExpense(id string) error {
	var opErr error

	s.store.Update(func(st models.AppState) models.AppState {
		if st.User == nil {
			opErr = ErrNoSession
			return st
		}

		kept := st.Expenses[:0]
		found := false
		for _, e := range st.Expenses {
			if e.ID == id {
				found = true
				continue
			}
			kept = append(kept, e)
		}
		if !found {
			opErr = ErrNotFound
			return st
		}
		st.Expenses = kept
		return st
	})

	return opErr
}

// Summary aggregates the dashboard figures for one evaluation instant.
type Summary struct {
	TodayRevenue    float64              `json:"todayRevenue"`
	MonthRevenue    float64              `json:"monthRevenue"`
	NetProfit       float64              `json:"netProfit"`
	BreakEvenPoint  float64              `json:"breakEvenPoint"`
	BreakEvenHealth float64              `json:"breakEvenHealth"`
	StockAlerts     []derive.StockAlert  `json:"stockAlerts"`
	TopSellers      []derive.SellerStats `json:"topSellers"`
	VIPCustomers    []models.Customer    `json:"vipCustomers"`
}

// Dashboard recomputes the full summary from the current snapshot.
func (s *Service) Dashboard() Summary {
	st := s.store.Snapshot()
	now := s.now()

	return Summary{
		TodayRevenue:    derive.DailyRevenue(st, now),
		MonthRevenue:    derive.MonthlyRevenue(st, now),
		NetProfit:       derive.NetProfit(st, now),
		BreakEvenPoint:  derive.BreakEvenPoint(st, now),
		BreakEvenHealth: derive.BreakEvenHealth(st, now),
		StockAlerts:     derive.StockAlerts(st),
		TopSellers:      derive.SellerPerformance(st, now),
		VIPCustomers:    derive.MonthlyVIPs(st, now),
	}
}

// SellerPerformance ranks the current month's sales by seller.
func (s *Service) SellerPerformance() []derive.SellerStats {
	return derive.SellerPerformance(s.store.Snapshot(), s.now())
}

// MonthlyVIPs lists the VIP customers of the current month.
func (s *Service) MonthlyVIPs() []models.Customer {
	return derive.MonthlyVIPs(s.store.Snapshot(), s.now())
}
