package derive

import (
	"math"
	"time"

	"github.com/docelar/docelar/internal/domain/models"
)

// fallbackMargin is used for the break-even computation when the month has no
// revenue yet (or a non-positive effective margin): assume a 30% margin so the
// figure stays defined instead of dividing by zero.
const fallbackMargin = 0.30

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// DailyRevenue sums sale totals for the calendar day of ref.
func DailyRevenue(st models.AppState, ref time.Time) float64 {
	var total float64
	for _, sale := range st.Sales {
		if sameDay(sale.Date, ref) {
			total += sale.Total
		}
	}
	return total
}

// MonthlyRevenue sums sale totals for the calendar month of ref (month+year
// equality, not a rolling window).
func MonthlyRevenue(st models.AppState, ref time.Time) float64 {
	var total float64
	for _, sale := range st.Sales {
		if sameMonth(sale.Date, ref) {
			total += sale.Total
		}
	}
	return total
}

// monthlyCOGS is the cost of goods sold: the frozen unit cost of each sale in
// the month times the quantity sold.
func monthlyCOGS(st models.AppState, ref time.Time) float64 {
	var total float64
	for _, sale := range st.Sales {
		if sameMonth(sale.Date, ref) {
			total += sale.UnitCost * float64(sale.Quantity)
		}
	}
	return total
}

func monthlyExpenses(st models.AppState, ref time.Time) (fixed, variable float64) {
	for _, e := range st.Expenses {
		if !sameMonth(e.Date, ref) {
			continue
		}
		if e.Fixed {
			fixed += e.Value
		} else {
			variable += e.Value
		}
	}
	return fixed, variable
}

func monthlyCommissions(st models.AppState, ref time.Time) float64 {
	var total float64
	for _, sale := range st.Sales {
		if sameMonth(sale.Date, ref) {
			total += sale.CommissionValue
		}
	}
	return total
}

func monthlyProductionCost(st models.AppState, ref time.Time) float64 {
	var total float64
	for _, p := range st.Productions {
		if sameMonth(p.Date, ref) {
			total += p.TotalCost
		}
	}
	return total
}

// EffectiveMargin is (revenue - COGS) / revenue for the month of ref, falling
// back to fallbackMargin when there is no revenue or the result would not be
// usable as a divisor.
func EffectiveMargin(st models.AppState, ref time.Time) float64 {
	revenue := MonthlyRevenue(st, ref)
	if revenue <= 0 {
		return fallbackMargin
	}

	margin := (revenue - monthlyCOGS(st, ref)) / revenue
	if margin <= 0 || math.IsNaN(margin) {
		return fallbackMargin
	}
	return margin
}

// BreakEvenPoint is the monthly revenue required for the month's fixed
// expenses to be covered at the effective margin.
func BreakEvenPoint(st models.AppState, ref time.Time) float64 {
	fixed, _ := monthlyExpenses(st, ref)
	return fixed / EffectiveMargin(st, ref)
}

// BreakEvenHealth is how far the month's revenue has come toward break-even,
// as a percentage clamped to [0,100]. A zero break-even point is trivially
// met, so it reports 100.
func BreakEvenHealth(st models.AppState, ref time.Time) float64 {
	point := BreakEvenPoint(st, ref)
	if point == 0 {
		return 100
	}

	health := MonthlyRevenue(st, ref) / point * 100
	if math.IsNaN(health) || health < 0 {
		return 0
	}
	return math.Min(100, health)
}

// NetProfit is the month's revenue minus production cost, fixed and variable
// expenses and commissions.
func NetProfit(st models.AppState, ref time.Time) float64 {
	fixed, variable := monthlyExpenses(st, ref)
	return MonthlyRevenue(st, ref) -
		(monthlyProductionCost(st, ref) + fixed + variable + monthlyCommissions(st, ref))
}

// CommissionRate looks up the commission percentage for a collaborator email,
// falling back to the tenant default when the collaborator is unknown or has
// no explicit rate.
func CommissionRate(st models.AppState, email string) float64 {
	for _, c := range st.Collaborators {
		if c.Email == email {
			if c.CommissionRate > 0 {
				return c.CommissionRate
			}
			break
		}
	}
	return st.Settings.DefaultCommissionRate
}

// CommissionFor computes the commission amount for a sale total made by the
// given session. Roles that do not earn commission always get zero. The
// result is frozen onto the sale record at checkout.
func CommissionFor(st models.AppState, session models.Session, saleTotal float64) float64 {
	if !session.Role.EarnsCommission() {
		return 0
	}
	return saleTotal * CommissionRate(st, session.Email) / 100
}
