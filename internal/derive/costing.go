// Package derive contains the pure read-only computations that project the
// application state into the figures the shop operates on: recipe costing,
// pricing, revenue, break-even, commissions, stock status and customer
// rankings. Every function is a pure function of a state snapshot plus an
// evaluation instant; nothing here caches or mutates.
package derive

import (
	"math"

	"github.com/docelar/docelar/internal/domain/models"
)

// UnitCost computes the cost of one produced unit from the product's recipe:
// the ingredient cost of a full batch, marked up by the overhead percentage,
// divided by the batch yield. A yield of zero or less is treated as one.
func UnitCost(p models.Product, stock []models.StockItem) float64 {
	prices := make(map[string]float64, len(stock))
	for _, item := range stock {
		prices[item.ID] = item.UnitPrice
	}

	var batchCost float64
	for _, ing := range p.Ingredients {
		batchCost += prices[ing.StockItemID] * ing.Quantity
	}

	batchCost *= 1 + p.OverheadPercent/100

	yield := p.Yield
	if yield <= 0 {
		yield = 1
	}

	cost := batchCost / yield
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 0
	}
	return cost
}

// SuggestedPrice returns the price that realizes the desired margin (0-1) on
// the given unit cost. Margins of 1 or more would divide by zero or produce a
// negative price, so they fall back to twice the cost.
func SuggestedPrice(cost, margin float64) float64 {
	if margin >= 1 {
		return 2 * cost
	}

	price := cost / (1 - margin)
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	return price
}

// Margin is the realized margin of a price over a cost, zero when price is 0.
func Margin(price, cost float64) float64 {
	if price == 0 {
		return 0
	}
	return (price - cost) / price
}
