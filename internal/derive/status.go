package derive

import (
	"sort"
	"time"

	"github.com/docelar/docelar/internal/domain/models"
)

// StockLevel classifies how close a stock item is to running out.
type StockLevel string

const (
	StockCritical StockLevel = "critical"
	StockWarning  StockLevel = "warning"
	StockOK       StockLevel = "ok"
)

// warningFactor widens the warning band above the minimum threshold. It is a
// fixed property of the classification, not configurable per item.
const warningFactor = 1.25

// StockStatus classifies a stock item: Critical at or below the minimum,
// Warning at or below min x 1.25 (inclusive), OK above that.
func StockStatus(item models.StockItem) StockLevel {
	switch {
	case item.Quantity <= item.MinQuantity:
		return StockCritical
	case item.Quantity <= item.MinQuantity*warningFactor:
		return StockWarning
	default:
		return StockOK
	}
}

// StockAlert pairs a stock item with its non-OK classification.
type StockAlert struct {
	Item  models.StockItem `json:"item"`
	Level StockLevel       `json:"level"`
}

// StockAlerts returns the critical and warning items, critical first.
func StockAlerts(st models.AppState) []StockAlert {
	alerts := []StockAlert{}
	for _, item := range st.Stock {
		if level := StockStatus(item); level != StockOK {
			alerts = append(alerts, StockAlert{Item: item, Level: level})
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Level == StockCritical && alerts[j].Level != StockCritical
	})
	return alerts
}

// vipThreshold is the number of attributed sales in a calendar month that
// makes a customer VIP-of-the-month.
const vipThreshold = 10

// MonthlyVIPs returns the customers with at least vipThreshold attributed
// sales in the month of ref, in their stored order.
func MonthlyVIPs(st models.AppState, ref time.Time) []models.Customer {
	counts := make(map[string]int)
	for _, sale := range st.Sales {
		if sale.CustomerID != "" && sameMonth(sale.Date, ref) {
			counts[sale.CustomerID]++
		}
	}

	vips := []models.Customer{}
	for _, c := range st.Customers {
		if counts[c.ID] >= vipThreshold {
			vips = append(vips, c)
		}
	}
	return vips
}

// SellerStats aggregates one seller's performance for a month.
type SellerStats struct {
	Seller     string  `json:"seller"`
	Email      string  `json:"email,omitempty"`
	Revenue    float64 `json:"revenue"`
	Commission float64 `json:"commission"`
	Sales      int     `json:"sales"`
}

// ownerBucket collects sales with no attributed seller.
const ownerBucket = "Owner"

// SellerPerformance groups the month's sales by seller identity, summing
// revenue, commission and count, ranked descending by revenue. Unattributed
// sales land in the "Owner" bucket.
func SellerPerformance(st models.AppState, ref time.Time) []SellerStats {
	byEmail := make(map[string]*SellerStats)
	order := []string{}

	for _, sale := range st.Sales {
		if !sameMonth(sale.Date, ref) {
			continue
		}

		key := sale.SellerEmail
		name := sale.SellerName
		if key == "" {
			key = ownerBucket
			name = ownerBucket
		}

		stats, ok := byEmail[key]
		if !ok {
			stats = &SellerStats{Seller: name}
			if key != ownerBucket {
				stats.Email = key
			}
			byEmail[key] = stats
			order = append(order, key)
		}

		stats.Revenue += sale.Total
		stats.Commission += sale.CommissionValue
		stats.Sales++
	}

	ranked := make([]SellerStats, 0, len(order))
	for _, key := range order {
		ranked = append(ranked, *byEmail[key])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue > ranked[j].Revenue
	})
	return ranked
}
