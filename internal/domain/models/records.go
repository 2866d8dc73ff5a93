package models

import "time"

// Sale is an immutable checkout record. CommissionValue is computed once at
// sale time and frozen; later changes to collaborator rates never alter it.
type Sale struct {
	ID            string    `json:"id" bson:"id"`
	CompanyID     string    `json:"companyId" bson:"companyId"`
	ProductID     string    `json:"productId" bson:"productId"`
	ProductName   string    `json:"productName" bson:"productName"`
	Quantity      int       `json:"quantity" bson:"quantity"`
	Total         float64   `json:"total" bson:"total"`
	UnitCost      float64   `json:"unitCost" bson:"unitCost"`
	PaymentMethod string    `json:"paymentMethod" bson:"paymentMethod"`
	Date          time.Time `json:"date" bson:"date"`
	SellerEmail   string    `json:"sellerEmail,omitempty" bson:"sellerEmail,omitempty"`
	SellerName    string    `json:"sellerName,omitempty" bson:"sellerName,omitempty"`
	// CommissionValue is an absolute amount, not a rate.
	CommissionValue float64 `json:"commissionValue" bson:"commissionValue"`
	CustomerID      string  `json:"customerId,omitempty" bson:"customerId,omitempty"`
}

// Production is an immutable record of one manufacturing run: ingredients
// consumed from stock, finished units added to the product.
type Production struct {
	ID          string    `json:"id" bson:"id"`
	CompanyID   string    `json:"companyId" bson:"companyId"`
	ProductID   string    `json:"productId" bson:"productId"`
	ProductName string    `json:"productName" bson:"productName"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	TotalCost   float64   `json:"totalCost" bson:"totalCost"`
	Date        time.Time `json:"date" bson:"date"`
}

// OrderStatus is a binary toggle; there are no intermediate states.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderDelivered OrderStatus = "delivered"
)

// Order is a scheduled agenda entry for a future delivery.
type Order struct {
	ID            string      `json:"id" bson:"id"`
	CompanyID     string      `json:"companyId" bson:"companyId"`
	ClientName    string      `json:"clientName" bson:"clientName"`
	Description   string      `json:"description" bson:"description"`
	DeliveryDate  time.Time   `json:"deliveryDate" bson:"deliveryDate"`
	Value         float64     `json:"value" bson:"value"`
	Cost          float64     `json:"cost" bson:"cost"`
	PaymentMethod string      `json:"paymentMethod" bson:"paymentMethod"`
	Status        OrderStatus `json:"status" bson:"status"`
}

// Customer tracks a repeat buyer. Purchases is incremented on every sale
// attributed to the customer.
type Customer struct {
	ID        string `json:"id" bson:"id"`
	CompanyID string `json:"companyId" bson:"companyId"`
	Name      string `json:"name" bson:"name"`
	Phone     string `json:"phone" bson:"phone"`
	Address   string `json:"address,omitempty" bson:"address,omitempty"`
	Notes     string `json:"notes,omitempty" bson:"notes,omitempty"`
	Purchases int    `json:"purchases" bson:"purchases"`
}

// Expense is an operating cost. Fixed expenses feed the break-even
// computation; variable ones only affect net profit.
type Expense struct {
	ID          string    `json:"id" bson:"id"`
	CompanyID   string    `json:"companyId" bson:"companyId"`
	Description string    `json:"description" bson:"description"`
	Value       float64   `json:"value" bson:"value"`
	Date        time.Time `json:"date" bson:"date"`
	Fixed       bool      `json:"fixed" bson:"fixed"`
}
