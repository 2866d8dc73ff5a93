package models

// Ingredient links a product recipe to a stock item, with the quantity
// consumed per production batch.
type Ingredient struct {
	StockItemID string  `json:"stockItemId" bson:"stockItemId"`
	Quantity    float64 `json:"quantity" bson:"quantity"`
}

// Product is a finished good sold at the counter. Once a recipe exists, Cost
// is derived from the ingredient list and yield and is no longer authoritative
// on its own; callers recompute it inline with any mutation of its inputs.
type Product struct {
	ID        string  `json:"id" bson:"id"`
	CompanyID string  `json:"companyId" bson:"companyId"`
	Name      string  `json:"name" bson:"name"`
	Category  string  `json:"category" bson:"category"`
	Cost      float64 `json:"cost" bson:"cost"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	// Yield is the number of units one production batch produces.
	Yield       float64      `json:"yield" bson:"yield"`
	Ingredients []Ingredient `json:"ingredients" bson:"ingredients"`
	Image       string       `json:"image,omitempty" bson:"image,omitempty"`
	// Pricing-assistant parameters.
	OverheadPercent     float64 `json:"overheadPercent" bson:"overheadPercent"`
	TargetMarginPercent float64 `json:"targetMarginPercent" bson:"targetMarginPercent"`
}

// Clone deep-copies the product, including its recipe.
func (p Product) Clone() Product {
	out := p
	out.Ingredients = append([]Ingredient(nil), p.Ingredients...)
	return out
}

// StockItem is a raw material. Quantity is decremented only by production
// runs and never goes negative.
type StockItem struct {
	ID          string  `json:"id" bson:"id"`
	CompanyID   string  `json:"companyId" bson:"companyId"`
	Name        string  `json:"name" bson:"name"`
	Quantity    float64 `json:"quantity" bson:"quantity"`
	MinQuantity float64 `json:"minQuantity" bson:"minQuantity"`
	Unit        string  `json:"unit" bson:"unit"`
	UnitPrice   float64 `json:"unitPrice" bson:"unitPrice"`
}
