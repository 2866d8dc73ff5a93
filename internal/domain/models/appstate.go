package models

// DefaultCommissionRate is the global fallback commission percentage applied
// when a seller has no per-collaborator rate configured.
const DefaultCommissionRate = 5.0

// Session identifies the authenticated user operating the application. It is
// supplied by the authentication boundary at login and is never overwritten by
// remote state during reconciliation.
type Session struct {
	UserID    string `json:"userId" bson:"userId"`
	CompanyID string `json:"companyId" bson:"companyId"`
	Email     string `json:"email" bson:"email"`
	Role      Role   `json:"role" bson:"role"`
	Name      string `json:"name" bson:"name"`
}

// Settings holds tenant-wide tunables carried inside the state document.
type Settings struct {
	DefaultCommissionRate float64 `json:"defaultCommissionRate" bson:"defaultCommissionRate"`
}

// AppState is the aggregate root: the whole business document for one tenant.
// It is mutated only through the store, serialized wholesale to the local
// durable store and to the remote spreadsheet-backed store.
type AppState struct {
	User          *Session       `json:"user,omitempty" bson:"user,omitempty"`
	Products      []Product      `json:"products" bson:"products"`
	Stock         []StockItem    `json:"stock" bson:"stock"`
	Sales         []Sale         `json:"sales" bson:"sales"`
	Productions   []Production   `json:"productions" bson:"productions"`
	Orders        []Order        `json:"orders" bson:"orders"`
	Customers     []Customer     `json:"customers" bson:"customers"`
	Expenses      []Expense      `json:"expenses" bson:"expenses"`
	Collaborators []Collaborator `json:"collaborators" bson:"collaborators"`
	Settings      Settings       `json:"settings" bson:"settings"`
}

// NewAppState returns the empty skeleton document used at login and whenever a
// persisted document cannot be loaded.
func NewAppState() AppState {
	st := AppState{}
	st.Settings.DefaultCommissionRate = DefaultCommissionRate
	return st.Normalized()
}

// Normalized defaults missing collections to empty slices so a malformed or
// partial persisted document never prevents the application from operating.
func (s AppState) Normalized() AppState {
	if s.Products == nil {
		s.Products = []Product{}
	}
	if s.Stock == nil {
		s.Stock = []StockItem{}
	}
	if s.Sales == nil {
		s.Sales = []Sale{}
	}
	if s.Productions == nil {
		s.Productions = []Production{}
	}
	if s.Orders == nil {
		s.Orders = []Order{}
	}
	if s.Customers == nil {
		s.Customers = []Customer{}
	}
	if s.Expenses == nil {
		s.Expenses = []Expense{}
	}
	if s.Collaborators == nil {
		s.Collaborators = []Collaborator{}
	}
	if s.Settings.DefaultCommissionRate == 0 {
		s.Settings.DefaultCommissionRate = DefaultCommissionRate
	}
	return s
}

// Clone returns a deep copy of the document. Snapshots handed out by the store
// must never alias the canonical slices.
func (s AppState) Clone() AppState {
	out := s

	if s.User != nil {
		user := *s.User
		out.User = &user
	}

	out.Products = make([]Product, len(s.Products))
	for i, p := range s.Products {
		out.Products[i] = p.Clone()
	}

	out.Stock = append([]StockItem(nil), s.Stock...)
	out.Sales = append([]Sale(nil), s.Sales...)
	out.Productions = append([]Production(nil), s.Productions...)
	out.Orders = append([]Order(nil), s.Orders...)
	out.Customers = append([]Customer(nil), s.Customers...)
	out.Expenses = append([]Expense(nil), s.Expenses...)
	out.Collaborators = append([]Collaborator(nil), s.Collaborators...)

	return out.Normalized()
}
