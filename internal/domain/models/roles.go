package models

// Role governs which application actions a collaborator may perform and
// whether their sales accrue commission.
type Role string

const (
	RoleOwner     Role = "owner"
	RolePartner   Role = "partner"
	RoleAssistant Role = "assistant"
	RoleSeller    Role = "seller"
)

// Action enumerates the capabilities consulted by the commission, remote-push
// and management logic. All role branching goes through this single table.
type Action string

const (
	ActionPushRemote     Action = "push_remote"
	ActionManageTeam     Action = "manage_team"
	ActionManageCatalog  Action = "manage_catalog"
	ActionCheckout       Action = "checkout"
	ActionViewReports    Action = "view_reports"
	ActionEarnCommission Action = "earn_commission"
)

var capabilities = map[Role]map[Action]bool{
	RoleOwner: {
		ActionPushRemote:    true,
		ActionManageTeam:    true,
		ActionManageCatalog: true,
		ActionCheckout:      true,
		ActionViewReports:   true,
	},
	RolePartner: {
		ActionPushRemote:    true,
		ActionManageTeam:    true,
		ActionManageCatalog: true,
		ActionCheckout:      true,
		ActionViewReports:   true,
	},
	RoleAssistant: {
		ActionManageCatalog:  true,
		ActionCheckout:       true,
		ActionViewReports:    true,
		ActionEarnCommission: true,
	},
	RoleSeller: {
		ActionCheckout:       true,
		ActionEarnCommission: true,
	},
}

// Can reports whether the role is allowed to perform the action. Unknown
// roles have no capabilities.
func (r Role) Can(action Action) bool {
	return capabilities[r][action]
}

// EarnsCommission reports whether sales by this role accrue commission.
func (r Role) EarnsCommission() bool {
	return r.Can(ActionEarnCommission)
}

// Collaborator maps an email identity to a role and an optional commission
// rate (a percentage; zero means "use the tenant default").
type Collaborator struct {
	ID             string  `json:"id" bson:"id"`
	CompanyID      string  `json:"companyId" bson:"companyId"`
	Email          string  `json:"email" bson:"email"`
	Name           string  `json:"name" bson:"name"`
	Role           Role    `json:"role" bson:"role"`
	CommissionRate float64 `json:"commissionRate" bson:"commissionRate"`
}
