package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "stock:adjust"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Adjust Stock"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Shop management
	{Code: "shop:view", Name: "View Shop"},
	{Code: "shop:manage", Name: "Manage Shop"},
	{Code: "shop:activate", Name: "Activate Shop"},
	// Stock / inventory ledger
	{Code: "stock:view", Name: "View Stock"},
	{Code: "stock:adjust", Name: "Adjust Stock"},
	{Code: "stock:init", Name: "Initialize Product Line"},
	{Code: "stock:replenish", Name: "Manage Replenishments"},
	// Orders and receipts
	{Code: "order:view", Name: "View Order"},
	{Code: "order:approve", Name: "Approve Order Receipt"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}

// OwnerPrivilegeCodes are granted to shop owners; every call is additionally
// scoped to their own shop by the auth middleware.
var OwnerPrivilegeCodes = []string{
	"stock:view",
	"stock:adjust",
	"stock:replenish",
	"order:view",
	"dashboard:view",
}
