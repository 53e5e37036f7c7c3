package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReplenishmentStatus tracks the replenishment state machine:
// DRAFT -> RECEIVED or DRAFT -> CANCELLED. RECEIVED and CANCELLED are
// terminal.
type ReplenishmentStatus string

const (
	ReplenishmentDraft     ReplenishmentStatus = "DRAFT"
	ReplenishmentReceived  ReplenishmentStatus = "RECEIVED"
	ReplenishmentCancelled ReplenishmentStatus = "CANCELLED"
)

// Replenishment is a batched stock-inbound request for one shop. Receiving
// it emits one RESTOCK movement per line item, atomically with the status
// transition.
type Replenishment struct {
	BaseModel
	ShopID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"shop_id" validate:"uuid_required"`
	SupplierName string              `gorm:"type:varchar(255)" json:"supplier_name,omitempty"`
	Status       ReplenishmentStatus `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`
	TotalCost    int64               `gorm:"not null;default:0" json:"total_cost"`
	ReceivedAt   *time.Time          `json:"received_at,omitempty"`

	Shop  *Shop               `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	Items []ReplenishmentItem `gorm:"foreignKey:ReplenishmentID" json:"items,omitempty"`
}

func (Replenishment) TableName() string {
	return "stock_replenishments"
}

// IsDraft reports whether the replenishment can still transition.
func (r *Replenishment) IsDraft() bool {
	return r.Status == ReplenishmentDraft
}

// IsTerminal reports whether the replenishment has left DRAFT for good.
func (r *Replenishment) IsTerminal() bool {
	return r.Status == ReplenishmentReceived || r.Status == ReplenishmentCancelled
}

// ReplenishmentItem is one product/quantity/unit-cost line. Items are fixed
// once the parent leaves DRAFT.
type ReplenishmentItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReplenishmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"replenishment_id"`
	ProductKey      string    `gorm:"type:varchar(50);not null" json:"product_key" validate:"required,product_key"`
	Quantity        int       `gorm:"not null" json:"quantity" validate:"gte=0"`
	UnitCost        int64     `gorm:"not null;default:0" json:"unit_cost"`
}

func (ReplenishmentItem) TableName() string {
	return "stock_replenishment_items"
}

func (i *ReplenishmentItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ItemsTotal computes the replenishment cost as the sum of qty x unit cost.
func ItemsTotal(items []ReplenishmentItem) int64 {
	var total int64
	for _, item := range items {
		total += int64(item.Quantity) * item.UnitCost
	}
	return total
}
