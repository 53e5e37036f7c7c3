package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementKind classifies one ledger entry. Signs are conventional:
// SALE and TRANSFER_OUT are negative, ADJUSTMENT may be either sign,
// the rest are positive.
type MovementKind string

const (
	MovementInitial     MovementKind = "INITIAL"
	MovementRestock     MovementKind = "RESTOCK"
	MovementSale        MovementKind = "SALE"
	MovementAdjustment  MovementKind = "ADJUSTMENT"
	MovementTransferIn  MovementKind = "TRANSFER_IN"
	MovementTransferOut MovementKind = "TRANSFER_OUT"
	MovementReturn      MovementKind = "RETURN"
)

// MovementKinds lists every valid kind.
var MovementKinds = []MovementKind{
	MovementInitial,
	MovementRestock,
	MovementSale,
	MovementAdjustment,
	MovementTransferIn,
	MovementTransferOut,
	MovementReturn,
}

// Valid reports whether k is one of the enumerated movement kinds.
func (k MovementKind) Valid() bool {
	for _, known := range MovementKinds {
		if k == known {
			return true
		}
	}
	return false
}

// InventoryItem marks a catalog product as tracked for one shop.
// At most one row exists per (shop, product key); rows are deactivated,
// never hard-deleted.
type InventoryItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ShopID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_items_shop_product" json:"shop_id" validate:"uuid_required"`
	ProductKey   string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_items_shop_product" json:"product_key" validate:"required,product_key"`
	ReorderLevel int       `gorm:"not null;default:5" json:"reorder_level" validate:"gte=0"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`

	Shop *Shop `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Movement is one immutable ledger entry: a signed quantity delta against a
// shop's stock of one product. Current stock is the sum of all movements for
// the (shop, product key) pair; rows are never edited or deleted.
type Movement struct {
	ID         uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	ShopID     uuid.UUID    `gorm:"type:uuid;not null;index:idx_movements_shop" json:"shop_id" validate:"uuid_required"`
	ProductKey string       `gorm:"type:varchar(50);not null;index:idx_movements_product" json:"product_key" validate:"required,product_key"`
	Kind       MovementKind `gorm:"type:varchar(20);not null" json:"movement_type" validate:"required"`
	Quantity   int          `gorm:"not null" json:"quantity"` // signed; zero is rejected at the service boundary
	Reference  string       `gorm:"type:varchar(255)" json:"reference,omitempty"`
	UnitCost   *int64       `json:"unit_cost,omitempty"`
	CreatedBy  string       `gorm:"type:varchar(255)" json:"created_by,omitempty"`
	CreatedAt  time.Time    `gorm:"index:idx_movements_created" json:"created_at"`

	Shop *Shop `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
}

func (Movement) TableName() string {
	return "inventory_movements"
}

func (m *Movement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// StockStatus labels a derived stock level.
type StockStatus string

const (
	StockOut StockStatus = "OUT"
	StockLow StockStatus = "LOW"
	StockOK  StockStatus = "OK"
)

// StockLevel is the derived view for one (shop, product key) pair. It is
// computed from the movement ledger, never stored.
type StockLevel struct {
	ProductKey   string `json:"product_key"`
	CurrentStock int    `json:"current_stock"`
	ReorderLevel int    `json:"reorder_level"`
}

// Status classifies the level: OUT at or below zero, LOW at or below the
// reorder level, OK above it.
func (s StockLevel) Status() StockStatus {
	if s.CurrentStock <= 0 {
		return StockOut
	}
	if s.CurrentStock <= s.ReorderLevel {
		return StockLow
	}
	return StockOK
}
