package model

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus tracks a storefront order. Payment is manual: the customer
// uploads a receipt and an admin approves or rejects it.
type OrderStatus string

const (
	OrderPending  OrderStatus = "PENDING"
	OrderApproved OrderStatus = "APPROVED"
	OrderRejected OrderStatus = "REJECTED"
)

// Order is one storefront purchase, priced server-side from the catalog.
type Order struct {
	BaseModel
	OrderRef        string      `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_ref"`
	ShopID          *uuid.UUID  `gorm:"type:uuid;index" json:"shop_id,omitempty"`
	UserID          *uuid.UUID  `gorm:"type:uuid;index" json:"user_id,omitempty"`
	CustomerName    string      `gorm:"type:varchar(255);not null" json:"customer_name" validate:"required"`
	CustomerEmail   string      `gorm:"type:varchar(255);not null" json:"customer_email" validate:"required,email"`
	CustomerPhone   string      `gorm:"type:varchar(30)" json:"customer_phone,omitempty"`
	Country         string      `gorm:"type:varchar(10);not null;default:'OTHER'" json:"country"`
	City            string      `gorm:"type:varchar(100)" json:"city,omitempty"`
	DeliveryAddress string      `gorm:"type:text" json:"delivery_address,omitempty"`
	CurrencyLabel   string      `gorm:"type:varchar(10);not null;default:'FCFA'" json:"currency_label"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Subtotal        int64       `gorm:"not null;default:0" json:"subtotal"`
	Total           int64       `gorm:"not null;default:0" json:"total"`

	Shop     *Shop            `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	Items    []OrderItem      `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Receipts []PaymentReceipt `gorm:"foreignKey:OrderID" json:"receipts,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// ItemType distinguishes catalog products from membership kits on a line.
const (
	ItemTypeProduct = "product"
	ItemTypeKit     = "kit"
)

// OrderItem is one priced line of an order.
type OrderItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ItemType   string    `gorm:"type:varchar(20);not null;default:'product'" json:"item_type"`
	ItemKey    string    `gorm:"type:varchar(50);not null" json:"item_key"`
	ItemName   string    `gorm:"type:varchar(255);not null" json:"item_name"`
	Quantity   int       `gorm:"not null;default:1" json:"quantity" validate:"gt=0"`
	UnitPrice  int64     `gorm:"not null;default:0" json:"unit_price"`
	TotalPrice int64     `gorm:"not null;default:0" json:"total_price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ReceiptStatus tracks an uploaded payment proof.
type ReceiptStatus string

const (
	ReceiptPending  ReceiptStatus = "PENDING"
	ReceiptApproved ReceiptStatus = "APPROVED"
	ReceiptRejected ReceiptStatus = "REJECTED"
)

// PaymentReceipt is an uploaded proof-of-payment for an order. The file
// itself lives in external storage; only the URL is recorded here.
type PaymentReceipt struct {
	ID         uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	OrderID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"order_id"`
	FileURL    string        `gorm:"type:text;not null" json:"file_url" validate:"required"`
	Status     ReceiptStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	AdminNotes string        `gorm:"type:text" json:"admin_notes,omitempty"`
	ReviewedBy string        `gorm:"type:varchar(255)" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time    `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

func (PaymentReceipt) TableName() string {
	return "payment_receipts"
}

func (r *PaymentReceipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// NewOrderRef builds a human-readable order reference: CMD-YYYYMMDD-XXXX.
func NewOrderRef(now time.Time) string {
	return fmt.Sprintf("CMD-%s-%04d", now.Format("20060102"), rand.Intn(10000))
}
