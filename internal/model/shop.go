package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShopStatus tracks a reseller shop's lifecycle.
type ShopStatus string

const (
	ShopPending   ShopStatus = "PENDING"
	ShopActive    ShopStatus = "ACTIVE"
	ShopSuspended ShopStatus = "SUSPENDED"
)

// Shop is one reseller's storefront: the tenant boundary within which
// inventory is isolated.
type Shop struct {
	BaseModel
	Name                string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Slug                string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug" validate:"required"`
	UserID              uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id" validate:"uuid_required"`
	Status              ShopStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	PlanType            string     `gorm:"type:varchar(50)" json:"plan_type,omitempty"`
	PlanStatus          string     `gorm:"type:varchar(20);default:'inactive'" json:"plan_status"`
	Whatsapp            string     `gorm:"type:varchar(30)" json:"whatsapp,omitempty"`
	ContactInfo         string     `gorm:"type:text" json:"contact_info,omitempty"`
	PaymentInstructions string     `gorm:"type:text" json:"payment_instructions,omitempty"`
	LogoURL             string     `gorm:"type:text" json:"logo_url,omitempty"`
	SponsorRef          string     `gorm:"type:varchar(100)" json:"sponsor_ref,omitempty"`
	IsActive            bool       `gorm:"default:false" json:"is_active"`
	ActivatedAt         *time.Time `json:"activated_at,omitempty"`
	RenewalAt           *time.Time `json:"renewal_at,omitempty"`

	Owner *User `gorm:"foreignKey:UserID" json:"owner,omitempty"`
}

func (Shop) TableName() string {
	return "shops"
}

// SubscriptionStatus tracks a shop plan subscription.
type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "ACTIVE"
	SubscriptionExpired SubscriptionStatus = "EXPIRED"
)

// ShopSubscription records a reseller's plan purchase. Plans are the
// membership kit keys from the catalog.
type ShopSubscription struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"user_id" validate:"uuid_required"`
	Plan      string             `gorm:"type:varchar(50);not null" json:"plan" validate:"required"`
	Status    SubscriptionStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	StartedAt time.Time          `json:"started_at"`
	ExpiresAt *time.Time         `json:"expires_at,omitempty"`
}

func (ShopSubscription) TableName() string {
	return "shop_subscriptions"
}

func (s *ShopSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Expired reports whether the subscription has lapsed at the given instant.
func (s *ShopSubscription) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}
