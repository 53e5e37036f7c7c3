package service

import (
	"strings"
	"time"

	"go-shopstock/internal/model"
	"go-shopstock/internal/repository"
	"go-shopstock/pkg/apperr"
	"go-shopstock/pkg/catalog"
	"go-shopstock/pkg/validator"

	"github.com/google/uuid"
)

// ShopService manages reseller shops and their plan subscriptions.
type ShopService interface {
	CreateShop(req *CreateShopRequest) (*model.Shop, error)
	ActivateShop(shopID uuid.UUID, plan, actor string) (*model.Shop, error)
	SuspendShop(shopID uuid.UUID, actor string) (*model.Shop, error)
	GetShop(shopID uuid.UUID) (*model.Shop, error)
	GetShopBySlug(slug string) (*model.Shop, error)
	GetShopByOwner(userID uuid.UUID) (*model.Shop, error)
	ListShops() ([]model.Shop, error)
}

type CreateShopRequest struct {
	Name                string    `json:"name" validate:"required"`
	Slug                string    `json:"slug" validate:"required"`
	UserID              uuid.UUID `json:"user_id" validate:"uuid_required"`
	Whatsapp            string    `json:"whatsapp"`
	ContactInfo         string    `json:"contact_info"`
	PaymentInstructions string    `json:"payment_instructions"`
	SponsorRef          string    `json:"sponsor_ref"`
	Actor               string    `json:"-"`
}

type shopService struct {
	shopRepo repository.ShopRepository
	invSvc   InventoryService
}

func NewShopService(shopRepo repository.ShopRepository, invSvc InventoryService) ShopService {
	return &shopService{
		shopRepo: shopRepo,
		invSvc:   invSvc,
	}
}

// CreateShop registers a new reseller shop in PENDING; it starts selling
// only after activation.
func (s *shopService) CreateShop(req *CreateShopRequest) (*model.Shop, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation("field %q failed on %q", first.FailedField, first.Tag)
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if existing, err := s.shopRepo.FindBySlug(slug); err == nil && existing != nil {
		return nil, apperr.Validation("slug %q is already taken", slug)
	} else if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	shop := &model.Shop{
		Name:                req.Name,
		Slug:                slug,
		UserID:              req.UserID,
		Status:              model.ShopPending,
		Whatsapp:            req.Whatsapp,
		ContactInfo:         req.ContactInfo,
		PaymentInstructions: req.PaymentInstructions,
		SponsorRef:          req.SponsorRef,
	}
	shop.CreatedBy = req.Actor
	shop.UpdatedBy = req.Actor

	if err := s.shopRepo.Create(shop); err != nil {
		return nil, err
	}
	return shop, nil
}

// ActivateShop flips a shop to ACTIVE under the given plan, records the
// subscription, and initializes the shop's product line so the owner sees
// the full catalog immediately.
func (s *shopService) ActivateShop(shopID uuid.UUID, plan, actor string) (*model.Shop, error) {
	if !catalog.IsKit(plan) {
		return nil, apperr.Validation("unknown plan %q", plan)
	}

	shop, err := s.shopRepo.FindByID(shopID)
	if err != nil {
		return nil, err
	}
	if shop.Status == model.ShopActive {
		return nil, apperr.State("shop is already active")
	}

	now := time.Now()
	renewal := now.AddDate(0, 1, 0)
	shop.Status = model.ShopActive
	shop.IsActive = true
	shop.PlanType = plan
	shop.PlanStatus = "active"
	shop.ActivatedAt = &now
	shop.RenewalAt = &renewal
	shop.UpdatedBy = actor

	if err := s.shopRepo.Update(shop); err != nil {
		return nil, err
	}

	expires := renewal
	sub := &model.ShopSubscription{
		UserID:    shop.UserID,
		Plan:      plan,
		Status:    model.SubscriptionActive,
		StartedAt: now,
		ExpiresAt: &expires,
	}
	if err := s.shopRepo.UpsertSubscription(sub); err != nil {
		return nil, err
	}

	if err := s.invSvc.InitializeProducts(shop.ID, actor); err != nil {
		return nil, err
	}

	return shop, nil
}

func (s *shopService) SuspendShop(shopID uuid.UUID, actor string) (*model.Shop, error) {
	shop, err := s.shopRepo.FindByID(shopID)
	if err != nil {
		return nil, err
	}
	if shop.Status == model.ShopSuspended {
		return nil, apperr.State("shop is already suspended")
	}

	shop.Status = model.ShopSuspended
	shop.IsActive = false
	shop.PlanStatus = "inactive"
	shop.UpdatedBy = actor

	if err := s.shopRepo.Update(shop); err != nil {
		return nil, err
	}
	return shop, nil
}

func (s *shopService) GetShop(shopID uuid.UUID) (*model.Shop, error) {
	return s.shopRepo.FindByID(shopID)
}

func (s *shopService) GetShopBySlug(slug string) (*model.Shop, error) {
	return s.shopRepo.FindBySlug(slug)
}

func (s *shopService) GetShopByOwner(userID uuid.UUID) (*model.Shop, error) {
	return s.shopRepo.FindByUserID(userID)
}

func (s *shopService) ListShops() ([]model.Shop, error) {
	return s.shopRepo.FindAll()
}
