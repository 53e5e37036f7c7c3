package repository

import (
	"go-shopstock/internal/model"
	"go-shopstock/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShopRepository interface {
	Create(shop *model.Shop) error
	Update(shop *model.Shop) error
	FindAll() ([]model.Shop, error)
	FindByID(id uuid.UUID) (*model.Shop, error)
	FindBySlug(slug string) (*model.Shop, error)
	FindByUserID(userID uuid.UUID) (*model.Shop, error)
	CountByStatus(status model.ShopStatus) (int64, error)

	UpsertSubscription(sub *model.ShopSubscription) error
	FindSubscriptionByUser(userID uuid.UUID) (*model.ShopSubscription, error)
}

type shopRepo struct {
	db *gorm.DB
}

func NewShopRepo(db *gorm.DB) ShopRepository {
	return &shopRepo{db}
}

func (r *shopRepo) Create(shop *model.Shop) error {
	if err := r.db.Create(shop).Error; err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (r *shopRepo) Update(shop *model.Shop) error {
	if err := r.db.Save(shop).Error; err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (r *shopRepo) FindAll() ([]model.Shop, error) {
	var shops []model.Shop
	err := r.db.Preload("Owner").Order("created_at DESC").Find(&shops).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return shops, nil
}

func (r *shopRepo) FindByID(id uuid.UUID) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.Preload("Owner").First(&shop, "id = ?", id).Error
	if err != nil {
		return nil, apperr.FromDB(err, "shop")
	}
	return &shop, nil
}

func (r *shopRepo) FindBySlug(slug string) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.First(&shop, "slug = ?", slug).Error
	if err != nil {
		return nil, apperr.FromDB(err, "shop")
	}
	return &shop, nil
}

func (r *shopRepo) FindByUserID(userID uuid.UUID) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.First(&shop, "user_id = ?", userID).Error
	if err != nil {
		return nil, apperr.FromDB(err, "shop")
	}
	return &shop, nil
}

func (r *shopRepo) CountByStatus(status model.ShopStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Shop{}).Where("status = ?", status).Count(&count).Error
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	return count, nil
}

func (r *shopRepo) UpsertSubscription(sub *model.ShopSubscription) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"plan", "status", "started_at", "expires_at"}),
	}).Create(sub).Error
	if err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (r *shopRepo) FindSubscriptionByUser(userID uuid.UUID) (*model.ShopSubscription, error) {
	var sub model.ShopSubscription
	err := r.db.First(&sub, "user_id = ?", userID).Error
	if err != nil {
		return nil, apperr.FromDB(err, "subscription")
	}
	return &sub, nil
}
