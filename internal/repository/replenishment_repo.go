package repository

import (
	"time"

	"go-shopstock/internal/model"
	"go-shopstock/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReplenishmentRepository interface {
	// CreateWithItems persists the replenishment and its line items as one
	// transaction.
	CreateWithItems(r *model.Replenishment) error
	FindByID(id uuid.UUID) (*model.Replenishment, error)
	FindByShop(shopID uuid.UUID) ([]model.Replenishment, error)

	// Receive transitions DRAFT -> RECEIVED and emits one RESTOCK movement
	// per line item, all in a single transaction. Returns a state error if
	// the replenishment is not DRAFT; in that case no movements are written.
	Receive(id uuid.UUID, actor string) (*model.Replenishment, error)

	// Cancel transitions DRAFT -> CANCELLED without emitting movements.
	Cancel(id uuid.UUID, actor string) (*model.Replenishment, error)
}

type replenishmentRepo struct {
	db *gorm.DB
}

func NewReplenishmentRepo(db *gorm.DB) ReplenishmentRepository {
	return &replenishmentRepo{db}
}

func (r *replenishmentRepo) CreateWithItems(rep *model.Replenishment) error {
	// gorm cascades the Items association inside one transaction
	if err := r.db.Create(rep).Error; err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (r *replenishmentRepo) FindByID(id uuid.UUID) (*model.Replenishment, error) {
	var rep model.Replenishment
	err := r.db.Preload("Items").First(&rep, "id = ?", id).Error
	if err != nil {
		return nil, apperr.FromDB(err, "replenishment")
	}
	return &rep, nil
}

func (r *replenishmentRepo) FindByShop(shopID uuid.UUID) ([]model.Replenishment, error) {
	var reps []model.Replenishment
	err := r.db.Preload("Items").
		Where("shop_id = ?", shopID).
		Order("created_at DESC").
		Find(&reps).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return reps, nil
}

func (r *replenishmentRepo) Receive(id uuid.UUID, actor string) (*model.Replenishment, error) {
	var received *model.Replenishment

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var rep model.Replenishment
		// Row lock prevents two concurrent receives from both seeing DRAFT
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&rep, "id = ?", id).Error; err != nil {
			return apperr.FromDB(err, "replenishment")
		}
		if !rep.IsDraft() {
			return apperr.State("replenishment is %s, only DRAFT can be received", rep.Status)
		}
		if err := tx.Where("replenishment_id = ?", rep.ID).Find(&rep.Items).Error; err != nil {
			return apperr.Persistence(err)
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":      model.ReplenishmentReceived,
			"received_at": now,
			"updated_by":  actor,
		}
		if err := tx.Model(&rep).Updates(updates).Error; err != nil {
			return apperr.Persistence(err)
		}

		for _, item := range rep.Items {
			unitCost := item.UnitCost
			movement := &model.Movement{
				ShopID:     rep.ShopID,
				ProductKey: item.ProductKey,
				Kind:       model.MovementRestock,
				Quantity:   item.Quantity,
				Reference:  "replenishment:" + rep.ID.String(),
				UnitCost:   &unitCost,
				CreatedBy:  actor,
			}
			if err := tx.Create(movement).Error; err != nil {
				return apperr.Persistence(err)
			}
		}

		rep.Status = model.ReplenishmentReceived
		rep.ReceivedAt = &now
		received = &rep
		return nil
	})
	if err != nil {
		return nil, err
	}
	return received, nil
}

func (r *replenishmentRepo) Cancel(id uuid.UUID, actor string) (*model.Replenishment, error) {
	var cancelled *model.Replenishment

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var rep model.Replenishment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&rep, "id = ?", id).Error; err != nil {
			return apperr.FromDB(err, "replenishment")
		}
		if !rep.IsDraft() {
			return apperr.State("replenishment is %s, only DRAFT can be cancelled", rep.Status)
		}
		updates := map[string]interface{}{
			"status":     model.ReplenishmentCancelled,
			"updated_by": actor,
		}
		if err := tx.Model(&rep).Updates(updates).Error; err != nil {
			return apperr.Persistence(err)
		}
		rep.Status = model.ReplenishmentCancelled
		cancelled = &rep
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}
