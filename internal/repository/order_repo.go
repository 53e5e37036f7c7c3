package repository

import (
	"time"

	"go-shopstock/internal/model"
	"go-shopstock/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	// CreateWithItems persists the order and its lines as one transaction.
	CreateWithItems(order *model.Order) error
	FindByID(id uuid.UUID) (*model.Order, error)
	FindByRef(orderRef string) (*model.Order, error)
	FindAll(shopID *uuid.UUID, status string) ([]model.Order, error)
	CountPendingReceipts() (int64, error)

	InsertReceipt(receipt *model.PaymentReceipt) error

	// ApproveReceipt marks receipt and order APPROVED and emits one SALE
	// movement (negative quantity) per product line against the fulfilling
	// shop, all in a single transaction. A receipt that is not PENDING
	// yields a state error and no movements.
	ApproveReceipt(receiptID, shopID uuid.UUID, actor string) (*model.Order, error)

	// RejectReceipt marks the receipt REJECTED and the order REJECTED,
	// recording the admin's notes. No movements are emitted.
	RejectReceipt(receiptID uuid.UUID, notes, actor string) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) CreateWithItems(order *model.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").Preload("Receipts").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, apperr.FromDB(err, "order")
	}
	return &order, nil
}

func (r *orderRepo) FindByRef(orderRef string) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").Preload("Receipts").First(&order, "order_ref = ?", orderRef).Error
	if err != nil {
		return nil, apperr.FromDB(err, "order")
	}
	return &order, nil
}

func (r *orderRepo) FindAll(shopID *uuid.UUID, status string) ([]model.Order, error) {
	q := r.db.Preload("Items").Preload("Receipts").Order("created_at DESC")
	if shopID != nil {
		q = q.Where("shop_id = ?", *shopID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []model.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, apperr.Persistence(err)
	}
	return orders, nil
}

func (r *orderRepo) CountPendingReceipts() (int64, error) {
	var count int64
	err := r.db.Model(&model.PaymentReceipt{}).
		Where("status = ?", model.ReceiptPending).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	return count, nil
}

func (r *orderRepo) InsertReceipt(receipt *model.PaymentReceipt) error {
	if err := r.db.Create(receipt).Error; err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (r *orderRepo) ApproveReceipt(receiptID, shopID uuid.UUID, actor string) (*model.Order, error) {
	var approved *model.Order

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var receipt model.PaymentReceipt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&receipt, "id = ?", receiptID).Error; err != nil {
			return apperr.FromDB(err, "receipt")
		}
		if receipt.Status != model.ReceiptPending {
			return apperr.State("receipt is %s, only PENDING can be approved", receipt.Status)
		}

		var order model.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").
			First(&order, "id = ?", receipt.OrderID).Error; err != nil {
			return apperr.FromDB(err, "order")
		}

		now := time.Now()
		if err := tx.Model(&receipt).Updates(map[string]interface{}{
			"status":      model.ReceiptApproved,
			"reviewed_by": actor,
			"reviewed_at": now,
		}).Error; err != nil {
			return apperr.Persistence(err)
		}

		if err := tx.Model(&order).Updates(map[string]interface{}{
			"status":     model.OrderApproved,
			"shop_id":    shopID,
			"updated_by": actor,
		}).Error; err != nil {
			return apperr.Persistence(err)
		}

		// One SALE movement per product line; kit lines do not touch the
		// shop's resale ledger.
		for _, item := range order.Items {
			if item.ItemType != model.ItemTypeProduct {
				continue
			}
			movement := &model.Movement{
				ShopID:     shopID,
				ProductKey: item.ItemKey,
				Kind:       model.MovementSale,
				Quantity:   -item.Quantity,
				Reference:  "order:" + order.OrderRef,
				CreatedBy:  actor,
			}
			if err := tx.Create(movement).Error; err != nil {
				return apperr.Persistence(err)
			}
		}

		order.Status = model.OrderApproved
		order.ShopID = &shopID
		approved = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

func (r *orderRepo) RejectReceipt(receiptID uuid.UUID, notes, actor string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var receipt model.PaymentReceipt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&receipt, "id = ?", receiptID).Error; err != nil {
			return apperr.FromDB(err, "receipt")
		}
		if receipt.Status != model.ReceiptPending {
			return apperr.State("receipt is %s, only PENDING can be rejected", receipt.Status)
		}

		now := time.Now()
		if err := tx.Model(&receipt).Updates(map[string]interface{}{
			"status":      model.ReceiptRejected,
			"admin_notes": notes,
			"reviewed_by": actor,
			"reviewed_at": now,
		}).Error; err != nil {
			return apperr.Persistence(err)
		}

		if err := tx.Model(&model.Order{}).
			Where("id = ?", receipt.OrderID).
			Updates(map[string]interface{}{
				"status":     model.OrderRejected,
				"updated_by": actor,
			}).Error; err != nil {
			return apperr.Persistence(err)
		}
		return nil
	})
}
