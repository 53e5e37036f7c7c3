package repository

import (
	"time"

	"go-shopstock/internal/model"
	"go-shopstock/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository interface {
	// UpsertItem ensures an inventory item exists for (shop, product key).
	// An existing row is left untouched so a tuned reorder level survives
	// repeated initialization.
	UpsertItem(item *model.InventoryItem) error
	FindItems(shopID uuid.UUID) ([]model.InventoryItem, error)
	DeactivateItem(shopID uuid.UUID, productKey string) error

	InsertMovement(m *model.Movement) error
	FindMovements(shopID uuid.UUID, limit, offset int) ([]model.Movement, error)

	// AggregateStock sums the movement ledger per tracked product of the
	// shop, ordered by product key. Products with no movements report zero.
	AggregateStock(shopID uuid.UUID) ([]model.StockLevel, error)

	GetStockAlertCounts() (low int64, out int64, err error)
	GetMovementChart(startDate, endDate time.Time) ([]MovementChartRow, error)
}

// MovementChartRow aggregates per-day inbound/outbound quantities for the
// dashboard chart.
type MovementChartRow struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) UpsertItem(item *model.InventoryItem) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shop_id"}, {Name: "product_key"}},
		DoNothing: true,
	}).Create(item).Error
	if err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (r *inventoryRepo) FindItems(shopID uuid.UUID) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.Where("shop_id = ?", shopID).Order("product_key ASC").Find(&items).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return items, nil
}

func (r *inventoryRepo) DeactivateItem(shopID uuid.UUID, productKey string) error {
	err := r.db.Model(&model.InventoryItem{}).
		Where("shop_id = ? AND product_key = ?", shopID, productKey).
		Update("is_active", false).Error
	if err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (r *inventoryRepo) InsertMovement(m *model.Movement) error {
	if err := r.db.Create(m).Error; err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (r *inventoryRepo) FindMovements(shopID uuid.UUID, limit, offset int) ([]model.Movement, error) {
	var movements []model.Movement
	err := r.db.Where("shop_id = ?", shopID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&movements).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return movements, nil
}

func (r *inventoryRepo) AggregateStock(shopID uuid.UUID) ([]model.StockLevel, error) {
	var levels []model.StockLevel
	err := r.db.Model(&model.InventoryItem{}).
		Select(`inventory_items.product_key,
			COALESCE(SUM(inventory_movements.quantity), 0) AS current_stock,
			inventory_items.reorder_level`).
		Joins(`LEFT JOIN inventory_movements
			ON inventory_movements.shop_id = inventory_items.shop_id
			AND inventory_movements.product_key = inventory_items.product_key`).
		Where("inventory_items.shop_id = ? AND inventory_items.is_active", shopID).
		Group("inventory_items.product_key, inventory_items.reorder_level").
		Order("inventory_items.product_key ASC").
		Scan(&levels).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return levels, nil
}

func (r *inventoryRepo) GetStockAlertCounts() (int64, int64, error) {
	type row struct {
		Low int64
		Out int64
	}
	var res row
	err := r.db.Raw(`
		SELECT
			COUNT(*) FILTER (WHERE stock > 0 AND stock <= reorder_level) AS low,
			COUNT(*) FILTER (WHERE stock <= 0) AS out
		FROM (
			SELECT i.reorder_level, COALESCE(SUM(m.quantity), 0) AS stock
			FROM inventory_items i
			LEFT JOIN inventory_movements m
				ON m.shop_id = i.shop_id AND m.product_key = i.product_key
			WHERE i.is_active
			GROUP BY i.shop_id, i.product_key, i.reorder_level
		) levels`).Scan(&res).Error
	if err != nil {
		return 0, 0, apperr.Persistence(err)
	}
	return res.Low, res.Out, nil
}

func (r *inventoryRepo) GetMovementChart(startDate, endDate time.Time) ([]MovementChartRow, error) {
	var results []MovementChartRow

	rows, err := r.db.Model(&model.Movement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN quantity > 0 THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN quantity < 0 THEN -quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer rows.Close()

	for rows.Next() {
		var data MovementChartRow
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, apperr.Persistence(err)
		}
		results = append(results, data)
	}

	return results, nil
}
