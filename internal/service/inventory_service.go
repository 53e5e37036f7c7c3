package service

import (
	"encoding/json"
	"fmt"

	"go-shopstock/internal/model"
	"go-shopstock/internal/repository"
	"go-shopstock/internal/ws"
	"go-shopstock/pkg/apperr"
	"go-shopstock/pkg/catalog"
	"go-shopstock/pkg/validator"

	"github.com/google/uuid"
)

// InventoryService owns the append-only movement ledger, the derived stock
// view, and the replenishment state machine for each shop.
type InventoryService interface {
	InitializeProduct(shopID uuid.UUID, productKey string, reorderLevel int, actor string) error
	InitializeProducts(shopID uuid.UUID, actor string) error
	RecordMovement(req *RecordMovementRequest) (*model.Movement, error)
	AdjustStock(shopID uuid.UUID, productKey string, delta int, note, actor string) (*model.Movement, error)
	GetStockLevels(shopID uuid.UUID) ([]StockLevelResponse, error)
	ListMovements(shopID uuid.UUID, limit, offset int) ([]model.Movement, error)
	CreateReplenishment(req *CreateReplenishmentRequest) (*model.Replenishment, error)
	ReceiveReplenishment(id uuid.UUID, actor string) (*model.Replenishment, error)
	CancelReplenishment(id uuid.UUID, actor string) (*model.Replenishment, error)
	GetReplenishment(id uuid.UUID) (*model.Replenishment, error)
	ListReplenishments(shopID uuid.UUID) ([]model.Replenishment, error)
}

type RecordMovementRequest struct {
	ShopID     uuid.UUID          `json:"shop_id" validate:"uuid_required"`
	ProductKey string             `json:"product_key" validate:"required"`
	Kind       model.MovementKind `json:"movement_type" validate:"required"`
	Quantity   int                `json:"quantity"`
	Reference  string             `json:"reference"`
	UnitCost   *int64             `json:"unit_cost"`
	Actor      string             `json:"-"`
}

type CreateReplenishmentRequest struct {
	ShopID       uuid.UUID                `json:"shop_id" validate:"uuid_required"`
	SupplierName string                   `json:"supplier_name"`
	Items        []ReplenishmentItemInput `json:"items"`
	Actor        string                   `json:"-"`
}

type ReplenishmentItemInput struct {
	ProductKey string `json:"product_key" validate:"required"`
	Quantity   int    `json:"quantity"`
	UnitCost   int64  `json:"unit_cost"`
}

// StockLevelResponse is one row of the derived stock view plus its label.
type StockLevelResponse struct {
	model.StockLevel
	Status model.StockStatus `json:"status"`
}

// DefaultReorderLevel is applied when a product line is initialized without
// an explicit threshold.
const DefaultReorderLevel = 5

// DefaultMovementLimit caps movement history reads when the caller gives no
// limit.
const DefaultMovementLimit = 100

type inventoryService struct {
	invRepo repository.InventoryRepository
	repRepo repository.ReplenishmentRepository
	wsHub   *ws.Hub
}

func NewInventoryService(invRepo repository.InventoryRepository, repRepo repository.ReplenishmentRepository, hub *ws.Hub) InventoryService {
	return &inventoryService{
		invRepo: invRepo,
		repRepo: repRepo,
		wsHub:   hub,
	}
}

// InitializeProduct ensures the (shop, product key) line exists. An existing
// line keeps its reorder level; repeated initialization never clobbers a
// manually tuned threshold.
func (s *inventoryService) InitializeProduct(shopID uuid.UUID, productKey string, reorderLevel int, actor string) error {
	if shopID == uuid.Nil {
		return apperr.Validation("shop id is required")
	}
	if !catalog.IsProduct(productKey) {
		return apperr.Validation("unknown product key %q", productKey)
	}
	if reorderLevel < 0 {
		return apperr.Validation("reorder level must be >= 0")
	}

	item := &model.InventoryItem{
		ShopID:       shopID,
		ProductKey:   productKey,
		ReorderLevel: reorderLevel,
		IsActive:     true,
	}
	return s.invRepo.UpsertItem(item)
}

// InitializeProducts tracks the full catalog for a shop with the default
// reorder level.
func (s *inventoryService) InitializeProducts(shopID uuid.UUID, actor string) error {
	for _, key := range catalog.ProductKeys() {
		if err := s.InitializeProduct(shopID, key, DefaultReorderLevel, actor); err != nil {
			return err
		}
	}
	return nil
}

// RecordMovement appends one immutable ledger entry. There is no floor on
// the resulting stock: concurrent sales may drive the sum negative, which
// surfaces as OUT rather than blocking the write.
func (s *inventoryService) RecordMovement(req *RecordMovementRequest) (*model.Movement, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation("field %q failed on %q", first.FailedField, first.Tag)
	}
	if req.Quantity == 0 {
		return nil, apperr.Validation("quantity must be non-zero")
	}
	if !req.Kind.Valid() {
		return nil, apperr.Validation("unknown movement kind %q", req.Kind)
	}
	if !catalog.IsProduct(req.ProductKey) {
		return nil, apperr.Validation("unknown product key %q", req.ProductKey)
	}

	movement := &model.Movement{
		ShopID:     req.ShopID,
		ProductKey: req.ProductKey,
		Kind:       req.Kind,
		Quantity:   req.Quantity,
		Reference:  req.Reference,
		UnitCost:   req.UnitCost,
		CreatedBy:  req.Actor,
	}
	if err := s.invRepo.InsertMovement(movement); err != nil {
		return nil, err
	}

	s.broadcastStockUpdate("movement_recorded", movement.ShopID, map[string]interface{}{
		"product_key": movement.ProductKey,
		"type":        movement.Kind,
		"quantity":    movement.Quantity,
		"reference":   movement.Reference,
	})

	return movement, nil
}

// AdjustStock records a manual ADJUSTMENT. As a courtesy it refuses to take
// the tracked stock below zero; the ledger itself never enforces a floor,
// so racing sales can still drive the sum negative (deliberate policy, not
// an oversight).
func (s *inventoryService) AdjustStock(shopID uuid.UUID, productKey string, delta int, note, actor string) (*model.Movement, error) {
	if delta == 0 {
		return nil, apperr.Validation("quantity must be non-zero")
	}
	if delta < 0 {
		levels, err := s.GetStockLevels(shopID)
		if err != nil {
			return nil, err
		}
		tracked := false
		for _, level := range levels {
			if level.ProductKey != productKey {
				continue
			}
			tracked = true
			if level.CurrentStock+delta < 0 {
				return nil, apperr.Validation("adjustment of %d would take %q below zero (current %d)",
					delta, productKey, level.CurrentStock)
			}
		}
		if !tracked {
			return nil, apperr.Validation("product %q is not tracked for this shop", productKey)
		}
	}

	return s.RecordMovement(&RecordMovementRequest{
		ShopID:     shopID,
		ProductKey: productKey,
		Kind:       model.MovementAdjustment,
		Quantity:   delta,
		Reference:  note,
		Actor:      actor,
	})
}

// GetStockLevels returns the derived stock for every tracked product of the
// shop, ordered by product key.
func (s *inventoryService) GetStockLevels(shopID uuid.UUID) ([]StockLevelResponse, error) {
	levels, err := s.invRepo.AggregateStock(shopID)
	if err != nil {
		return nil, err
	}
	out := make([]StockLevelResponse, len(levels))
	for i, level := range levels {
		out[i] = StockLevelResponse{StockLevel: level, Status: level.Status()}
	}
	return out, nil
}

func (s *inventoryService) ListMovements(shopID uuid.UUID, limit, offset int) ([]model.Movement, error) {
	if limit <= 0 {
		limit = DefaultMovementLimit
	}
	return s.invRepo.FindMovements(shopID, limit, offset)
}

// CreateReplenishment opens a DRAFT replenishment with its line items. The
// total cost is computed server-side.
func (s *inventoryService) CreateReplenishment(req *CreateReplenishmentRequest) (*model.Replenishment, error) {
	if req.ShopID == uuid.Nil {
		return nil, apperr.Validation("shop id is required")
	}
	if len(req.Items) == 0 {
		return nil, apperr.Validation("replenishment needs at least one item")
	}
	items := make([]model.ReplenishmentItem, 0, len(req.Items))
	for _, in := range req.Items {
		if !catalog.IsProduct(in.ProductKey) {
			return nil, apperr.Validation("unknown product key %q", in.ProductKey)
		}
		if in.Quantity < 0 {
			return nil, apperr.Validation("item %q quantity must not be negative", in.ProductKey)
		}
		items = append(items, model.ReplenishmentItem{
			ProductKey: in.ProductKey,
			Quantity:   in.Quantity,
			UnitCost:   in.UnitCost,
		})
	}

	rep := &model.Replenishment{
		ShopID:       req.ShopID,
		SupplierName: req.SupplierName,
		Status:       model.ReplenishmentDraft,
		TotalCost:    model.ItemsTotal(items),
		Items:        items,
	}
	rep.CreatedBy = req.Actor
	rep.UpdatedBy = req.Actor

	if err := s.repRepo.CreateWithItems(rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// ReceiveReplenishment runs the one transition that needs atomicity: the
// DRAFT -> RECEIVED flip plus one RESTOCK movement per line item commit as
// a unit inside the repository transaction. A non-DRAFT replenishment fails
// with a state error and emits nothing, so double-receiving cannot double
// the stock.
func (s *inventoryService) ReceiveReplenishment(id uuid.UUID, actor string) (*model.Replenishment, error) {
	rep, err := s.repRepo.Receive(id, actor)
	if err != nil {
		return nil, err
	}

	s.broadcastStockUpdate("replenishment_received", rep.ShopID, map[string]interface{}{
		"replenishment_id": rep.ID,
		"items":            len(rep.Items),
		"total_cost":       rep.TotalCost,
	})

	return rep, nil
}

func (s *inventoryService) CancelReplenishment(id uuid.UUID, actor string) (*model.Replenishment, error) {
	return s.repRepo.Cancel(id, actor)
}

func (s *inventoryService) GetReplenishment(id uuid.UUID) (*model.Replenishment, error) {
	return s.repRepo.FindByID(id)
}

func (s *inventoryService) ListReplenishments(shopID uuid.UUID) ([]model.Replenishment, error) {
	return s.repRepo.FindByShop(shopID)
}

func (s *inventoryService) broadcastStockUpdate(action string, shopID uuid.UUID, detail map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":    "stock_update",
			"action":  action,
			"shop_id": shopID,
			"detail":  detail,
			"message": fmt.Sprintf("stock updated for shop %s", shopID),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
