package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-shopstock/internal/model"
	"go-shopstock/internal/repository"
	"go-shopstock/internal/ws"
	"go-shopstock/pkg/apperr"
	"go-shopstock/pkg/catalog"
	"go-shopstock/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// orderRefAttempts bounds how often checkout regenerates a colliding
// order reference before giving up.
const orderRefAttempts = 3

// OrderService handles storefront checkout and the manual-payment receipt
// flow. Prices always come from the catalog, never from the client.
type OrderService interface {
	CreateOrder(req *CreateOrderRequest) (*model.Order, error)
	GetOrder(id uuid.UUID) (*model.Order, error)
	GetOrderByRef(orderRef string) (*model.Order, error)
	ListOrders(shopID *uuid.UUID, status string) ([]model.Order, error)
	AttachReceipt(orderID uuid.UUID, fileURL string) (*model.PaymentReceipt, error)
	ApproveReceipt(receiptID, shopID uuid.UUID, actor string) (*model.Order, error)
	RejectReceipt(receiptID uuid.UUID, notes, actor string) error
}

type CreateOrderRequest struct {
	CustomerName    string               `json:"customer_name" validate:"required"`
	CustomerEmail   string               `json:"customer_email" validate:"required,email"`
	CustomerPhone   string               `json:"customer_phone"`
	Country         catalog.CountryCode  `json:"country"`
	City            string               `json:"city"`
	DeliveryAddress string               `json:"delivery_address"`
	UserID          *uuid.UUID           `json:"user_id"`
	Items           []CreateOrderItem    `json:"items"`
}

type CreateOrderItem struct {
	ItemType string `json:"item_type"` // product | kit
	ItemKey  string `json:"item_key" validate:"required"`
	Quantity int    `json:"quantity"`
}

type orderService struct {
	orderRepo repository.OrderRepository
	wsHub     *ws.Hub
}

func NewOrderService(orderRepo repository.OrderRepository, hub *ws.Hub) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		wsHub:     hub,
	}
}

// CreateOrder prices every line from the catalog by the customer's country
// and persists the order with its lines in one transaction.
func (s *orderService) CreateOrder(req *CreateOrderRequest) (*model.Order, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation("field %q failed on %q", first.FailedField, first.Tag)
	}
	if len(req.Items) == 0 {
		return nil, apperr.Validation("order needs at least one item")
	}

	country := req.Country
	if country == "" {
		country = catalog.CountryOther
	}

	var subtotal int64
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, in := range req.Items {
		if in.Quantity <= 0 {
			return nil, apperr.Validation("item %q quantity must be positive", in.ItemKey)
		}

		itemType := in.ItemType
		if itemType == "" {
			itemType = model.ItemTypeProduct
		}

		var unitPrice int64
		var name string
		switch itemType {
		case model.ItemTypeProduct:
			if !catalog.IsProduct(in.ItemKey) {
				return nil, apperr.Validation("unknown product key %q", in.ItemKey)
			}
			unitPrice = catalog.RawPrice(in.ItemKey, country)
			name = in.ItemKey
		case model.ItemTypeKit:
			kit := catalog.FindKit(in.ItemKey)
			if kit == nil {
				return nil, apperr.Validation("unknown kit key %q", in.ItemKey)
			}
			unitPrice = catalog.KitPrice(in.ItemKey, country)
			name = kit.Name
		default:
			return nil, apperr.Validation("unknown item type %q", in.ItemType)
		}

		total := unitPrice * int64(in.Quantity)
		subtotal += total
		items = append(items, model.OrderItem{
			ItemType:   itemType,
			ItemKey:    in.ItemKey,
			ItemName:   name,
			Quantity:   in.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: total,
		})
	}

	order := &model.Order{
		OrderRef:        model.NewOrderRef(time.Now()),
		UserID:          req.UserID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Country:         string(country),
		City:            req.City,
		DeliveryAddress: req.DeliveryAddress,
		CurrencyLabel:   catalog.CurrencyLabel(country),
		Status:          model.OrderPending,
		Subtotal:        subtotal,
		Total:           subtotal,
		Items:           items,
	}

	// The reference carries a random suffix, so another same-day checkout
	// can collide on the unique index; regenerate and retry instead of
	// failing the customer.
	var err error
	for attempt := 0; attempt < orderRefAttempts; attempt++ {
		if err = s.orderRepo.CreateWithItems(order); err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		order.OrderRef = model.NewOrderRef(time.Now())
	}
	if err != nil {
		return nil, err
	}

	s.broadcast("order_created", map[string]interface{}{
		"order_ref": order.OrderRef,
		"total":     order.Total,
		"currency":  order.CurrencyLabel,
	})

	return order, nil
}

func (s *orderService) GetOrder(id uuid.UUID) (*model.Order, error) {
	return s.orderRepo.FindByID(id)
}

func (s *orderService) GetOrderByRef(orderRef string) (*model.Order, error) {
	return s.orderRepo.FindByRef(orderRef)
}

func (s *orderService) ListOrders(shopID *uuid.UUID, status string) ([]model.Order, error) {
	return s.orderRepo.FindAll(shopID, status)
}

// AttachReceipt records an uploaded proof of payment against a PENDING
// order.
func (s *orderService) AttachReceipt(orderID uuid.UUID, fileURL string) (*model.PaymentReceipt, error) {
	if fileURL == "" {
		return nil, apperr.Validation("receipt file url is required")
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderPending {
		return nil, apperr.State("order is %s, receipts can only be attached while PENDING", order.Status)
	}

	receipt := &model.PaymentReceipt{
		OrderID: order.ID,
		FileURL: fileURL,
		Status:  model.ReceiptPending,
	}
	if err := s.orderRepo.InsertReceipt(receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// ApproveReceipt approves the payment and fulfils the order from the given
// shop: the approval and the SALE movements commit atomically in the
// repository. Approving twice fails with a state error.
func (s *orderService) ApproveReceipt(receiptID, shopID uuid.UUID, actor string) (*model.Order, error) {
	if shopID == uuid.Nil {
		return nil, apperr.Validation("fulfilling shop id is required")
	}

	order, err := s.orderRepo.ApproveReceipt(receiptID, shopID, actor)
	if err != nil {
		return nil, err
	}

	s.broadcast("order_approved", map[string]interface{}{
		"order_ref": order.OrderRef,
		"shop_id":   shopID,
	})

	return order, nil
}

func (s *orderService) RejectReceipt(receiptID uuid.UUID, notes, actor string) error {
	return s.orderRepo.RejectReceipt(receiptID, notes, actor)
}

func (s *orderService) broadcast(action string, detail map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":    "order_update",
			"action":  action,
			"detail":  detail,
			"message": fmt.Sprintf("order event: %s", action),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
