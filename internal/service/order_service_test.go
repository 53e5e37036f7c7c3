package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-shopstock/internal/model"
	"go-shopstock/pkg/apperr"
	"go-shopstock/pkg/catalog"
)

// fakeOrderRepo replays the transactional approval semantics in memory.
// Approving a receipt writes the SALE movements into the shared inventory
// fake, just as the real repository does inside one transaction.
type fakeOrderRepo struct {
	inv      *fakeInventoryRepo
	orders   map[uuid.UUID]*model.Order
	receipts map[uuid.UUID]*model.PaymentReceipt
}

func newFakeOrderRepo(inv *fakeInventoryRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		inv:      inv,
		orders:   make(map[uuid.UUID]*model.Order),
		receipts: make(map[uuid.UUID]*model.PaymentReceipt),
	}
}

func (f *fakeOrderRepo) CreateWithItems(order *model.Order) error {
	order.ID = uuid.New()
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeOrderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, apperr.NotFound("order %s not found", id)
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) FindByRef(orderRef string) (*model.Order, error) {
	for _, order := range f.orders {
		if order.OrderRef == orderRef {
			copied := *order
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("order %s not found", orderRef)
}

func (f *fakeOrderRepo) FindAll(shopID *uuid.UUID, status string) ([]model.Order, error) {
	var out []model.Order
	for _, order := range f.orders {
		if shopID != nil && (order.ShopID == nil || *order.ShopID != *shopID) {
			continue
		}
		if status != "" && string(order.Status) != status {
			continue
		}
		out = append(out, *order)
	}
	return out, nil
}

func (f *fakeOrderRepo) CountPendingReceipts() (int64, error) {
	var n int64
	for _, r := range f.receipts {
		if r.Status == model.ReceiptPending {
			n++
		}
	}
	return n, nil
}

func (f *fakeOrderRepo) InsertReceipt(receipt *model.PaymentReceipt) error {
	receipt.ID = uuid.New()
	copied := *receipt
	f.receipts[receipt.ID] = &copied
	return nil
}

func (f *fakeOrderRepo) ApproveReceipt(receiptID, shopID uuid.UUID, actor string) (*model.Order, error) {
	receipt, ok := f.receipts[receiptID]
	if !ok {
		return nil, apperr.NotFound("receipt %s not found", receiptID)
	}
	if receipt.Status != model.ReceiptPending {
		return nil, apperr.State("receipt is %s, only PENDING can be approved", receipt.Status)
	}
	order := f.orders[receipt.OrderID]
	now := time.Now()
	receipt.Status = model.ReceiptApproved
	receipt.ReviewedBy = actor
	receipt.ReviewedAt = &now
	order.Status = model.OrderApproved
	order.ShopID = &shopID
	for _, item := range order.Items {
		if item.ItemType != model.ItemTypeProduct {
			continue
		}
		f.inv.InsertMovement(&model.Movement{
			ShopID:     shopID,
			ProductKey: item.ItemKey,
			Kind:       model.MovementSale,
			Quantity:   -item.Quantity,
			Reference:  "order:" + order.OrderRef,
			CreatedBy:  actor,
		})
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) RejectReceipt(receiptID uuid.UUID, notes, actor string) error {
	receipt, ok := f.receipts[receiptID]
	if !ok {
		return apperr.NotFound("receipt %s not found", receiptID)
	}
	if receipt.Status != model.ReceiptPending {
		return apperr.State("receipt is %s, only PENDING can be rejected", receipt.Status)
	}
	now := time.Now()
	receipt.Status = model.ReceiptRejected
	receipt.AdminNotes = notes
	receipt.ReviewedBy = actor
	receipt.ReviewedAt = &now
	f.orders[receipt.OrderID].Status = model.OrderRejected
	return nil
}

func newTestOrderService() (OrderService, *fakeOrderRepo, *fakeInventoryRepo) {
	inv := newFakeInventoryRepo()
	repo := newFakeOrderRepo(inv)
	return NewOrderService(repo, nil), repo, inv
}

func checkoutRequest(items ...CreateOrderItem) *CreateOrderRequest {
	return &CreateOrderRequest{
		CustomerName:  "Ama Diallo",
		CustomerEmail: "ama@example.com",
		CustomerPhone: "+2250700000000",
		Country:       catalog.CountryCIV,
		City:          "Abidjan",
		Items:         items,
	}
}

func TestCreateOrder(t *testing.T) {
	svc, _, _ := newTestOrderService()

	t.Run("rejects empty item list", func(t *testing.T) {
		_, err := svc.CreateOrder(checkoutRequest())
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := svc.CreateOrder(checkoutRequest(CreateOrderItem{ItemKey: "vbh", Quantity: 0}))
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		_, err := svc.CreateOrder(checkoutRequest(CreateOrderItem{ItemKey: "snakeOil", Quantity: 1}))
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("prices products by buyer country", func(t *testing.T) {
		order, err := svc.CreateOrder(checkoutRequest(CreateOrderItem{ItemKey: "vbh", Quantity: 2}))
		require.NoError(t, err)
		assert.Equal(t, model.OrderPending, order.Status)
		assert.Equal(t, "FCFA", order.CurrencyLabel)
		assert.Regexp(t, `^CMD-\d{8}-\d{4}$`, order.OrderRef)
		want := 2 * catalog.RawPrice("vbh", catalog.CountryCIV)
		assert.Equal(t, want, order.Total)
		require.Len(t, order.Items, 1)
		assert.Equal(t, model.ItemTypeProduct, order.Items[0].ItemType)
	})

	t.Run("prices kits from the kit table", func(t *testing.T) {
		order, err := svc.CreateOrder(checkoutRequest(
			CreateOrderItem{ItemType: model.ItemTypeKit, ItemKey: "starter", Quantity: 1},
		))
		require.NoError(t, err)
		assert.Equal(t, catalog.KitPrice("starter", catalog.CountryCIV), order.Total)
		assert.Equal(t, "STARTER", order.Items[0].ItemName)
	})

	t.Run("empty country defaults to OTHER pricing", func(t *testing.T) {
		req := checkoutRequest(CreateOrderItem{ItemKey: "vbh", Quantity: 1})
		req.Country = ""
		order, err := svc.CreateOrder(req)
		require.NoError(t, err)
		assert.Equal(t, catalog.RawPrice("vbh", catalog.CountryOther), order.Total)
		assert.Equal(t, "OTHER", order.Country)
	})
}

// collidingOrderRepo simulates unique violations on order_ref for the
// first N creates.
type collidingOrderRepo struct {
	*fakeOrderRepo
	failures int
	refsSeen []string
}

func (f *collidingOrderRepo) CreateWithItems(order *model.Order) error {
	f.refsSeen = append(f.refsSeen, order.OrderRef)
	if f.failures > 0 {
		f.failures--
		return apperr.Persistence(gorm.ErrDuplicatedKey)
	}
	return f.fakeOrderRepo.CreateWithItems(order)
}

func TestCreateOrderRetriesRefCollisions(t *testing.T) {
	t.Run("regenerates the ref and succeeds", func(t *testing.T) {
		repo := &collidingOrderRepo{fakeOrderRepo: newFakeOrderRepo(newFakeInventoryRepo()), failures: 2}
		svc := NewOrderService(repo, nil)

		order, err := svc.CreateOrder(checkoutRequest(CreateOrderItem{ItemKey: "vbh", Quantity: 1}))
		require.NoError(t, err)
		assert.Len(t, repo.refsSeen, 3)
		assert.Equal(t, repo.refsSeen[2], order.OrderRef)
	})

	t.Run("gives up after exhausting attempts", func(t *testing.T) {
		repo := &collidingOrderRepo{fakeOrderRepo: newFakeOrderRepo(newFakeInventoryRepo()), failures: 10}
		svc := NewOrderService(repo, nil)

		_, err := svc.CreateOrder(checkoutRequest(CreateOrderItem{ItemKey: "vbh", Quantity: 1}))
		require.Error(t, err)
		assert.True(t, apperr.IsPersistence(err))
		assert.Len(t, repo.refsSeen, 3)
	})
}

func TestAttachReceipt(t *testing.T) {
	svc, repo, _ := newTestOrderService()

	order, err := svc.CreateOrder(checkoutRequest(CreateOrderItem{ItemKey: "vbh", Quantity: 1}))
	require.NoError(t, err)

	t.Run("requires a file url", func(t *testing.T) {
		_, err := svc.AttachReceipt(order.ID, "")
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("attaches to a pending order", func(t *testing.T) {
		receipt, err := svc.AttachReceipt(order.ID, "https://files.example.com/r1.jpg")
		require.NoError(t, err)
		assert.Equal(t, model.ReceiptPending, receipt.Status)
	})

	t.Run("refuses once the order left PENDING", func(t *testing.T) {
		repo.orders[order.ID].Status = model.OrderApproved
		_, err := svc.AttachReceipt(order.ID, "https://files.example.com/r2.jpg")
		require.Error(t, err)
		assert.True(t, apperr.IsState(err))
	})
}

func TestApproveReceipt(t *testing.T) {
	svc, _, inv := newTestOrderService()
	shopID := uuid.New()

	order, err := svc.CreateOrder(checkoutRequest(
		CreateOrderItem{ItemKey: "vbh", Quantity: 3},
		CreateOrderItem{ItemType: model.ItemTypeKit, ItemKey: "starter", Quantity: 1},
	))
	require.NoError(t, err)
	receipt, err := svc.AttachReceipt(order.ID, "https://files.example.com/r1.jpg")
	require.NoError(t, err)

	t.Run("requires a fulfilling shop", func(t *testing.T) {
		_, err := svc.ApproveReceipt(receipt.ID, uuid.Nil, "admin")
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("books one sale movement per product line", func(t *testing.T) {
		approved, err := svc.ApproveReceipt(receipt.ID, shopID, "admin")
		require.NoError(t, err)
		assert.Equal(t, model.OrderApproved, approved.Status)
		require.NotNil(t, approved.ShopID)
		assert.Equal(t, shopID, *approved.ShopID)

		// Kit lines do not hit the ledger, only the product line does
		require.Len(t, inv.movements, 1)
		m := inv.movements[0]
		assert.Equal(t, model.MovementSale, m.Kind)
		assert.Equal(t, "vbh", m.ProductKey)
		assert.Equal(t, -3, m.Quantity)
		assert.Equal(t, "order:"+order.OrderRef, m.Reference)
	})

	t.Run("approving twice fails without new movements", func(t *testing.T) {
		before := len(inv.movements)
		_, err := svc.ApproveReceipt(receipt.ID, shopID, "admin")
		require.Error(t, err)
		assert.True(t, apperr.IsState(err))
		assert.Len(t, inv.movements, before)
	})
}

func TestRejectReceipt(t *testing.T) {
	svc, repo, inv := newTestOrderService()

	order, err := svc.CreateOrder(checkoutRequest(CreateOrderItem{ItemKey: "vbh", Quantity: 1}))
	require.NoError(t, err)
	receipt, err := svc.AttachReceipt(order.ID, "https://files.example.com/r1.jpg")
	require.NoError(t, err)

	require.NoError(t, svc.RejectReceipt(receipt.ID, "blurry photo", "admin"))
	assert.Equal(t, model.ReceiptRejected, repo.receipts[receipt.ID].Status)
	assert.Equal(t, "blurry photo", repo.receipts[receipt.ID].AdminNotes)
	assert.Equal(t, model.OrderRejected, repo.orders[order.ID].Status)
	assert.Empty(t, inv.movements)

	// Rejection is terminal too
	_, err = svc.ApproveReceipt(receipt.ID, uuid.New(), "admin")
	require.Error(t, err)
	assert.True(t, apperr.IsState(err))
}
