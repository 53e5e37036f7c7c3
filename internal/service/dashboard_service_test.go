package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-shopstock/internal/model"
)

func TestDashboardStats(t *testing.T) {
	inv := newFakeInventoryRepo()
	shopRepo := newFakeShopRepo()
	orderRepo := newFakeOrderRepo(inv)

	invSvc := NewInventoryService(inv, newFakeReplenishmentRepo(inv), nil)
	shopSvc := NewShopService(shopRepo, invSvc)
	orderSvc := NewOrderService(orderRepo, nil)
	dash := NewDashboardService(inv, shopRepo, orderRepo)

	// Two shops, one activated
	active, err := shopSvc.CreateShop(&CreateShopRequest{
		Name: "Active Shop", Slug: "active", UserID: uuid.New(), Actor: "admin",
	})
	require.NoError(t, err)
	_, err = shopSvc.ActivateShop(active.ID, "starter", "admin")
	require.NoError(t, err)
	_, err = shopSvc.CreateShop(&CreateShopRequest{
		Name: "Waiting Shop", Slug: "waiting", UserID: uuid.New(), Actor: "admin",
	})
	require.NoError(t, err)

	// One order awaiting review
	order, err := orderSvc.CreateOrder(checkoutRequest(CreateOrderItem{ItemKey: "vbh", Quantity: 1}))
	require.NoError(t, err)
	_, err = orderSvc.AttachReceipt(order.ID, "https://files.example.com/r1.jpg")
	require.NoError(t, err)

	// Stock one product above its reorder level, leave the rest empty
	_, err = invSvc.RecordMovement(&RecordMovementRequest{
		ShopID: active.ID, ProductKey: "vbh", Kind: model.MovementRestock, Quantity: 20, Actor: "admin",
	})
	require.NoError(t, err)

	stats, err := dash.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalShops)
	assert.Equal(t, int64(1), stats.ActiveShops)
	assert.Equal(t, int64(1), stats.PendingShops)
	assert.Equal(t, int64(1), stats.PendingReceipts)
	assert.Equal(t, int64(0), stats.LowStockCount)
	// Every tracked line except vbh sits at zero
	assert.Equal(t, int64(10), stats.OutOfStockCount)
}
