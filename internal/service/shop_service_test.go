package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-shopstock/internal/model"
	"go-shopstock/pkg/apperr"
	"go-shopstock/pkg/catalog"
)

type fakeShopRepo struct {
	shops map[uuid.UUID]*model.Shop
	subs  map[uuid.UUID]*model.ShopSubscription // key: user id
}

func newFakeShopRepo() *fakeShopRepo {
	return &fakeShopRepo{
		shops: make(map[uuid.UUID]*model.Shop),
		subs:  make(map[uuid.UUID]*model.ShopSubscription),
	}
}

func (f *fakeShopRepo) Create(shop *model.Shop) error {
	shop.ID = uuid.New()
	copied := *shop
	f.shops[shop.ID] = &copied
	return nil
}

func (f *fakeShopRepo) Update(shop *model.Shop) error {
	copied := *shop
	f.shops[shop.ID] = &copied
	return nil
}

func (f *fakeShopRepo) FindAll() ([]model.Shop, error) {
	var out []model.Shop
	for _, shop := range f.shops {
		out = append(out, *shop)
	}
	return out, nil
}

func (f *fakeShopRepo) FindByID(id uuid.UUID) (*model.Shop, error) {
	shop, ok := f.shops[id]
	if !ok {
		return nil, apperr.NotFound("shop %s not found", id)
	}
	copied := *shop
	return &copied, nil
}

func (f *fakeShopRepo) FindBySlug(slug string) (*model.Shop, error) {
	for _, shop := range f.shops {
		if shop.Slug == slug {
			copied := *shop
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("shop %s not found", slug)
}

func (f *fakeShopRepo) FindByUserID(userID uuid.UUID) (*model.Shop, error) {
	for _, shop := range f.shops {
		if shop.UserID == userID {
			copied := *shop
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("shop for user %s not found", userID)
}

func (f *fakeShopRepo) CountByStatus(status model.ShopStatus) (int64, error) {
	var n int64
	for _, shop := range f.shops {
		if shop.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeShopRepo) UpsertSubscription(sub *model.ShopSubscription) error {
	copied := *sub
	f.subs[sub.UserID] = &copied
	return nil
}

func (f *fakeShopRepo) FindSubscriptionByUser(userID uuid.UUID) (*model.ShopSubscription, error) {
	sub, ok := f.subs[userID]
	if !ok {
		return nil, apperr.NotFound("subscription for user %s not found", userID)
	}
	copied := *sub
	return &copied, nil
}

func newTestShopService() (ShopService, *fakeShopRepo, InventoryService) {
	shopRepo := newFakeShopRepo()
	invSvc, _, _ := newTestInventoryService()
	return NewShopService(shopRepo, invSvc), shopRepo, invSvc
}

func TestCreateShop(t *testing.T) {
	svc, _, _ := newTestShopService()
	userID := uuid.New()

	t.Run("creates pending shop with normalized slug", func(t *testing.T) {
		shop, err := svc.CreateShop(&CreateShopRequest{
			Name: "Ama's Wellness", Slug: "  Ama-Shop ", UserID: userID, Actor: "admin",
		})
		require.NoError(t, err)
		assert.Equal(t, model.ShopPending, shop.Status)
		assert.Equal(t, "ama-shop", shop.Slug)
	})

	t.Run("rejects duplicate slug", func(t *testing.T) {
		_, err := svc.CreateShop(&CreateShopRequest{
			Name: "Copycat", Slug: "AMA-SHOP", UserID: uuid.New(), Actor: "admin",
		})
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("requires a user", func(t *testing.T) {
		_, err := svc.CreateShop(&CreateShopRequest{Name: "No Owner", Slug: "no-owner", Actor: "admin"})
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestActivateShop(t *testing.T) {
	svc, repo, invSvc := newTestShopService()
	userID := uuid.New()

	shop, err := svc.CreateShop(&CreateShopRequest{
		Name: "Ama's Wellness", Slug: "ama-shop", UserID: userID, Actor: "admin",
	})
	require.NoError(t, err)

	t.Run("rejects unknown plan", func(t *testing.T) {
		_, err := svc.ActivateShop(shop.ID, "platinum", "admin")
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("activates under a kit plan and tracks the catalog", func(t *testing.T) {
		activated, err := svc.ActivateShop(shop.ID, "starter", "admin")
		require.NoError(t, err)
		assert.Equal(t, model.ShopActive, activated.Status)
		assert.Equal(t, "starter", activated.PlanType)
		require.NotNil(t, activated.RenewalAt)

		sub, err := repo.FindSubscriptionByUser(userID)
		require.NoError(t, err)
		assert.Equal(t, model.SubscriptionActive, sub.Status)
		assert.Equal(t, "starter", sub.Plan)

		// Activation bootstraps the shop's product lines
		levels, err := invSvc.GetStockLevels(shop.ID)
		require.NoError(t, err)
		assert.Len(t, levels, len(catalog.ProductKeys()))
	})

	t.Run("activating an active shop fails", func(t *testing.T) {
		_, err := svc.ActivateShop(shop.ID, "starter", "admin")
		require.Error(t, err)
		assert.True(t, apperr.IsState(err))
	})
}

func TestSuspendShop(t *testing.T) {
	svc, _, _ := newTestShopService()
	userID := uuid.New()

	shop, err := svc.CreateShop(&CreateShopRequest{
		Name: "Ama's Wellness", Slug: "ama-shop", UserID: userID, Actor: "admin",
	})
	require.NoError(t, err)
	_, err = svc.ActivateShop(shop.ID, "starter", "admin")
	require.NoError(t, err)

	suspended, err := svc.SuspendShop(shop.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.ShopSuspended, suspended.Status)
	assert.False(t, suspended.IsActive)

	_, err = svc.SuspendShop(shop.ID, "admin")
	require.Error(t, err)
	assert.True(t, apperr.IsState(err))
}
