package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-shopstock/internal/model"
	"go-shopstock/pkg/jwt"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Create(user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	f.users[userID].Password = hashedPassword
	return nil
}

func (f *fakeUserRepo) UpdatePrivileges(userID uuid.UUID, privileges []model.Privilege) error {
	f.users[userID].Privileges = privileges
	return nil
}

func (f *fakeUserRepo) FindAll() ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateTokenVersion(userID uuid.UUID, version string) error {
	f.users[userID].TokenVersion = version
	return nil
}

func (f *fakeUserRepo) UpdateLastSeen(userID uuid.UUID) error {
	u, ok := f.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	now := time.Now()
	u.LastSeenAt = &now
	return nil
}

func seedOwner(t *testing.T, users *fakeUserRepo) *model.User {
	t.Helper()
	user := &model.User{
		Email:    "owner@example.com",
		FullName: "Shop Owner",
		IsActive: true,
		Role:     &model.Role{Code: model.RoleOwner},
	}
	require.NoError(t, user.SetPassword("secret6"))
	require.NoError(t, users.Create(user))
	return user
}

func TestLoginEmbedsOwnerShopScope(t *testing.T) {
	users := newFakeUserRepo()
	shops := newFakeShopRepo()
	user := seedOwner(t, users)

	shop := &model.Shop{Name: "Ama's Wellness", Slug: "ama-shop", UserID: user.ID}
	require.NoError(t, shops.Create(shop))

	svc := NewAuthService(users, shops, nil)

	resp, err := svc.Login("owner@example.com", "secret6")
	require.NoError(t, err)
	require.NotNil(t, resp.ShopID)
	assert.Equal(t, shop.ID, *resp.ShopID)

	claims, err := jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	require.NotNil(t, claims.ShopID)
	assert.Equal(t, shop.ID, *claims.ShopID)
}

func TestLoginWithoutShopHasNoScope(t *testing.T) {
	users := newFakeUserRepo()
	user := seedOwner(t, users)
	user.Role = &model.Role{Code: model.RoleMasterAdmin}

	svc := NewAuthService(users, newFakeShopRepo(), nil)

	resp, err := svc.Login("owner@example.com", "secret6")
	require.NoError(t, err)
	assert.Nil(t, resp.ShopID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := newFakeUserRepo()
	seedOwner(t, users)
	svc := NewAuthService(users, newFakeShopRepo(), nil)

	_, err := svc.Login("owner@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "secret6")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHeartbeatWithoutHub(t *testing.T) {
	users := newFakeUserRepo()
	user := seedOwner(t, users)
	svc := NewAuthService(users, newFakeShopRepo(), nil)

	// No hub connected: must update presence without touching a broadcast
	require.NoError(t, svc.Heartbeat(user.ID))
	require.NotNil(t, users.users[user.ID].LastSeenAt)
}
