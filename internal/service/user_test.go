package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
)

func registerClient(t *testing.T, svc *UserService, email string) model.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Yasmine",
		LastName:  "Berrada",
		Email:     email,
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)
	return u
}

func TestUserRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to an active client account", func(t *testing.T) {
		store := newMemStore()
		svc := NewUserService(store)
		u := registerClient(t, svc, "Yasmine@Example.com")
		assert.Equal(t, model.RoleClient, u.Role)
		assert.True(t, u.IsActive)
		// Email is normalized and the password never stored in clear.
		assert.Equal(t, "yasmine@example.com", u.Email)
		assert.NotContains(t, u.PasswordHash, "s3cret")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		store := newMemStore()
		svc := NewUserService(store)
		registerClient(t, svc, "dup@example.com")
		_, err := svc.Register(ctx, RegisterInput{
			FirstName: "A", LastName: "B", Email: "dup@example.com", Password: "whatever1",
		})
		assert.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("admin role cannot be self-assigned", func(t *testing.T) {
		store := newMemStore()
		svc := NewUserService(store)
		_, err := svc.Register(ctx, RegisterInput{
			FirstName: "A", LastName: "B", Email: "a@b.com", Password: "whatever1", Role: model.RoleAdmin,
		})
		assert.Equal(t, KindBadRequest, KindOf(err))
	})

	t.Run("rejects short passwords and bad emails", func(t *testing.T) {
		store := newMemStore()
		svc := NewUserService(store)
		_, err := svc.Register(ctx, RegisterInput{FirstName: "A", LastName: "B", Email: "a@b.com", Password: "short"})
		assert.Equal(t, KindBadRequest, KindOf(err))
		_, err = svc.Register(ctx, RegisterInput{FirstName: "A", LastName: "B", Email: "not-an-email", Password: "whatever1"})
		assert.Equal(t, KindBadRequest, KindOf(err))
	})
}

func TestUserAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewUserService(store)
	u := registerClient(t, svc, "login@example.com")

	t.Run("valid credentials", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "LOGIN@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "login@example.com", "wrong-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		admin := model.Actor{ID: 999, Role: model.RoleAdmin}
		_, err := svc.SetActive(ctx, u.ID, false, admin)
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, "login@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserManagement(t *testing.T) {
	ctx := context.Background()
	admin := model.Actor{ID: 999, Role: model.RoleAdmin}
	client := model.Actor{ID: 1, Role: model.RoleClient}

	t.Run("change password verifies the current one", func(t *testing.T) {
		store := newMemStore()
		svc := NewUserService(store)
		u := registerClient(t, svc, "pw@example.com")

		err := svc.ChangePassword(ctx, u.ID, "bad-guess", "new-password")
		assert.Equal(t, KindBadRequest, KindOf(err))

		require.NoError(t, svc.ChangePassword(ctx, u.ID, "s3cret-pass", "new-password"))
		_, err = svc.Authenticate(ctx, "pw@example.com", "new-password")
		assert.NoError(t, err)
	})

	t.Run("role change is admin-only", func(t *testing.T) {
		store := newMemStore()
		svc := NewUserService(store)
		u := registerClient(t, svc, "promo@example.com")

		_, err := svc.ChangeRole(ctx, u.ID, model.RoleOrganizer, client)
		assert.Equal(t, KindForbidden, KindOf(err))

		got, err := svc.ChangeRole(ctx, u.ID, model.RoleOrganizer, admin)
		require.NoError(t, err)
		assert.Equal(t, model.RoleOrganizer, got.Role)
	})

	t.Run("listing is admin-only", func(t *testing.T) {
		store := newMemStore()
		svc := NewUserService(store)
		registerClient(t, svc, "one@example.com")
		registerClient(t, svc, "two@example.com")

		_, err := svc.List(ctx, client)
		assert.Equal(t, KindForbidden, KindOf(err))

		users, err := svc.List(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})
}
