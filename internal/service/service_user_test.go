package service

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/query"
	"github.com/MKhiriev/go-tours/internal/store"
	"github.com/MKhiriev/go-tours/internal/validators"
	"github.com/MKhiriev/go-tours/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (UserService, *store.Storages, models.User) {
	t.Helper()
	storages := store.NewMemoryStorages()
	user, err := storages.Users.CreateUser(context.Background(), models.User{
		Name: "Jonas", Email: "jonas@example.com", Photo: DefaultPhoto, Role: models.RoleGuide, PasswordHash: "digest",
	})
	require.NoError(t, err)
	return NewUserService(storages.Users, storages.UsersResource, logger.Nop()), storages, user
}

func TestUserService_UpdateMe(t *testing.T) {
	svc, storages, user := newUserFixture(t)
	ctx := context.Background()

	_, err := storages.Users.CreateUser(ctx, models.User{Name: "Taken", Email: "taken@example.com", PasswordHash: "digest"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		patch   string
		check   func(t *testing.T, got models.User)
		wantErr error
	}{
		{
			name:  "updates allowed fields",
			patch: `{"name": "Jonas S", "email": " New@Example.com", "photo": "me.jpg"}`,
			check: func(t *testing.T, got models.User) {
				assert.Equal(t, "Jonas S", got.Name)
				assert.Equal(t, "new@example.com", got.Email)
				assert.Equal(t, "me.jpg", got.Photo)
			},
		},
		{
			name:  "ignores role",
			patch: `{"role": "admin", "name": "Jonas"}`,
			check: func(t *testing.T, got models.User) {
				assert.Equal(t, models.RoleGuide, got.Role)
				assert.Equal(t, "Jonas", got.Name)
			},
		},
		{name: "rejects password", patch: `{"password": "newpass123"}`, wantErr: validators.ErrValidation},
		{name: "rejects password confirm", patch: `{"passwordConfirm": "newpass123"}`, wantErr: validators.ErrValidation},
		{name: "invalid email", patch: `{"email": "not-an-email"}`, wantErr: validators.ErrValidation},
		{name: "taken email", patch: `{"email": "taken@example.com"}`, wantErr: store.ErrDuplicateKey},
		{name: "not json", patch: `[1,2]`, wantErr: validators.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.UpdateMe(ctx, user.ID, []byte(tt.patch))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}

	stored, err := storages.Users.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "digest", stored.PasswordHash)
}

func TestUserService_PasswordRouteMessage(t *testing.T) {
	svc, _, user := newUserFixture(t)

	_, err := svc.UpdateMe(context.Background(), user.ID, []byte(`{"password":"x","passwordConfirm":"x"}`))
	assert.EqualError(t, err, "Invalid input data. This route is not for password updates. Please use /update-password.")
}

func TestUserService_DeleteMe(t *testing.T) {
	svc, storages, user := newUserFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteMe(ctx, user.ID))

	_, err := svc.Me(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	admin := NewUserAdminService(storages.UsersResource, logger.Nop())
	listed, err := admin.List(ctx, query.All())
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = admin.Get(ctx, user.ID)
	assert.EqualError(t, err, "No user found with that ID")

	assert.ErrorIs(t, svc.DeleteMe(ctx, user.ID), ErrNotFound)
}

func TestUserAdminService_Update(t *testing.T) {
	_, storages, user := newUserFixture(t)
	admin := NewUserAdminService(storages.UsersResource, logger.Nop())
	ctx := context.Background()

	got, err := admin.Update(ctx, user.ID, []byte(`{"role": "lead-guide", "email": "JONAS@example.com"}`))
	require.NoError(t, err)
	assert.Equal(t, models.RoleLeadGuide, got.Role)
	assert.Equal(t, "jonas@example.com", got.Email)

	_, err = admin.Update(ctx, user.ID, []byte(`{"role": "emperor"}`))
	assert.ErrorIs(t, err, validators.ErrValidation)
}
