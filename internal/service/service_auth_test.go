package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/mock"
	"github.com/MKhiriev/go-tours/internal/store"
	"github.com/MKhiriev/go-tours/internal/validators"
	"github.com/MKhiriev/go-tours/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func signupRequest() models.SignupRequest {
	return models.SignupRequest{
		Name:            "Jonas Schmedtmann",
		Email:           "  Jonas@Example.com ",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	}
}

func newMemoryAuth(t *testing.T) (*authService, store.UserRepository, *testClock) {
	t.Helper()
	clock := newTestClock()
	users := store.NewMemoryUserRepository()
	return newAuthService(users, newTestHasher(t), newTestTokens(clock), clock.Now, logger.Nop()), users, clock
}

func TestAuthService_Signup(t *testing.T) {
	auth, users, _ := newMemoryAuth(t)
	ctx := context.Background()

	user, token, err := auth.Signup(ctx, signupRequest())
	require.NoError(t, err)

	assert.Equal(t, "jonas@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, DefaultPhoto, user.Photo)
	assert.Nil(t, user.PasswordChangedAt)
	assert.NotEqual(t, "pass1234", user.PasswordHash)
	assert.Equal(t, user.ID, token.UserID)
	assert.NotEmpty(t, token.SignedString)

	stored, err := users.FindUserByEmail(ctx, "jonas@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestAuthService_Signup_Errors(t *testing.T) {
	auth, _, _ := newMemoryAuth(t)
	ctx := context.Background()

	short := signupRequest()
	short.Password, short.PasswordConfirm = "short", "short"
	_, _, err := auth.Signup(ctx, short)
	require.ErrorIs(t, err, validators.ErrValidation)

	mismatch := signupRequest()
	mismatch.PasswordConfirm = "other1234"
	_, _, err = auth.Signup(ctx, mismatch)
	require.ErrorIs(t, err, validators.ErrValidation)

	_, _, err = auth.Signup(ctx, signupRequest())
	require.NoError(t, err)

	_, _, err = auth.Signup(ctx, signupRequest())
	require.ErrorIs(t, err, store.ErrDuplicateKey)
}

func TestAuthService_Login(t *testing.T) {
	auth, _, _ := newMemoryAuth(t)
	ctx := context.Background()

	created, _, err := auth.Signup(ctx, signupRequest())
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     models.LoginRequest
		wantErr error
	}{
		{name: "success", req: models.LoginRequest{Email: "JONAS@example.com", Password: "pass1234"}},
		{name: "wrong password", req: models.LoginRequest{Email: "jonas@example.com", Password: "wrong1234"}, wantErr: ErrIncorrectCredentials},
		{name: "unknown email", req: models.LoginRequest{Email: "nobody@example.com", Password: "pass1234"}, wantErr: ErrIncorrectCredentials},
		{name: "missing password", req: models.LoginRequest{Email: "jonas@example.com"}, wantErr: validators.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, token, err := auth.Login(ctx, tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, user.ID)
			assert.Equal(t, created.ID, token.UserID)
		})
	}
}

func TestAuthService_Login_UnknownEmailComparesDummy(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mock.NewMockUserRepository(ctrl)
	hasher := mock.NewMockPasswordHasher(ctrl)
	clock := newTestClock()
	auth := newAuthService(users, hasher, newTestTokens(clock), clock.Now, logger.Nop())

	users.EXPECT().FindUserByEmail(gomock.Any(), "ghost@example.com").Return(models.User{}, store.ErrUserNotFound)
	hasher.EXPECT().Compare(gomock.Any(), "", "pass1234").Return(false, nil)

	_, _, err := auth.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "pass1234"})
	assert.ErrorIs(t, err, ErrIncorrectCredentials)
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mock.NewMockUserRepository(ctrl)
	hasher := mock.NewMockPasswordHasher(ctrl)
	clock := newTestClock()
	auth := newAuthService(users, hasher, newTestTokens(clock), clock.Now, logger.Nop())

	boom := errors.New("connection reset")
	users.EXPECT().FindUserByEmail(gomock.Any(), gomock.Any()).Return(models.User{}, boom)

	_, _, err := auth.Login(context.Background(), models.LoginRequest{Email: "a@example.com", Password: "pass1234"})
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrIncorrectCredentials)
}

func TestAuthService_Authenticate(t *testing.T) {
	auth, users, clock := newMemoryAuth(t)
	ctx := context.Background()

	user, token, err := auth.Signup(ctx, signupRequest())
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		got, err := auth.Authenticate(ctx, token.SignedString)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := auth.Authenticate(ctx, "")
		assert.ErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := auth.Authenticate(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		clock.Advance(2 * time.Hour)
		defer clock.Advance(-2 * time.Hour)

		_, err := auth.Authenticate(ctx, token.SignedString)
		assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
	})

	t.Run("deactivated user", func(t *testing.T) {
		other := signupRequest()
		other.Email = "other@example.com"
		u, tok, err := auth.Signup(ctx, other)
		require.NoError(t, err)
		require.NoError(t, users.DeactivateUser(ctx, u.ID))

		_, err = auth.Authenticate(ctx, tok.SignedString)
		assert.ErrorIs(t, err, ErrUserNoLongerExists)
	})
}

func TestAuthService_UpdatePassword(t *testing.T) {
	auth, _, clock := newMemoryAuth(t)
	ctx := context.Background()

	user, oldToken, err := auth.Signup(ctx, signupRequest())
	require.NoError(t, err)

	_, _, err = auth.UpdatePassword(ctx, user.ID, models.UpdatePasswordRequest{
		PasswordCurrent: "wrong1234", Password: "newpass123", PasswordConfirm: "newpass123",
	})
	require.ErrorIs(t, err, ErrIncorrectCurrentPassword)

	clock.Advance(time.Second)
	updated, newToken, err := auth.UpdatePassword(ctx, user.ID, models.UpdatePasswordRequest{
		PasswordCurrent: "pass1234", Password: "newpass123", PasswordConfirm: "newpass123",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.PasswordChangedAt)
	assert.Equal(t, clock.Now(), *updated.PasswordChangedAt)

	_, err = auth.Authenticate(ctx, oldToken.SignedString)
	assert.ErrorIs(t, err, ErrPasswordChanged)

	_, err = auth.Authenticate(ctx, newToken.SignedString)
	assert.NoError(t, err)

	_, _, err = auth.Login(ctx, models.LoginRequest{Email: user.Email, Password: "pass1234"})
	assert.ErrorIs(t, err, ErrIncorrectCredentials)
	_, _, err = auth.Login(ctx, models.LoginRequest{Email: user.Email, Password: "newpass123"})
	assert.NoError(t, err)
}

func TestRequireRole(t *testing.T) {
	admin := models.User{Role: models.RoleAdmin}
	guide := models.User{Role: models.RoleGuide}

	assert.NoError(t, RequireRole(admin, models.RoleAdmin, models.RoleLeadGuide))
	assert.ErrorIs(t, RequireRole(guide, models.RoleAdmin, models.RoleLeadGuide), ErrForbidden)
	assert.ErrorIs(t, RequireRole(guide), ErrForbidden)
}

func TestUserSaveSteps(t *testing.T) {
	clock := newTestClock()
	steps := userSaveSteps(newTestHasher(t), clock.Now)
	ctx := context.Background()

	created := userRecord{User: models.User{Email: " A@B.io "}, Password: "pass1234"}
	require.NoError(t, runSteps(ctx, steps, &created, OpCreate))
	assert.Equal(t, "a@b.io", created.Email)
	assert.NotEmpty(t, created.PasswordHash)
	assert.Empty(t, created.Password)
	assert.Nil(t, created.PasswordChangedAt)

	updated := userRecord{Password: "pass1234"}
	require.NoError(t, runSteps(ctx, steps, &updated, OpUpdate))
	require.NotNil(t, updated.PasswordChangedAt)
	assert.Equal(t, clock.Now(), *updated.PasswordChangedAt)
}

func TestRunSteps_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	var ran []string
	steps := []Step[int]{
		{Name: "first", Run: func(context.Context, *int, Operation) error { ran = append(ran, "first"); return boom }},
		{Name: "second", Run: func(context.Context, *int, Operation) error { ran = append(ran, "second"); return nil }},
	}

	var v int
	err := runSteps(context.Background(), steps, &v, OpCreate)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "save step first")
	assert.Equal(t, []string{"first"}, ran)
}
