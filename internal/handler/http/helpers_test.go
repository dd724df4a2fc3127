package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/crypto"
	"github.com/MKhiriev/go-tours/internal/limiter"
	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/mock"
	"github.com/MKhiriev/go-tours/internal/service"
	"github.com/MKhiriev/go-tours/internal/store"
	"github.com/MKhiriev/go-tours/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "pass1234"

type testAPI struct {
	router   http.Handler
	storages *store.Storages
	hasher   crypto.PasswordHasher
	notifier *mock.MockNotifier
}

const testResetURLBase = "https://tours.test"

func newTestAPI(t *testing.T, lim limiter.Limiter) *testAPI {
	t.Helper()
	return newTestAPIWithServer(t, lim, config.Server{MaxBodyBytes: 10 << 10})
}

func newTestAPIWithServer(t *testing.T, lim limiter.Limiter, server config.Server) *testAPI {
	t.Helper()

	hasher, err := crypto.NewPasswordHasher(bcrypt.MinCost, 2)
	require.NoError(t, err)

	notifier := mock.NewMockNotifier(gomock.NewController(t))
	storages := store.NewMemoryStorages()

	cfg := config.StructuredConfig{
		App: config.App{
			TokenSignKey:  "test-secret",
			TokenIssuer:   "go-tours",
			TokenDuration: time.Hour,
			ResetTokenTTL: 10 * time.Minute,
			ResetURLBase:  testResetURLBase,
			Version:       "1.2.3",
		},
	}
	services, err := service.NewServices(storages, notifier, hasher, cfg, models.NewAppBuildInfo("", "", ""), logger.Nop())
	require.NoError(t, err)

	h := NewHandler(services, lim, server, logger.Nop())
	return &testAPI{router: h.Init(), storages: storages, hasher: hasher, notifier: notifier}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// signup registers a regular user and returns the session token.
func (a *testAPI) signup(t *testing.T, name, email string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/signup", models.SignupRequest{
		Name:            name,
		Email:           email,
		Password:        testPassword,
		PasswordConfirm: testPassword,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeEnvelope(t, rec).Token
}

// loginAs creates a user with role directly in storage and logs in.
func (a *testAPI) loginAs(t *testing.T, role models.Role, email string) string {
	t.Helper()
	hash, err := a.hasher.Hash(context.Background(), testPassword)
	require.NoError(t, err)

	_, err = a.storages.Users.CreateUser(context.Background(), models.User{
		Name:         string(role) + " account",
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	})
	require.NoError(t, err)

	rec := a.do(t, http.MethodPost, "/api/v1/auth/login", models.LoginRequest{Email: email, Password: testPassword}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeEnvelope(t, rec).Token
}

type testEnvelope struct {
	Status  string                     `json:"status"`
	Results *int                       `json:"results"`
	Token   string                     `json:"token"`
	Message string                     `json:"message"`
	Data    map[string]json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData[T any](t *testing.T, env testEnvelope, key string) T {
	t.Helper()
	var v T
	raw, ok := env.Data[key]
	require.True(t, ok, "missing data key %q", key)
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func validTour(name string, price float64) map[string]any {
	return map[string]any{
		"name":         name,
		"duration":     5,
		"maxGroupSize": 10,
		"difficulty":   models.DifficultyEasy,
		"price":        price,
		"summary":      "  A walk through the forest  ",
		"imageCover":   "cover.jpg",
	}
}
