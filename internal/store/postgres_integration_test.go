//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/query"
	"github.com/MKhiriev/go-tours/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// newPostgresStorages starts a throwaway PostgreSQL, applies migrations and
// returns repositories over it.
func newPostgresStorages(t *testing.T) *Storages {
	t.Helper()
	ctx := context.Background()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		t.Skip("docker not available, skipping integration tests")
	}
	_ = provider.Close()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("tours_test"),
		postgres.WithUsername("tours"),
		postgres.WithPassword("tours"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storages, err := NewStorages(ctx, config.Storage{DB: config.DB{
		DSN:          dsn,
		QueryTimeout: 5 * time.Second,
		MaxOpenConns: 4,
	}}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	return storages
}

func TestPostgres_Users(t *testing.T) {
	storages := newPostgresStorages(t)
	ctx := context.Background()

	user, err := storages.Users.CreateUser(ctx, models.User{
		Name: "Jonas", Email: "jonas@example.com", PasswordHash: "digest",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.Active)

	_, err = storages.Users.CreateUser(ctx, models.User{Name: "Other", Email: "jonas@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, ErrDuplicateKey)

	t.Run("reset token is single use and expires", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Millisecond)
		require.NoError(t, storages.Users.SetPasswordResetToken(ctx, user.ID, "hash-1", now.Add(10*time.Minute)))

		updated, err := storages.Users.ResetPassword(ctx, "hash-1", "new-digest", now)
		require.NoError(t, err)
		assert.Equal(t, "new-digest", updated.PasswordHash)
		assert.False(t, updated.HasPendingReset())

		_, err = storages.Users.ResetPassword(ctx, "hash-1", "again", now)
		assert.ErrorIs(t, err, ErrUserNotFound)

		require.NoError(t, storages.Users.SetPasswordResetToken(ctx, user.ID, "hash-2", now.Add(-time.Minute)))
		cleared, err := storages.Users.ClearExpiredResetTokens(ctx, now)
		require.NoError(t, err)
		assert.EqualValues(t, 1, cleared)
	})

	t.Run("deactivated users are invisible", func(t *testing.T) {
		require.NoError(t, storages.Users.DeactivateUser(ctx, user.ID))

		_, err := storages.Users.FindUserByEmail(ctx, "jonas@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)

		users, err := storages.UsersResource.Find(ctx, query.All())
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestPostgres_Tours(t *testing.T) {
	storages := newPostgresStorages(t)
	ctx := context.Background()

	for i, price := range []float64{397, 497, 997} {
		_, err := storages.Tours.Create(ctx, models.Tour{
			Name:           []string{"The Forest Hiker", "The Sea Explorer", "The Snow Adventurer"}[i],
			Slug:           []string{"the-forest-hiker", "the-sea-explorer", "the-snow-adventurer"}[i],
			Duration:       5,
			MaxGroupSize:   10,
			Difficulty:     models.DifficultyEasy,
			RatingsAverage: models.DefaultRatingsAverage,
			Price:          price,
			Summary:        "summary",
			ImageCover:     "cover.jpg",
			Images:         models.StringList{"a.jpg"},
			StartDates:     models.TimeList{time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)},
		})
		require.NoError(t, err)
	}

	spec, err := query.Parse(map[string][]string{
		"price[lt]": {"900"},
		"sort":      {"-price"},
	})
	require.NoError(t, err)

	tours, err := storages.Tours.Find(ctx, spec)
	require.NoError(t, err)
	require.Len(t, tours, 2)
	assert.Equal(t, "The Sea Explorer", tours[0].Name)
	assert.Equal(t, models.StringList{"a.jpg"}, tours[0].Images)

	updated, err := storages.Tours.Update(ctx, tours[0].ID, func() models.Tour {
		t := tours[0]
		t.Price = 597
		return t
	}())
	require.NoError(t, err)
	assert.EqualValues(t, 597, updated.Price)
	assert.Greater(t, updated.Version, tours[0].Version)

	_, err = storages.Tours.Create(ctx, models.Tour{
		Name: "The Sea Explorer", Slug: "the-sea-explorer", Duration: 1, MaxGroupSize: 1,
		Difficulty: models.DifficultyEasy, Price: 1, Summary: "s", ImageCover: "c",
	})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	require.NoError(t, storages.Tours.Delete(ctx, updated.ID))
	_, err = storages.Tours.FindByID(ctx, updated.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
