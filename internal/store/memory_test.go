package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-tours/internal/query"
	"github.com/MKhiriev/go-tours/internal/validators"
	"github.com/MKhiriev/go-tours/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTours(t *testing.T, repo ResourceRepository[models.Tour], tours ...models.Tour) []models.Tour {
	t.Helper()
	out := make([]models.Tour, 0, len(tours))
	for _, tour := range tours {
		created, err := repo.Create(context.Background(), tour)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func TestMemoryRepository_CreateAssignsGeneratedFields(t *testing.T) {
	repo := NewMemoryRepository(TourSchema())

	created := seedTours(t, repo, models.Tour{Name: "The Forest Hiker", Price: 397, Version: 42, ID: 1000})[0]

	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, int64(1), created.Version)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestMemoryRepository_CreateRejectsDuplicate(t *testing.T) {
	repo := NewMemoryRepository(TourSchema())
	seedTours(t, repo, models.Tour{Name: "The Forest Hiker"})

	_, err := repo.Create(context.Background(), models.Tour{Name: "The Forest Hiker"})
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestMemoryRepository_Find(t *testing.T) {
	repo := NewMemoryRepository(TourSchema())
	discount := 50.0
	seedTours(t, repo,
		models.Tour{Name: "The Forest Hiker", Price: 397, Difficulty: "easy", Duration: 5},
		models.Tour{Name: "The Sea Explorer", Price: 497, Difficulty: "medium", Duration: 7, PriceDiscount: &discount},
		models.Tour{Name: "The Snow Adventurer", Price: 997, Difficulty: "difficult", Duration: 4},
		models.Tour{Name: "The City Wanderer", Price: 1197, Difficulty: "easy", Duration: 9},
	)

	tests := []struct {
		name string
		spec query.Spec
		want []string
	}{
		{
			name: "equality with several values",
			spec: query.Spec{
				Conditions: []query.Condition{{Field: "difficulty", Op: query.OpEq, Values: []string{"easy", "medium"}}},
				Sort:       []query.SortKey{{Field: "price"}},
			},
			want: []string{"The Forest Hiker", "The Sea Explorer", "The City Wanderer"},
		},
		{
			name: "range and descending sort",
			spec: query.Spec{
				Conditions: []query.Condition{
					{Field: "price", Op: query.OpGte, Values: []string{"497"}},
					{Field: "price", Op: query.OpLt, Values: []string{"1197"}},
				},
				Sort: []query.SortKey{{Field: "price", Desc: true}},
			},
			want: []string{"The Snow Adventurer", "The Sea Explorer"},
		},
		{
			name: "multi-key sort",
			spec: query.Spec{
				Sort: []query.SortKey{{Field: "difficulty"}, {Field: "duration", Desc: true}},
			},
			want: []string{"The Snow Adventurer", "The City Wanderer", "The Forest Hiker", "The Sea Explorer"},
		},
		{
			name: "nil optional never matches",
			spec: query.Spec{
				Conditions: []query.Condition{{Field: "priceDiscount", Op: query.OpLte, Values: []string{"100"}}},
			},
			want: []string{"The Sea Explorer"},
		},
		{
			name: "second page",
			spec: query.Spec{Sort: []query.SortKey{{Field: "price"}}, Page: 2, Limit: 3},
			want: []string{"The City Wanderer"},
		},
		{
			name: "page past the end",
			spec: query.Spec{Sort: []query.SortKey{{Field: "price"}}, Page: 5, Limit: 3},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tours, err := repo.Find(context.Background(), tt.spec)
			require.NoError(t, err)

			names := make([]string, 0, len(tours))
			for _, tour := range tours {
				names = append(names, tour.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestMemoryRepository_FindRejectsBadValue(t *testing.T) {
	repo := NewMemoryRepository(TourSchema())

	_, err := repo.Find(context.Background(), query.Spec{
		Conditions: []query.Condition{{Field: "price", Op: query.OpGt, Values: []string{"cheap"}}},
	})
	require.ErrorIs(t, err, validators.ErrValidation)
}

func TestMemoryRepository_UpdateKeepsImmutableFields(t *testing.T) {
	repo := NewMemoryRepository(ReviewSchema())
	created, err := repo.Create(context.Background(), models.Review{Review: "Great", Rating: 4, Tour: 1, User: 2})
	require.NoError(t, err)

	updated, err := repo.Update(context.Background(), created.ID, models.Review{Review: "Amazing", Rating: 5, Tour: 9, User: 9})
	require.NoError(t, err)

	assert.Equal(t, "Amazing", updated.Review)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, int64(1), updated.Tour)
	assert.Equal(t, int64(2), updated.User)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestMemoryRepository_UpdateBumpsVersion(t *testing.T) {
	repo := NewMemoryRepository(TourSchema())
	created := seedTours(t, repo, models.Tour{Name: "The Forest Hiker", Price: 397})[0]

	created.Price = 450
	updated, err := repo.Update(context.Background(), created.ID, created)
	require.NoError(t, err)

	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, 450.0, updated.Price)
}

func TestMemoryRepository_UpdateAndDeleteUnknown(t *testing.T) {
	repo := NewMemoryRepository(TourSchema())

	_, err := repo.Update(context.Background(), 7, models.Tour{})
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, repo.Delete(context.Background(), 7), ErrNotFound)
	_, err = repo.FindByID(context.Background(), 7)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepository_ConcurrentCreate(t *testing.T) {
	repo := NewMemoryRepository(ReviewSchema())

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), models.Review{Review: "ok", Rating: 5, Tour: 1, User: int64(i + 1)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	reviews, err := repo.Find(context.Background(), query.All())
	require.NoError(t, err)
	assert.Len(t, reviews, 50)
}

func TestMemoryStorages_SharedUsersTable(t *testing.T) {
	s := NewMemoryStorages()
	ctx := context.Background()

	user, err := s.Users.CreateUser(ctx, models.User{Name: "Jonas", Email: "jonas@example.com", PasswordHash: "digest"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	found, err := s.UsersResource.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jonas@example.com", found.Email)

	require.NoError(t, s.Users.DeactivateUser(ctx, user.ID))

	_, err = s.UsersResource.FindByID(ctx, user.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Users.FindUserByEmail(ctx, "jonas@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)

	users, err := s.UsersResource.Find(ctx, query.All())
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())
}

func TestMemoryUserRepository_CreateDuplicateEmail(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, models.User{Email: "jonas@example.com"})
	require.NoError(t, err)
	_, err = repo.CreateUser(ctx, models.User{Email: "jonas@example.com"})
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestMemoryUserRepository_ResetPassword(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	user, err := repo.CreateUser(ctx, models.User{Email: "jonas@example.com", PasswordHash: "old"})
	require.NoError(t, err)
	require.NoError(t, repo.SetPasswordResetToken(ctx, user.ID, "token-hash", now.Add(10*time.Minute)))

	_, err = repo.ResetPassword(ctx, "other-hash", "new", now)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.ResetPassword(ctx, "token-hash", "new", now.Add(11*time.Minute))
	require.ErrorIs(t, err, ErrUserNotFound)

	reset, err := repo.ResetPassword(ctx, "token-hash", "new", now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "new", reset.PasswordHash)
	assert.False(t, reset.HasPendingReset())
	require.NotNil(t, reset.PasswordChangedAt)

	_, err = repo.ResetPassword(ctx, "token-hash", "again", now.Add(time.Minute))
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserRepository_ClearExpiredResetTokens(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	now := time.Now()

	a, _ := repo.CreateUser(ctx, models.User{Email: "a@example.com"})
	b, _ := repo.CreateUser(ctx, models.User{Email: "b@example.com"})
	require.NoError(t, repo.SetPasswordResetToken(ctx, a.ID, "a", now.Add(-time.Minute)))
	require.NoError(t, repo.SetPasswordResetToken(ctx, b.ID, "b", now.Add(time.Minute)))

	n, err := repo.ClearExpiredResetTokens(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	b, err = repo.FindUserByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, b.HasPendingReset())
}
