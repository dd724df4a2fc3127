package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/models"
)

// Storages bundles every repository the services depend on.
type Storages struct {
	Users         UserRepository
	UsersResource ResourceRepository[models.User]
	Tours         ResourceRepository[models.Tour]
	Reviews       ResourceRepository[models.Review]

	db *DB
}

// NewStorages connects to PostgreSQL and applies migrations when a DSN is
// configured. Without one it falls back to the in-memory backend.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	if cfg.DB.DSN == "" {
		log.Warn().Str("func", "NewStorages").Msg("no database DSN configured, using in-memory storage")
		return NewMemoryStorages(), nil
	}

	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(ctx); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
		_ = db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return NewPostgresStorages(db, log), nil
}

// NewPostgresStorages builds PostgreSQL repositories over an open database.
func NewPostgresStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		Users:         NewUserRepository(db, log),
		UsersResource: NewResourceRepository(db, UserSchema(), log),
		Tours:         NewResourceRepository(db, TourSchema(), log),
		Reviews:       NewResourceRepository(db, ReviewSchema(), log),
		db:            db,
	}
}

// NewMemoryStorages builds empty in-memory repositories. The credential
// store and the users resource share one table.
func NewMemoryStorages() *Storages {
	users := newMemoryTable[models.User]()
	return &Storages{
		Users:         &memoryUserRepository{table: users, now: nowFunc},
		UsersResource: newMemoryRepository(users, UserSchema()),
		Tours:         NewMemoryRepository(TourSchema()),
		Reviews:       NewMemoryRepository(ReviewSchema()),
	}
}

// Ping reports whether the database is reachable. The in-memory backend is
// always ready.
func (s *Storages) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

// Close releases the database connection pool.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
