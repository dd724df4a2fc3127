package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/validators"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
	queryTimeout       time.Duration
}

func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	// establish connection
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
		conn.SetMaxIdleConns(cfg.MaxOpenConns)
	}

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		_ = conn.Close()
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	return newDB(conn, cfg.QueryTimeout, log), nil
}

func newDB(conn *sql.DB, queryTimeout time.Duration, log *logger.Logger) *DB {
	return &DB{
		DB:                 conn,
		logger:             log,
		errorClassificator: NewPostgresErrorClassifier(),
		queryTimeout:       queryTimeout,
	}
}

// withTimeout bounds a single store call by the configured query timeout.
func (db *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if db.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, db.queryTimeout)
}

// retry runs a read once more if the first attempt failed with a transient
// error.
func (db *DB) retry(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err == nil || db.errorClassificator.Classify(err) != Retryable || ctx.Err() != nil {
		return err
	}

	logger.FromContext(ctx).Warn().Err(err).Str("func", "*DB.retry").Msg("retrying transient database error")
	return fn(ctx)
}

func postgresError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

// mapWriteError converts constraint violations into domain errors.
// columnField maps a column name to the field name clients know.
func mapWriteError(err error, columnField func(string) string) error {
	pgErr := postgresError(err)
	if pgErr == nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	field := pgErr.ColumnName
	if field == "" {
		field = pgErr.ConstraintName
	}
	if columnField != nil && pgErr.ColumnName != "" {
		field = columnField(pgErr.ColumnName)
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.Detail)
	case pgerrcode.ForeignKeyViolation:
		return validators.FieldError(field, "Referenced record does not exist")
	case pgerrcode.NotNullViolation:
		return validators.FieldError(field, "Missing required field "+field)
	case pgerrcode.CheckViolation:
		return validators.FieldError(field, "Value violates constraint "+pgErr.ConstraintName)
	case pgerrcode.InvalidTextRepresentation, pgerrcode.NumericValueOutOfRange:
		return validators.FieldError(field, "Invalid value")
	default:
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
}
