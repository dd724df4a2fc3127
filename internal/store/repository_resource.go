package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/query"
	sq "github.com/Masterminds/squirrel"
)

// resourceRepository is the PostgreSQL-backed [ResourceRepository].
type resourceRepository[T any] struct {
	db     *DB
	schema *Schema[T]
	logger *logger.Logger
}

// NewResourceRepository constructs a PostgreSQL [ResourceRepository] for
// the given schema.
func NewResourceRepository[T any](db *DB, schema *Schema[T], logger *logger.Logger) ResourceRepository[T] {
	logger.Debug().Str("table", schema.Table).Msg("creating resource repository")
	return &resourceRepository[T]{
		db:     db,
		schema: schema,
		logger: logger,
	}
}

func (r *resourceRepository[T]) Schema() *Schema[T] {
	return r.schema
}

func (r *resourceRepository[T]) Find(ctx context.Context, spec query.Spec) ([]T, error) {
	log := logger.FromContext(ctx)

	res, err := r.schema.resolve(spec)
	if err != nil {
		return nil, err
	}

	q := sq.Select(r.schema.columns()...).
		From(r.schema.Table).
		Where(whereClause(res.conditions)).
		OrderBy(orderByClause(res.sort)...).
		PlaceholderFormat(sq.Dollar)
	if res.limit > 0 {
		q = q.Limit(res.limit).Offset(res.offset)
	}

	stmt, args, err := q.ToSql()
	if err != nil {
		log.Err(err).Str("func", "resourceRepository.Find").Str("table", r.schema.Table).Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var results []T
	err = r.db.retry(ctx, func(ctx context.Context) error {
		var queryErr error
		results, queryErr = r.queryRows(ctx, stmt, args)
		return queryErr
	})
	if err != nil {
		log.Err(err).Str("func", "resourceRepository.Find").Str("table", r.schema.Table).Msg("failed to find records")
		return nil, err
	}

	return results, nil
}

func (r *resourceRepository[T]) queryRows(ctx context.Context, stmt string, args []any) ([]T, error) {
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]T, 0, 16)
	for rows.Next() {
		var rec T
		if err := rows.Scan(r.schema.scanTargets(&rec)...); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return results, nil
}

func (r *resourceRepository[T]) FindByID(ctx context.Context, id int64) (T, error) {
	log := logger.FromContext(ctx)
	var rec T

	stmt, args, err := sq.Select(r.schema.columns()...).
		From(r.schema.Table).
		Where(whereClause(r.schema.byID(id))).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return rec, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	err = r.db.retry(ctx, func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, stmt, args...).Scan(r.schema.scanTargets(&rec)...)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "resourceRepository.FindByID").Int64("id", id).Msg("failed to find record")
		return rec, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return rec, nil
}

func (r *resourceRepository[T]) Create(ctx context.Context, record T) (T, error) {
	log := logger.FromContext(ctx)

	columns := make([]string, 0, len(r.schema.Fields))
	values := make([]any, 0, len(r.schema.Fields))
	for _, f := range r.schema.Fields {
		if f.Generated {
			continue
		}
		columns = append(columns, f.Column)
		values = append(values, f.value(&record))
	}

	stmt, args, err := sq.Insert(r.schema.Table).
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING " + strings.Join(r.schema.columns(), ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return record, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var created T
	if err = r.db.QueryRowContext(ctx, stmt, args...).Scan(r.schema.scanTargets(&created)...); err != nil {
		log.Err(err).Str("func", "resourceRepository.Create").Str("table", r.schema.Table).Msg("failed to insert record")
		return record, mapWriteError(err, r.schema.FieldName)
	}

	return created, nil
}

func (r *resourceRepository[T]) Update(ctx context.Context, id int64, record T) (T, error) {
	log := logger.FromContext(ctx)

	set := make(map[string]any, len(r.schema.Fields))
	for _, f := range r.schema.Fields {
		if f.writable() {
			set[f.Column] = f.value(&record)
		}
	}
	if r.schema.VersionField != "" {
		col := r.schema.mustField(r.schema.VersionField).Column
		set[col] = sq.Expr(col + " + 1")
	}

	stmt, args, err := sq.Update(r.schema.Table).
		SetMap(set).
		Where(whereClause(r.schema.byID(id))).
		Suffix("RETURNING " + strings.Join(r.schema.columns(), ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return record, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var updated T
	err = r.db.QueryRowContext(ctx, stmt, args...).Scan(r.schema.scanTargets(&updated)...)
	if errors.Is(err, sql.ErrNoRows) {
		return record, ErrNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "resourceRepository.Update").Int64("id", id).Msg("failed to update record")
		return record, mapWriteError(err, r.schema.FieldName)
	}

	return updated, nil
}

func (r *resourceRepository[T]) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	stmt, args, err := sq.Delete(r.schema.Table).
		Where(whereClause(r.schema.byID(id))).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		log.Err(err).Str("func", "resourceRepository.Delete").Int64("id", id).Msg("failed to delete record")
		return mapWriteError(err, r.schema.FieldName)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// whereClause turns resolved conditions into a squirrel predicate.
func whereClause[T any](conditions []condition[T]) sq.And {
	and := make(sq.And, 0, len(conditions))
	for _, c := range conditions {
		col := c.field.Column
		switch c.op {
		case query.OpGt:
			and = append(and, sq.Gt{col: c.values[0]})
		case query.OpGte:
			and = append(and, sq.GtOrEq{col: c.values[0]})
		case query.OpLt:
			and = append(and, sq.Lt{col: c.values[0]})
		case query.OpLte:
			and = append(and, sq.LtOrEq{col: c.values[0]})
		default:
			if len(c.values) == 1 {
				and = append(and, sq.Eq{col: c.values[0]})
			} else {
				and = append(and, sq.Eq{col: c.values})
			}
		}
	}
	return and
}

// orderByClause renders sort keys with the id as a final tiebreaker.
func orderByClause[T any](keys []sortKey[T]) []string {
	clauses := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		dir := "ASC"
		if k.desc {
			dir = "DESC"
		}
		clauses = append(clauses, k.field.Column+" "+dir)
	}
	return append(clauses, "id ASC")
}
