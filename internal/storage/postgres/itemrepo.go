package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/itemsvc/internal/item"
	"github.com/vyrodovalexey/itemsvc/internal/observability"
	"github.com/vyrodovalexey/itemsvc/internal/observability/tracing"
)

const itemColumnsSQL = "id, name, description"

var itemColumns = []string{"id", "name", "description"}

// DB is the minimal database interface ItemRepo depends on (pgxpool or
// pgxmock).
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ItemRepo implements item.Repository backed by a pgx-compatible pool.
// Every query runs inside a trace span.
type ItemRepo struct {
	db     DB
	tracer trace.Tracer
	logger observability.Logger
}

// NewItemRepo creates an item repository. A nil tracer falls back to the
// global provider; a nil logger discards output.
func NewItemRepo(db DB, tracer trace.Tracer, logger observability.Logger) *ItemRepo {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &ItemRepo{db: db, tracer: tracer, logger: logger}
}

// Create inserts a new item inside a transaction and returns it with its
// assigned ID. Any failure rolls back, leaving no partial record.
func (r *ItemRepo) Create(ctx context.Context, in item.CreateInput) (created *item.Item, err error) {
	ctx, span := tracing.StartSpan(ctx, r.tracer, "ItemRepo.Create",
		attribute.String("db.operation", "insert"),
		attribute.String("db.sql.table", "items"),
	)
	defer func() { tracing.EndSpan(span, err) }()

	sql, args, err := squirrel.Insert("items").
		Columns("name", "description").
		Values(in.Name, in.Description).
		Suffix("RETURNING " + itemColumnsSQL).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.logger.Error("rollback failed", observability.Error(rbErr))
			}
		}
	}()

	var it item.Item
	if err = pgxscan.Get(ctx, tx, &it, sql, args...); err != nil {
		return nil, fmt.Errorf("inserting item: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &it, nil
}

// GetByID returns the item with the given ID, or item.ErrNotFound.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (found *item.Item, err error) {
	ctx, span := tracing.StartSpan(ctx, r.tracer, "ItemRepo.GetByID",
		attribute.String("db.operation", "select"),
		attribute.String("db.sql.table", "items"),
		attribute.Int64("item.id", id),
	)
	defer func() { tracing.EndSpan(span, err) }()

	sql, args, err := squirrel.Select(itemColumns...).
		From("items").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	var it item.Item
	if err = pgxscan.Get(ctx, r.db, &it, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = item.ErrNotFound
			return nil, err
		}
		return nil, fmt.Errorf("scanning item: %w", err)
	}

	return &it, nil
}

// Compile-time interface assertion.
var _ item.Repository = (*ItemRepo)(nil)
