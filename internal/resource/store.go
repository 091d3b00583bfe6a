package resource

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brickfolio/brickfolio/internal/platform/db"
	"github.com/brickfolio/brickfolio/internal/platform/httpx"
)

// DB is the subset of pgxpool.Pool the access layer uses, kept narrow so
// stores can run against a pool or a mock.
type DB interface {
	db.Beginner
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// querier is the read/write surface shared by the pool and an open
// transaction, so statement helpers run inside or outside a tx unchanged.
type querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Store is the row gateway consumed by the service. The pgx implementation
// is Table; tests substitute fakes.
type Store[T any] interface {
	Select(ctx context.Context, spec Spec) ([]T, error)
	Count(ctx context.Context, spec Spec) (int, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, values map[string]any) (T, error)
	Update(ctx context.Context, id string, changes map[string]any) (T, error)
	Delete(ctx context.Context, id string) error
}

// Table is the PostgreSQL-backed store for one resource. All filter, sort,
// range and ownership predicates funnel through its single WHERE builder.
type Table[T any] struct {
	db   DB
	desc Descriptor
}

// NewTable builds the store for a descriptor.
func NewTable[T any](db DB, desc Descriptor) *Table[T] {
	return &Table[T]{db: db, desc: desc}
}

type whereBuilder struct {
	clauses []string
	args    []any
}

func (b *whereBuilder) add(clause string, args ...any) {
	b.clauses = append(b.clauses, clause)
	b.args = append(b.args, args...)
}

func (b *whereBuilder) next() int { return len(b.args) + 1 }

func (b *whereBuilder) sql() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

func (t *Table[T]) buildWhere(spec Spec) *whereBuilder {
	b := &whereBuilder{}
	if t.desc.SoftDelete {
		b.add("deleted_at IS NULL")
	}
	for _, p := range spec.Predicates {
		switch p.Op {
		case OpEq:
			b.add(fmt.Sprintf("%s = $%d", p.Columns[0], b.next()), p.Value)
		case OpGte:
			b.add(fmt.Sprintf("%s >= $%d", p.Columns[0], b.next()), p.Value)
		case OpLte:
			b.add(fmt.Sprintf("%s <= $%d", p.Columns[0], b.next()), p.Value)
		case OpILike:
			pos := b.next()
			parts := make([]string, len(p.Columns))
			for i, col := range p.Columns {
				parts[i] = fmt.Sprintf("%s ILIKE $%d", col, pos)
			}
			b.add("("+strings.Join(parts, " OR ")+")", p.Value)
		}
	}
	if spec.OwnerID != "" {
		b.add(t.ownerClause(b.next()), spec.OwnerID)
	}
	return b
}

// ownerClause restricts rows to those reachable from the owner through any
// of the descriptor's owner paths. The placeholder position is shared: every
// path compares against the same owner id argument.
func (t *Table[T]) ownerClause(pos int) string {
	parts := make([]string, 0, len(t.desc.OwnerPaths))
	for _, p := range t.desc.OwnerPaths {
		if p.Direct() {
			parts = append(parts, fmt.Sprintf("%s = $%d", p.Column, pos))
			continue
		}
		parts = append(parts, fmt.Sprintf(
			"%s IN (SELECT id FROM %s WHERE %s = $%d AND deleted_at IS NULL)",
			p.Column, p.ParentTable, p.ParentOwnerColumn, pos))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func (t *Table[T]) columnList() string { return strings.Join(t.desc.Columns, ", ") }

// Select returns the rows matching the spec's predicates, ordered and
// limited to the spec's page.
func (t *Table[T]) Select(ctx context.Context, spec Spec) ([]T, error) {
	b := t.buildWhere(spec)
	direction := "ASC"
	if spec.Desc {
		direction = "DESC"
	}
	from, _ := spec.Params.OffsetRange()
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		t.columnList(), t.desc.Table, b.sql(), spec.SortColumn, direction, b.next(), b.next()+1)
	args := append(b.args, spec.Params.Limit, from)

	rows, err := t.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", t.desc.Name, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", t.desc.Name, err)
	}
	return out, nil
}

// Count returns the number of rows matching the spec's predicates,
// ignoring pagination.
func (t *Table[T]) Count(ctx context.Context, spec Spec) (int, error) {
	return t.countRows(ctx, t.db, spec)
}

func (t *Table[T]) countRows(ctx context.Context, q querier, spec Spec) (int, error) {
	b := t.buildWhere(spec)
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", t.desc.Table, b.sql())
	var total int
	if err := q.QueryRow(ctx, query, b.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", t.desc.Name, err)
	}
	return total, nil
}

// Get fetches a single live row by id.
func (t *Table[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	b := &whereBuilder{}
	if t.desc.SoftDelete {
		b.add("deleted_at IS NULL")
	}
	b.add(fmt.Sprintf("id = $%d", b.next()), id)
	query := fmt.Sprintf("SELECT %s FROM %s%s", t.columnList(), t.desc.Table, b.sql())

	rows, err := t.db.Query(ctx, query, b.args...)
	if err != nil {
		return zero, fmt.Errorf("get %s: %w", t.desc.Name, err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, fmt.Errorf("%w: %s %s", httpx.ErrNotFound, t.desc.Name, id)
		}
		return zero, fmt.Errorf("get %s: %w", t.desc.Name, err)
	}
	return row, nil
}

// sortedKeys keeps generated SQL deterministic for a given column map.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Insert writes a single row and returns it as stored. When the descriptor
// declares a unique rule, the duplicate check and the insert run in one
// RepeatableRead transaction so a concurrent insert cannot slip between
// them.
func (t *Table[T]) Insert(ctx context.Context, values map[string]any) (T, error) {
	if t.desc.Unique == nil {
		return t.insertRow(ctx, t.db, values)
	}

	var row T
	err := db.WithTx(ctx, t.db, func(tx pgx.Tx) error {
		taken, err := t.uniqueTaken(ctx, tx, values)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s already exists", httpx.ErrConflict, t.desc.Name)
		}
		row, err = t.insertRow(ctx, tx, values)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return row, nil
}

// uniqueTaken reports whether a live row already claims the descriptor's
// unique columns. A value absent from the column map skips the check; the
// store rejection surfaces instead.
func (t *Table[T]) uniqueTaken(ctx context.Context, q querier, values map[string]any) (bool, error) {
	spec := Spec{}
	for _, col := range t.desc.Unique.Columns {
		v, ok := values[col]
		if !ok {
			return false, nil
		}
		spec.Predicates = append(spec.Predicates, Eq(col, v))
	}
	total, err := t.countRows(ctx, q, spec)
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (t *Table[T]) insertRow(ctx context.Context, q querier, values map[string]any) (T, error) {
	var zero T
	keys := sortedKeys(values)
	columns := make([]string, len(keys))
	placeholders := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		columns[i] = k
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = values[k]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.desc.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "), t.columnList())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return zero, fmt.Errorf("insert %s: %w", t.desc.Name, err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		return zero, fmt.Errorf("insert %s: %w", t.desc.Name, err)
	}
	return row, nil
}

// Update patches a single live row and returns the updated row. A missing
// or already deleted row surfaces as not found.
func (t *Table[T]) Update(ctx context.Context, id string, changes map[string]any) (T, error) {
	var zero T
	sets := []string{"updated_at = NOW()"}
	var args []any
	for _, k := range sortedKeys(changes) {
		args = append(args, changes[k])
		sets = append(sets, fmt.Sprintf("%s = $%d", k, len(args)))
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", t.desc.Table, strings.Join(sets, ", "), len(args))
	if t.desc.SoftDelete {
		query += " AND deleted_at IS NULL"
	}
	query += " RETURNING " + t.columnList()

	rows, err := t.db.Query(ctx, query, args...)
	if err != nil {
		return zero, fmt.Errorf("update %s: %w", t.desc.Name, err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, fmt.Errorf("%w: %s %s", httpx.ErrNotFound, t.desc.Name, id)
		}
		return zero, fmt.Errorf("update %s: %w", t.desc.Name, err)
	}
	return row, nil
}

// Delete soft-deletes a live row when the descriptor enables soft delete,
// else removes it. Deleting an already deleted row is not found.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	var query string
	if t.desc.SoftDelete {
		query = fmt.Sprintf("UPDATE %s SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL", t.desc.Table)
	} else {
		query = fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.desc.Table)
	}
	tag, err := t.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.desc.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", httpx.ErrNotFound, t.desc.Name, id)
	}
	return nil
}
