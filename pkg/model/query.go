package model

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/projectdesk/projectdesk/pkg/logger"
	"github.com/projectdesk/projectdesk/pkg/metrics"
)

// Result is the outcome of a write statement.
type Result struct {
	RowsAffected int64 `json:"rowsAffected"`
	LastInsertID int64 `json:"lastInsertId"`
}

// Store runs statements against the database. Every call checks out one
// dedicated connection from the pool and returns it before the call ends.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open gorm handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for migrations and health checks.
func (s *Store) DB() *gorm.DB { return s.db }

// GetOne returns the first row of query in application form, or nil when
// there is none. A nil schema only renames keys.
func (s *Store) GetOne(ctx context.Context, schema Schema, query string, args ...any) (Record, error) {
	_, rows, err := s.query(ctx, "get", query, args, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return s.applicationRecord(rows[0], schema), nil
}

// FindMany returns every row of query in application form. It never
// returns a nil slice on success.
func (s *Store) FindMany(ctx context.Context, schema Schema, query string, args ...any) ([]Record, error) {
	_, rows, err := s.query(ctx, "find", query, args, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = s.applicationRecord(r, schema)
	}
	return out, nil
}

// ScalarValue returns the first column of the first row, or nil.
func (s *Store) ScalarValue(ctx context.Context, query string, args ...any) (any, error) {
	cols, rows, err := s.query(ctx, "value", query, args, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(cols) == 0 {
		return nil, nil
	}
	return rows[0][cols[0]], nil
}

// Exists reports whether query yields at least one row.
func (s *Store) Exists(ctx context.Context, query string, args ...any) (bool, error) {
	_, rows, err := s.query(ctx, "exists", query, args, 1)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// RunStatement executes query inside a transaction. A failed statement is
// logged and rolled back.
func (s *Store) RunStatement(ctx context.Context, query string, args ...any) (Result, error) {
	var res Result
	err := s.transaction(ctx, "run", "", func(tx *gorm.DB) error {
		var err error
		res, err = exec(ctx, tx, query, args)
		return err
	})
	return res, err
}

// Insert writes rec into table and returns the generated identifier. With a
// schema the record is projected and coerced first; without one only keys are
// renamed.
func (s *Store) Insert(ctx context.Context, table string, rec Record, schema Schema) (int64, error) {
	row := storageRecord(rec, schema)
	if len(row) == 0 {
		return 0, ErrEmptyRecord
	}

	var id int64
	err := s.transaction(ctx, "insert", table, func(tx *gorm.DB) error {
		cols := sortedKeys(row)
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			tx.Statement.Quote(table), quoteAll(tx, cols), placeholders(len(cols)))

		res, err := exec(ctx, tx, q, valuesOf(row, cols))
		if err != nil {
			return err
		}
		id = res.LastInsertID
		return nil
	})
	return id, err
}

// Update sets the fields of rec on every row matching where. Matching no
// row is not an error; callers inspect RowsAffected.
func (s *Store) Update(ctx context.Context, table string, rec, where Record, schema Schema) (Result, error) {
	set := storageRecord(rec, schema)
	cond := storageRecord(where, schema)
	if len(set) == 0 || len(cond) == 0 {
		return Result{}, ErrEmptyRecord
	}

	var res Result
	err := s.transaction(ctx, "update", table, func(tx *gorm.DB) error {
		setCols := sortedKeys(set)
		whereCols := sortedKeys(cond)
		q := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
			tx.Statement.Quote(table), assignments(tx, setCols, ", "), assignments(tx, whereCols, " AND "))

		args := append(valuesOf(set, setCols), valuesOf(cond, whereCols)...)
		var err error
		res, err = exec(ctx, tx, q, args)
		return err
	})
	return res, err
}

// Remove deletes every row matching where and returns where unchanged.
func (s *Store) Remove(ctx context.Context, table string, where Record, schema Schema) (Record, error) {
	cond := storageRecord(where, schema)
	if len(cond) == 0 {
		return nil, ErrEmptyRecord
	}

	err := s.transaction(ctx, "remove", table, func(tx *gorm.DB) error {
		cols := sortedKeys(cond)
		q := fmt.Sprintf("DELETE FROM %s WHERE %s", tx.Statement.Quote(table), assignments(tx, cols, " AND "))
		_, err := exec(ctx, tx, q, valuesOf(cond, cols))
		return err
	})
	if err != nil {
		return nil, err
	}
	return where, nil
}

// Ping checks that a connection can be established.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) applicationRecord(row Record, schema Schema) Record {
	rec := ToApplicationKeys(row)
	if schema != nil {
		rec = ToApplication(rec, schema)
	}
	return rec
}

func storageRecord(rec Record, schema Schema) Record {
	if schema != nil {
		rec = ToStorage(rec, schema)
	}
	return ToStorageKeys(rec)
}

// query reads at most limit rows (all rows when limit is 0).
func (s *Store) query(ctx context.Context, op, q string, args []any, limit int) ([]string, []Record, error) {
	var (
		cols []string
		rows []Record
	)
	err := s.conn(ctx, op, "", func(conn *gorm.DB) error {
		r, err := conn.Raw(q, args...).Rows()
		if err != nil {
			return err
		}
		defer r.Close()

		cols, rows, err = scanRows(r, limit)
		return err
	})
	return cols, rows, err
}

func (s *Store) conn(ctx context.Context, op, table string, fn func(conn *gorm.DB) error) error {
	start := time.Now()
	defer metrics.ObserveDBQuery(op, start)

	if err := s.db.WithContext(ctx).Connection(fn); err != nil {
		return &OperationError{Op: op, Table: table, Err: err}
	}
	return nil
}

func (s *Store) transaction(ctx context.Context, op, table string, fn func(tx *gorm.DB) error) error {
	err := s.conn(ctx, op, table, func(conn *gorm.DB) error {
		return conn.Transaction(fn)
	})
	if err != nil {
		logger.WithCtx(ctx).Error("statement rolled back", "op", op, "table", table, "error", err)
	}
	return err
}

func exec(ctx context.Context, tx *gorm.DB, q string, args []any) (Result, error) {
	res, err := tx.Statement.ConnPool.ExecContext(ctx, q, args...)
	if err != nil {
		return Result{}, err
	}
	return resultOf(res), nil
}

func resultOf(res sql.Result) Result {
	var out Result
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	return out
}

func scanRows(r *sql.Rows, limit int) ([]string, []Record, error) {
	cols, err := r.Columns()
	if err != nil {
		return nil, nil, err
	}

	rows := make([]Record, 0)
	for r.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := r.Scan(ptrs...); err != nil {
			return nil, nil, err
		}

		row := make(Record, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		rows = append(rows, row)

		if limit > 0 && len(rows) == limit {
			break
		}
	}
	if err := r.Err(); err != nil {
		return nil, nil, err
	}
	return cols, rows, nil
}

func sortedKeys(rec Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func valuesOf(rec Record, cols []string) []any {
	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = rec[c]
	}
	return vals
}

func quoteAll(tx *gorm.DB, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = tx.Statement.Quote(c)
	}
	return strings.Join(quoted, ", ")
}

func assignments(tx *gorm.DB, cols []string, sep string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = tx.Statement.Quote(c) + " = ?"
	}
	return strings.Join(parts, sep)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
