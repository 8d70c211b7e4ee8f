// Package migration runs and tracks schema migrations.
//
// Migrations register themselves from init functions in database/migrations:
//
//	func init() {
//	    migration.Register("20240101000000_create_users_table", migration.SQL{
//	        Apply:  []string{"CREATE TABLE USERS (...)"},
//	        Revert: []string{"DROP TABLE USERS"},
//	    })
//	}
//
// and run from the CLI:
//
//	projectdesk migrate             // run all pending
//	projectdesk migrate:rollback    // rollback last batch
//	projectdesk migrate:status
package migration

import (
	"database/sql"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/projectdesk/projectdesk/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// SQL is a Migration made of raw statements, executed in order.
type SQL struct {
	Apply  []string
	Revert []string
}

func (s SQL) Up(db *gorm.DB) error   { return execAll(db, s.Apply) }
func (s SQL) Down(db *gorm.DB) error { return execAll(db, s.Revert) }

// Dialects picks the SQL migration matching the connection's dialect
// ("mysql", "sqlite", ...).
type Dialects map[string]SQL

func (d Dialects) Up(db *gorm.DB) error {
	s, err := d.pick(db)
	if err != nil {
		return err
	}
	return s.Up(db)
}

func (d Dialects) Down(db *gorm.DB) error {
	s, err := d.pick(db)
	if err != nil {
		return err
	}
	return s.Down(db)
}

func (d Dialects) pick(db *gorm.DB) (SQL, error) {
	name := db.Dialector.Name()
	s, ok := d[name]
	if !ok {
		return SQL{}, fmt.Errorf("migration: no statements for dialect %q", name)
	}
	return s, nil
}

func execAll(db *gorm.DB, stmts []string) error {
	for _, q := range stmts {
		if err := db.Exec(q).Error; err != nil {
			return err
		}
	}
	return nil
}

// migrationRecord is the row stored in the tracking table.
type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "projectdesk_migrations" }

// Entry is a named migration.
type Entry struct {
	Name      string
	Migration Migration
}

var (
	registryMu sync.Mutex
	registry   []Entry
)

// Register adds a migration to the global registry. name should be
// timestamp-prefixed; migrations run sorted by name.
func Register(name string, m Migration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, Entry{Name: name, Migration: m})
}

// Registered returns a sorted copy of the global registry.
func Registered() []Entry {
	registryMu.Lock()
	out := append([]Entry(nil), registry...)
	registryMu.Unlock()
	sortEntries(out)
	return out
}

func sortEntries(es []Entry) {
	sort.SliceStable(es, func(i, j int) bool { return es[i].Name < es[j].Name })
}

// Status is one line of migrate:status.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner executes and tracks migrations.
type Runner struct {
	db         *gorm.DB
	migrations []Entry
	out        io.Writer
}

// New creates a Runner over the global registry. Progress lines go to out,
// which may be nil.
func New(db *gorm.DB, out io.Writer) *Runner {
	return With(db, out, Registered()...)
}

// With creates a Runner over an explicit migration list.
func With(db *gorm.DB, out io.Writer, entries ...Entry) *Runner {
	es := append([]Entry(nil), entries...)
	sortEntries(es)
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, migrations: es, out: out}
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

func (r *Runner) ran() (map[string]migrationRecord, error) {
	var rows []migrationRecord
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	m := make(map[string]migrationRecord, len(rows))
	for _, rec := range rows {
		m[rec.Name] = rec
	}
	return m, nil
}

// Pending returns the migrations that have not been run yet.
func (r *Runner) Pending() ([]Entry, error) {
	done, err := r.ran()
	if err != nil {
		return nil, err
	}

	var pending []Entry
	for _, e := range r.migrations {
		if _, ok := done[e.Name]; !ok {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

// Run executes all pending migrations as one batch and returns how many ran.
// Each migration and its tracking row share a transaction.
func (r *Runner) Run() (int, error) {
	if err := r.EnsureTable(); err != nil {
		return 0, fmt.Errorf("migration: ensure table: %w", err)
	}

	pending, err := r.Pending()
	if err != nil {
		return 0, fmt.Errorf("migration: fetch pending: %w", err)
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return 0, nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return 0, err
	}
	batch++

	for i, e := range pending {
		logger.Info("migration: running", "name", e.Name)
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", e.Name)

		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := e.Migration.Up(tx); err != nil {
				return fmt.Errorf("migration: %s up: %w", e.Name, err)
			}
			if err := tx.Create(&migrationRecord{Name: e.Name, Batch: batch}).Error; err != nil {
				return fmt.Errorf("migration: record %s: %w", e.Name, err)
			}
			return nil
		})
		if err != nil {
			return i, err
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", e.Name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return len(pending), nil
}

// Rollback reverses every migration of the latest batch, newest first, and
// returns how many were rolled back.
func (r *Runner) Rollback() (int, error) {
	if err := r.EnsureTable(); err != nil {
		return 0, fmt.Errorf("migration: ensure table: %w", err)
	}

	batch, err := r.lastBatch()
	if err != nil {
		return 0, err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", batch).Order("name desc").Find(&records).Error; err != nil {
		return 0, err
	}

	known := make(map[string]Migration, len(r.migrations))
	for _, e := range r.migrations {
		known[e.Name] = e.Migration
	}

	for i, rec := range records {
		m, ok := known[rec.Name]
		if !ok {
			return i, fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		logger.Info("migration: rolling back", "name", rec.Name)

		rec := rec
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return fmt.Errorf("migration: %s down: %w", rec.Name, err)
			}
			return tx.Delete(&rec).Error
		})
		if err != nil {
			return i, err
		}

		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", rec.Name)
	}
	return len(records), nil
}

// Status reports every known migration and whether it has run.
func (r *Runner) Status() ([]Status, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, err
	}

	done, err := r.ran()
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(r.migrations))
	for _, e := range r.migrations {
		rec, ok := done[e.Name]
		out = append(out, Status{Name: e.Name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}

func (r *Runner) lastBatch() (int, error) {
	var max sql.NullInt64
	if err := r.db.Model(&migrationRecord{}).Select("MAX(batch)").Row().Scan(&max); err != nil {
		return 0, fmt.Errorf("migration: read batch: %w", err)
	}
	return int(max.Int64), nil
}
