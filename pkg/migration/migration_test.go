package migration_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/projectdesk/projectdesk/pkg/migration"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "m.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

var (
	createNotes = migration.Entry{Name: "20260101000000_create_notes", Migration: migration.SQL{
		Apply:  []string{"CREATE TABLE NOTES (NOTE_ID INTEGER PRIMARY KEY, BODY TEXT)"},
		Revert: []string{"DROP TABLE NOTES"},
	}}
	createTags = migration.Entry{Name: "20260101000001_create_tags", Migration: migration.SQL{
		Apply:  []string{"CREATE TABLE TAGS (TAG_ID INTEGER PRIMARY KEY)", "CREATE INDEX IDX_TAGS ON TAGS (TAG_ID)"},
		Revert: []string{"DROP TABLE TAGS"},
	}}
)

func TestRunRollbackStatus(t *testing.T) {
	db := openDB(t)
	var out bytes.Buffer

	r := migration.With(db, &out, createTags, createNotes)

	n, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, db.Migrator().HasTable("NOTES"))
	assert.True(t, db.Migrator().HasTable("TAGS"))
	assert.Contains(t, out.String(), "Migrated:  20260101000000_create_notes")

	n, err = r.Run()
	require.NoError(t, err)
	assert.Zero(t, n)

	status, err := r.Status()
	require.NoError(t, err)
	require.Len(t, status, 2)
	assert.Equal(t, migration.Status{Name: createNotes.Name, Ran: true, Batch: 1}, status[0])

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, db.Migrator().HasTable("NOTES"))

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBatchesRollBackSeparately(t *testing.T) {
	db := openDB(t)

	_, err := migration.With(db, nil, createNotes).Run()
	require.NoError(t, err)

	r := migration.With(db, nil, createNotes, createTags)
	_, err = r.Run()
	require.NoError(t, err)

	status, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, 2, status[1].Batch)

	n, err := r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, db.Migrator().HasTable("NOTES"))
	assert.False(t, db.Migrator().HasTable("TAGS"))
}

type failing struct{}

func (failing) Up(*gorm.DB) error   { return errors.New("boom") }
func (failing) Down(*gorm.DB) error { return nil }

func TestFailedMigrationIsNotRecorded(t *testing.T) {
	db := openDB(t)
	r := migration.With(db, nil, createNotes, migration.Entry{Name: "20260102000000_broken", Migration: failing{}})

	n, err := r.Run()
	assert.ErrorContains(t, err, "20260102000000_broken up: boom")
	assert.Equal(t, 1, n)

	pending, err := r.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "20260102000000_broken", pending[0].Name)
}

func TestDialectsPicksConnectionDialect(t *testing.T) {
	db := openDB(t)

	m := migration.Dialects{
		"mysql":  {Apply: []string{"CREATE TABLE WIDGETS (WIDGET_ID INT AUTO_INCREMENT PRIMARY KEY)"}},
		"sqlite": {Apply: []string{"CREATE TABLE WIDGETS (WIDGET_ID INTEGER PRIMARY KEY AUTOINCREMENT)"}, Revert: []string{"DROP TABLE WIDGETS"}},
	}
	r := migration.With(db, nil, migration.Entry{Name: "20260101000002_create_widgets", Migration: m})

	_, err := r.Run()
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("WIDGETS"))

	_, err = r.Rollback()
	require.NoError(t, err)
	assert.False(t, db.Migrator().HasTable("WIDGETS"))

	err = migration.Dialects{"mysql": {}}.Up(db)
	assert.ErrorContains(t, err, `no statements for dialect "sqlite"`)
}
