// Package migrations holds the schema of the USERS, CLIENTS, PROJECTS,
// TASKS, FAQS and FILES tables. Each file registers its migrations from
// init(); cmd/projectdesk blank-imports this package.
package migrations

import "github.com/projectdesk/projectdesk/pkg/migration"

// create registers a CREATE TABLE migration for both supported dialects.
// The column lists differ only where the dialects do.
func create(name, table, mysqlDDL, sqliteDDL string) {
	migration.Register(name, migration.Dialects{
		"mysql": {
			Apply:  []string{"CREATE TABLE " + table + " (" + mysqlDDL + ") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"},
			Revert: []string{"DROP TABLE " + table},
		},
		"sqlite": {
			Apply:  []string{"CREATE TABLE " + table + " (" + sqliteDDL + ")"},
			Revert: []string{"DROP TABLE " + table},
		},
	})
}
