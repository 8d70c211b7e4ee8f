package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/projectdesk/projectdesk/config"
	"github.com/projectdesk/projectdesk/database/seeders"
	"github.com/projectdesk/projectdesk/pkg/database"
	"github.com/projectdesk/projectdesk/pkg/migration"
	"github.com/projectdesk/projectdesk/pkg/model"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// projectdesk migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		fmt.Println("Running migrations…")
		n, err := migration.New(database.DB, os.Stdout).Run()
		if err != nil {
			return err
		}
		fmt.Printf("✅ %d migration(s) ran\n", n)
		return nil
	},
}

// projectdesk migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		fmt.Println("Rolling back last batch…")
		n, err := migration.New(database.DB, os.Stdout).Rollback()
		if err != nil {
			return err
		}
		fmt.Printf("✅ %d migration(s) rolled back\n", n)
		return nil
	},
}

// projectdesk migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		statuses, err := migration.New(database.DB, nil).Status()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
		for _, s := range statuses {
			ran, batch := "No", "-"
			if s.Ran {
				ran, batch = "Yes", fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, ran, batch)
		}
		return w.Flush()
	},
}

// projectdesk seed
var seedCmd = &cobra.Command{
	Use:       "seed [name...]",
	Short:     "Seed the default admin and starter FAQs",
	ValidArgs: seeders.Names(),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		fmt.Println("Running seeders…")
		return seeders.Run(cmd.Context(), model.NewStore(database.DB), config.Current(), os.Stdout, args...)
	},
}
