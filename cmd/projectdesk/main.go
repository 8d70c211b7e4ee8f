// Command projectdesk runs the API server and its maintenance tasks.
//
//	projectdesk serve            # start HTTP + gRPC servers
//	projectdesk migrate          # run pending migrations
//	projectdesk migrate:rollback
//	projectdesk migrate:status
//	projectdesk seed             # default admin and starter FAQs
//	projectdesk route:list       # list API routes
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/projectdesk/projectdesk/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "projectdesk",
	Short:         "projectdesk project management API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
