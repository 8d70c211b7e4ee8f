package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/projectdesk/projectdesk/app/routes"
	"github.com/projectdesk/projectdesk/config"
	"github.com/projectdesk/projectdesk/internal/kernel"
	"github.com/projectdesk/projectdesk/internal/server"
	"github.com/projectdesk/projectdesk/pkg/event"
	"github.com/projectdesk/projectdesk/pkg/ws"
)

// projectdesk serve: start the HTTP and gRPC servers.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// projectdesk route:list: print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		r, err := kernel.New(config.Current(), routes.Deps{
			Hub:    ws.NewHub(),
			Events: event.NewDispatcher(),
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range r.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
