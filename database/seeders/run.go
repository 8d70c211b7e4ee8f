// Package seeders writes the rows a fresh install needs. Each seeder
// registers itself from init and must be safe to run more than once.
package seeders

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/projectdesk/projectdesk/config"
	"github.com/projectdesk/projectdesk/pkg/model"
)

// SeederFunc writes one group of rows.
type SeederFunc func(ctx context.Context, store *model.Store, cfg *config.Config) error

type seeder struct {
	name string
	fn   SeederFunc
}

// registry is only written from init functions.
var registry []seeder

// Register adds a seeder. Seeders run in registration order.
func Register(name string, fn SeederFunc) {
	registry = append(registry, seeder{name: name, fn: fn})
}

// Names lists the registered seeders in run order.
func Names() []string {
	names := make([]string, len(registry))
	for i, s := range registry {
		names[i] = s.name
	}
	return names
}

// Run executes the named seeders, or all of them when names is empty, and
// stops at the first failure. Progress lines go to out.
func Run(ctx context.Context, store *model.Store, cfg *config.Config, out io.Writer, names ...string) error {
	if out == nil {
		out = io.Discard
	}
	for _, n := range names {
		if !slices.Contains(Names(), n) {
			return fmt.Errorf("seeders: unknown seeder %q", n)
		}
	}

	for _, s := range registry {
		if len(names) > 0 && !slices.Contains(names, s.name) {
			continue
		}
		fmt.Fprintf(out, "  seeding %s... ", s.name)
		if err := s.fn(ctx, store, cfg); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", s.name, err)
		}
		fmt.Fprintln(out, "done")
	}
	return nil
}

// RunAll executes every registered seeder.
func RunAll(ctx context.Context, store *model.Store, cfg *config.Config, out io.Writer) error {
	return Run(ctx, store, cfg, out)
}
