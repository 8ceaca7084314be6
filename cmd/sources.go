package cmd

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"patrician/core/config"
	"patrician/core/reconcile"
	"patrician/feature/lastfm"
	"patrician/feature/rym"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errUsernameRequired = errors.New("sources.lastfm.username is required")

// sourcesCmd lists the registered sources.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List available sources and whether they are enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		printSources(cmd.OutOrStdout(), buildRegistry(cfg, zap.NewNop()), cfg.Sources.Enabled)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(sourcesCmd)
}

// buildRegistry registers every known source adapter. Adapters are only
// constructed when resolved, so a disabled source needs no credentials.
func buildRegistry(cfg *config.Config, l *zap.Logger) *reconcile.Registry {
	registry := reconcile.NewRegistry()

	registry.Register(rym.Name, func() (reconcile.Adapter, error) {
		return rym.NewAdapter(cfg.Sources.RYM, l), nil
	})

	registry.Register(lastfm.Name, func() (reconcile.Adapter, error) {
		if cfg.Sources.LastFM.Username == "" {
			return nil, errUsernameRequired
		}
		client, err := lastfm.NewClient(cfg.Sources.LastFM, l)
		if err != nil {
			return nil, err
		}
		return lastfm.NewAdapter(cfg.Sources.LastFM, client, l), nil
	})

	return registry
}

// sourceNames returns the sources named on the command line, or the
// configured ones when none is named. Names are trimmed; blanks and repeats
// are dropped so a source never runs twice.
func sourceNames(args, enabled []string) []reconcile.Source {
	picked := args
	if len(picked) == 0 {
		picked = enabled
	}
	names := make([]reconcile.Source, 0, len(picked))
	for _, raw := range picked {
		name := reconcile.Source(strings.ToLower(strings.TrimSpace(raw)))
		if name == "" || slices.Contains(names, name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

func printSources(w io.Writer, registry *reconcile.Registry, enabled []string) {
	for _, name := range registry.Names() {
		state := "disabled"
		if slices.Contains(sourceNames(nil, enabled), name) {
			state = "enabled"
		}
		fmt.Fprintf(w, "%-8s %s\n", name, state)
	}
}
