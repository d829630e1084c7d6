package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"arbor/internal/config"
	"arbor/internal/content"
	"arbor/internal/ingest"
	"arbor/internal/logging"
	"arbor/internal/notifications"
	"arbor/internal/preflight"
	"arbor/internal/services/pcloud"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Import new pictures from the remote source folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lock := flock.New(cfg.LockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire import lock: %w", err)
			}
			if !locked {
				return errors.New("another import run is already in progress")
			}
			defer func() { _ = lock.Unlock() }()

			if !skipPreflight {
				if err := runLocalPreflight(cmd.Context(), cfg); err != nil {
					return err
				}
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("set up logging: %w", err)
			}

			store, err := content.Open(cfg)
			if err != nil {
				return fmt.Errorf("open content database: %w", err)
			}
			defer store.Close()

			client, err := pcloud.Connect(cmd.Context(), pcloud.OptionsFromConfig(cfg), logger)
			if err != nil {
				return err
			}
			defer func() { _ = client.Logout(context.WithoutCancel(cmd.Context())) }()

			notifier := notifications.NewService(cfg)
			ing := ingest.New(client, store, cfg, logger)
			ing.SetNotifier(notifier)

			processed, err := ing.Run(cmd.Context())
			if err != nil {
				_ = notifier.NotifyError(context.WithoutCancel(cmd.Context()), err, "ingest")
				return err
			}

			out := cmd.OutOrStdout()
			if processed == 0 {
				fmt.Fprintln(out, "No new pictures found")
			} else {
				fmt.Fprintf(out, "Imported %d picture(s)\n", processed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip local readiness checks before the run")
	return cmd
}

// runLocalPreflight refuses the run when any local readiness check fails,
// before a single remote request is made.
func runLocalPreflight(ctx context.Context, cfg *config.Config) error {
	results := preflight.RunAll(ctx, cfg)
	if preflight.Passed(results) {
		return nil
	}
	var failures []string
	for _, result := range results {
		if !result.Passed {
			failures = append(failures, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(failures, "; "))
}
