package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"arbor/internal/content"
	"arbor/internal/ingest"
	"arbor/internal/logging"
	"arbor/internal/services/pcloud"
)

func newReprocessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reprocess <node-id>",
		Short: "Regenerate the derivatives for an archived picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodeID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid node id %q: %w", args[0], err)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
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

			ing := ingest.New(client, store, cfg, logger)
			if err := ing.Reprocess(cmd.Context(), nodeID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Regenerated derivatives for node %d\n", nodeID)
			return nil
		},
	}
}
