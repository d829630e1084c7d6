package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"arbor/internal/content"
	"arbor/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var localOnly bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show local and remote health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Local checks", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusError
				if result.Passed {
					kind = statusOK
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			if !localOnly {
				for _, line := range renderSectionHeader("Remote storage", colorize) {
					fmt.Fprintln(out, line)
				}
				result := preflight.CheckRemote(cmd.Context(), cfg)
				kind := statusError
				if result.Passed {
					kind = statusOK
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			for _, line := range renderSectionHeader("Content", colorize) {
				fmt.Fprintln(out, line)
			}
			store, err := content.Open(cfg)
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Database", statusError, err.Error(), colorize))
				return nil
			}
			defer store.Close()

			fmt.Fprintln(out, renderStatusLine("Database", statusOK, store.Path(), colorize))

			photos, err := store.ListPhotos(cmd.Context(), 0)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderStatusLine("Pictures", statusInfo, strconv.Itoa(len(photos)), colorize))

			fresh, err := store.FreshCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderStatusLine("Awaiting curation", statusInfo, strconv.Itoa(fresh), colorize))

			oldest, err := store.OldestFresh(cmd.Context())
			if err != nil {
				return err
			}
			if oldest != nil {
				detail := fmt.Sprintf("%s (node %d)", oldest.Filename, oldest.NodeID)
				fmt.Fprintln(out, renderStatusLine("Oldest fresh", statusInfo, detail, colorize))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&localOnly, "local", false, "Skip the remote storage check")
	return cmd
}
