package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"arbor/internal/content"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search node titles and bodies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := content.Open(cfg)
			if err != nil {
				return fmt.Errorf("open content database: %w", err)
			}
			defer store.Close()

			query := strings.Join(args, " ")
			hits, err := store.Search(cmd.Context(), query)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(hits) == 0 {
				fmt.Fprintf(out, "No matches for %q\n", query)
				return nil
			}

			rows := make([][]string, 0, len(hits))
			for _, hit := range hits {
				rows = append(rows, []string{
					strconv.FormatInt(hit.Node.ID, 10),
					string(hit.Node.Type),
					hit.Title,
					hit.Node.Created.In(cfg.Location()).Format("2006-01-02"),
				})
			}
			headers := []string{"Node", "Type", "Title", "Created"}
			fmt.Fprintln(out, renderListTable(headers, rows))
			return nil
		},
	}
}
