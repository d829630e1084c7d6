package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"arbor/internal/content"
)

func newPhotosCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var freshOnly bool

	cmd := &cobra.Command{
		Use:   "photos",
		Short: "List recorded pictures, newest first",
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

			photos, err := store.ListPhotos(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(photos))
			for _, photo := range photos {
				if freshOnly && !photo.Fresh {
					continue
				}
				rows = append(rows, []string{
					strconv.FormatInt(photo.NodeID, 10),
					photo.Filename,
					photo.Title,
					photo.Created.In(cfg.Location()).Format("2006-01-02 15:04"),
					yesNo(photo.Fresh),
				})
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No pictures recorded")
				return nil
			}

			headers := []string{"Node", "Filename", "Title", "Captured", "Fresh"}
			fmt.Fprintln(out, renderListTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "Maximum number of pictures to list (0 for all)")
	cmd.Flags().BoolVar(&freshOnly, "fresh", false, "Only list pictures that still await curation")
	return cmd
}
