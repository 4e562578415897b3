package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"podcast-studio/internal/stats"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Tag statistics and latest episodes",
	}
	statsCmd.AddCommand(newStatsTagsCommand(ctx))
	statsCmd.AddCommand(newStatsLatestCommand(ctx))
	return statsCmd
}

func newStatsTagsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Count episodes per tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			counts, err := st.TagStatistics(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOut {
				return writeJSON(cmd, counts)
			}
			if len(counts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags")
				return nil
			}
			rows := make([][]string, 0, len(counts))
			for _, c := range counts {
				rows = append(rows, []string{c.Name, strconv.Itoa(c.Count)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Tag", "Episodes"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newStatsLatestCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show newly added and recently updated episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			added, err := st.NewlyAdded(cmd.Context(), limit)
			if err != nil {
				return err
			}
			updated, err := st.RecentlyUpdated(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if ctx.jsonOut {
				return writeJSON(cmd, stats.Latest{NewlyAdded: added, RecentlyUpdated: updated})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Newly added")
			if err := printEpisodes(cmd, false, added); err != nil {
				return err
			}
			fmt.Fprintln(out, "Recently updated")
			return printEpisodes(cmd, false, updated)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Episodes per list (default 5)")
	return cmd
}
