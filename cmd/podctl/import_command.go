package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"podcast-studio/internal/db"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load a channel and episodes from a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := db.LoadSeedFile(args[0])
			if err != nil {
				return err
			}
			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			result, err := db.ImportSeed(cmd.Context(), st, seed)
			if err != nil {
				return err
			}
			if ctx.jsonOut {
				return writeJSON(cmd, result)
			}
			if result.Channel != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved channel %q for %s\n", result.Channel.ChannelName, result.Channel.UserName)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d episodes\n", len(result.Episodes))
			return nil
		},
	}
}
