package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"podcast-studio/internal/db"
)

type commandContext struct {
	driver  string
	dsn     string
	jsonOut bool
	store   *db.Store
}

// openStore connects on first use and applies pending migrations.
func (c *commandContext) openStore(cmd *cobra.Command) (*db.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	st, err := db.Open(cmd.Context(), c.driver, c.dsn)
	if err != nil {
		return nil, err
	}
	if _, _, err := st.Migrate(); err != nil {
		_ = st.Close()
		return nil, err
	}
	c.store = st
	return st, nil
}

func (c *commandContext) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

func newRootCommand() *cobra.Command {
	_ = godotenv.Load()
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "podctl",
		Short:         "Manage podcast channel and episode data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.driver, "db-driver", envOr("DB_DRIVER", db.DriverSQLite), "Database driver (sqlite or postgres)")
	rootCmd.PersistentFlags().StringVar(&ctx.dsn, "database-url", envOr("DATABASE_URL", "data/podcast.db"), "SQLite file path or PostgreSQL connection string")
	rootCmd.PersistentFlags().BoolVar(&ctx.jsonOut, "json", false, "Print JSON instead of tables")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newChannelCommand(ctx))
	rootCmd.AddCommand(newEpisodesCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
