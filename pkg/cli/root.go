// Package cli implements the taskhub administration CLI: bootstrap an admin
// account, seed fixture data, and mint development tokens. Commands operate
// directly on the SQLite store, not over HTTP.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	internaldb "taskhub/internal/db"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "taskhub",
		Short:         "TaskHub administration CLI",
		Long:          "Administrative commands for the TaskHub API: bootstrap admins, seed data, issue tokens.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("db", "", "path to the SQLite database (defaults to $DB_PATH, then taskhub.sqlite)")

	rootCmd.AddCommand(
		newCreateAdminCmd(),
		newSeedCmd(),
		newTokenCmd(),
	)

	return rootCmd
}

// openStore opens the write pool against the configured database path and
// brings the schema up to date.
func openStore(cmd *cobra.Command) (*sql.DB, func(), error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = os.Getenv("DB_PATH")
	}
	if path == "" {
		path = "taskhub.sqlite"
	}

	db, err := internaldb.OpenWriter(path)
	if err != nil {
		return nil, nil, err
	}
	if err := internaldb.RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}
