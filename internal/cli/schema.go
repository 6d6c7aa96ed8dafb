package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the graph schema",
}

var schemaInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Define the graph tables and indexes",
	Long: `Apply the schema definition to the configured database.

The statements are idempotent, so running init against an existing
database is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dbClient.InitSchema(context.Background()); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
		fmt.Println("Schema initialized.")
		return nil
	},
}

var schemaWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all vertices and edges",
	Long: `Delete every record from the graph tables. The schema definition
itself is kept. Intended for development databases.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("refusing to wipe without --force")
		}
		if err := dbClient.WipeData(context.Background()); err != nil {
			return fmt.Errorf("wipe data: %w", err)
		}
		fmt.Println("All graph data deleted.")
		return nil
	},
}

func init() {
	schemaWipeCmd.Flags().Bool("force", false, "confirm the wipe")

	schemaCmd.AddCommand(schemaInitCmd)
	schemaCmd.AddCommand(schemaWipeCmd)
}
