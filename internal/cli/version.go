package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the slackabout version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("slackabout", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
