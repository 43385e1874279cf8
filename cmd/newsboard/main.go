// Command newsboard is a terminal Kanban client for a personal reading
// list. Items move across To Read / Reading / Completed columns; changes
// apply optimistically and synchronize with the backend in the background.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "newsboard",
	Short: "Terminal Kanban board for your reading list",
	Long: "newsboard shows your reading list as a three-column board and keeps it\n" +
		"in sync with the reading-list service. Moves, favorites and notes apply\n" +
		"instantly and roll back if the server rejects them.",
	RunE: runBoard,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newsboard %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(refreshCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
