package main

import (
	"os"

	"github.com/mattsolo1/grove-core/cli"

	"github.com/mattsolo1/grove-tree/cmd"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"grove-tree",
		"A draggable, nestable tree in the terminal",
	)

	rootCmd.AddCommand(cmd.NewTuiCmd())
	rootCmd.AddCommand(cmd.NewShowCmd())
	rootCmd.AddCommand(cmd.NewReplayCmd())
	rootCmd.AddCommand(cmd.NewSearchCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
