package cmd

import (
	"context"
	"strings"

	grovelogging "github.com/mattsolo1/grove-core/logging"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-tree/pkg/tree"
)

var showUlog = grovelogging.NewUnifiedLogger("grove-tree.cmd.show")

func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Print a tree",
		Long: `Print a YAML tree as an outline. Without a file the demo tree is shown.

Examples:
  grove-tree show              # Print the demo tree
  grove-tree show todo.yaml    # Print todo.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadItems(argOrEmpty(args))
			if err != nil {
				return err
			}
			t := tree.New(items)
			if err := t.Check(); err != nil {
				return err
			}

			lines := tree.Outline(t.Items())
			showUlog.Info("Tree").
				Field("file", argOrEmpty(args)).
				Field("node_count", len(lines)).
				Pretty(strings.Join(lines, "\n")).
				PrettyOnly().
				Log(context.Background())
			return nil
		},
	}

	return cmd
}
