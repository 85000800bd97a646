package cmd

import (
	"context"
	"fmt"
	"os"

	grovelogging "github.com/mattsolo1/grove-core/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-tree/cmd/config"
	"github.com/mattsolo1/grove-tree/internal/replay"
	"github.com/mattsolo1/grove-tree/pkg/drag"
	"github.com/mattsolo1/grove-tree/pkg/tree"
)

var replayUlog = grovelogging.NewUnifiedLogger("grove-tree.cmd.replay")

func NewReplayCmd() *cobra.Command {
	var (
		treeFile   string
		rootNoDrop bool
		write      bool
	)

	cmd := &cobra.Command{
		Use:   "replay <script>",
		Short: "Run a scripted drag gesture against a tree",
		Long: `Replay pointer steps (press, move, release, leave, cancel) through the
drag controller and print the resulting tree as YAML.

Script format:
  width: 40
  steps:
    - {action: press, node: inbox}   # press the title of node "inbox"
    - {action: move, dy: 1}
    - {action: move, dy: 2}
    - {action: release}

Thresholds come from the tree section of the config file. With --write the
result is saved back to --file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.InitConfig()
			settings, err := config.Load(viper.GetViper(), config.TerminalDefaults())
			if err != nil {
				return err
			}
			logger, closeLog, err := settings.NewLogger(false)
			if err != nil {
				return err
			}
			defer closeLog()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open script: %w", err)
			}
			script, err := replay.Decode(f)
			f.Close()
			if err != nil {
				return err
			}
			if script.RowHeight == 0 {
				script.RowHeight = settings.RowHeight
			}
			if script.Indent == 0 {
				script.Indent = settings.Indent
			}

			items, err := loadItems(treeFile)
			if err != nil {
				return err
			}
			t := tree.New(items, tree.WithRootNoDrop(rootNoDrop), tree.WithLogger(logger))

			res, err := replay.Run(t, settings.Drag, script, logger)
			if err != nil {
				return err
			}
			if err := t.Check(); err != nil {
				return fmt.Errorf("tree out of sync after replay: %w", err)
			}

			ctx := context.Background()
			for _, d := range res.Drops {
				replayUlog.Info("Drop").
					Field("node", d.Source.Value.Label()).
					Field("moved", d.Moved()).
					Field("cancelled", d.Cancelled).
					Pretty(describeDrop(d)).
					PrettyOnly().
					Log(ctx)
			}

			if write && treeFile != "" {
				if err := saveItems(treeFile, t.Items()); err != nil {
					return err
				}
				replayUlog.Success("Tree saved").
					Field("file", treeFile).
					Pretty(fmt.Sprintf("* Saved %s", treeFile)).
					PrettyOnly().
					Log(ctx)
				return nil
			}
			return printItems(cmd.OutOrStdout(), t.Items())
		},
	}

	cmd.Flags().StringVarP(&treeFile, "file", "f", "", "Tree file (default is the demo tree)")
	cmd.Flags().BoolVar(&rootNoDrop, "root-nodrop", false, "Refuse drops into the top level")
	cmd.Flags().BoolVar(&write, "write", false, "Write the result back to --file")
	config.AddGlobalFlags(cmd)

	return cmd
}

func describeDrop(d drag.Drop) string {
	label := d.Source.Value.Label()
	switch {
	case d.Err != nil:
		return fmt.Sprintf("%s: drop failed: %v", label, d.Err)
	case d.Cancelled:
		return fmt.Sprintf("%s: cancelled", label)
	case !d.Moved():
		return fmt.Sprintf("%s: unchanged", label)
	}
	return fmt.Sprintf("%s: moved to %s at %d", label, collectionName(d.To), d.ToIndex)
}

func collectionName(c *tree.Nodes) string {
	if owner := c.Owner(); owner != nil {
		return fmt.Sprintf("children of %s", owner.Value.Label())
	}
	return "top level"
}
