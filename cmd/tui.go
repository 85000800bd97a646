package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-tree/cmd/config"
	"github.com/mattsolo1/grove-tree/internal/tui/browser"
	"github.com/mattsolo1/grove-tree/pkg/tree"
)

// NewTuiCmd creates the `grove-tree tui` command.
func NewTuiCmd() *cobra.Command {
	var (
		rootNoDrop bool
		noPrint    bool
	)

	cmd := &cobra.Command{
		Use:   "tui [file]",
		Short: "Browse and rearrange a tree interactively",
		Long: `Launch an interactive Terminal User Interface for a YAML tree.
Drag a node by its title to reorder it; drag right to nest it under the node
above and left to move it out of its parent. Without a file a demo tree is
shown. When quitting with changes to a file you are asked whether to write
them back. The final tree is printed as YAML on exit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check for TTY
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("TUI mode requires an interactive terminal")
			}

			config.InitConfig()
			settings, err := config.Load(viper.GetViper(), config.TerminalDefaults())
			if err != nil {
				return err
			}
			// The terminal belongs to bubbletea, so logs go to log_file or nowhere.
			logger, closeLog, err := settings.NewLogger(true)
			if err != nil {
				return err
			}
			defer closeLog()

			path := argOrEmpty(args)
			items, err := loadItems(path)
			if err != nil {
				return err
			}
			t := tree.New(items, tree.WithRootNoDrop(rootNoDrop), tree.WithLogger(logger))

			opts := browser.Options{
				Tree:      t,
				Drag:      settings.Drag,
				RowHeight: settings.RowHeight,
				Indent:    settings.Indent,
				Logger:    logger,
			}
			if path != "" {
				opts.Path = path
				opts.Save = saveItems
			}
			model, err := browser.New(opts)
			if err != nil {
				return err
			}
			defer model.Close()

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}

			if noPrint {
				return nil
			}
			return printItems(cmd.OutOrStdout(), t.Items())
		},
	}

	cmd.Flags().BoolVar(&rootNoDrop, "root-nodrop", false, "Refuse drops into the top level")
	cmd.Flags().BoolVar(&noPrint, "quiet", false, "Do not print the tree on exit")
	config.AddGlobalFlags(cmd)

	return cmd
}
