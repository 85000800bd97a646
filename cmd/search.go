package cmd

import (
	"fmt"
	"strings"

	grovelogging "github.com/mattsolo1/grove-core/logging"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-tree/pkg/search"
	"github.com/mattsolo1/grove-tree/pkg/tree"
)

var searchUlog = grovelogging.NewUnifiedLogger("grove-tree.cmd.search")

func NewSearchCmd() *cobra.Command {
	var (
		treeFile    string
		searchLimit int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search node titles",
		Long: `Search for nodes whose title contains the query, ignoring case.
Spaces in the query match any run of characters.

Examples:
  grove-tree search garden             # Search the demo tree
  grove-tree search "fix fence" -f todo.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadItems(treeFile)
			if err != nil {
				return err
			}
			idx, err := search.NewIndex(tree.New(items))
			if err != nil {
				return fmt.Errorf("failed to build search index: %w", err)
			}
			defer idx.Close()

			query := strings.Join(args, " ")
			results, err := idx.Search(query, &search.Options{Limit: searchLimit})
			if err != nil {
				return err
			}

			if len(results) == 0 {
				searchUlog.Info("No results found").
					Field("query", query).
					Pretty("No results found").
					PrettyOnly().
					Emit()
				return nil
			}

			searchUlog.Info("Search results").
				Field("query", query).
				Field("result_count", len(results)).
				Pretty(fmt.Sprintf("Found %d results:\n", len(results))).
				PrettyOnly().
				Emit()

			for i, hit := range results {
				var prettyStr strings.Builder
				prettyStr.WriteString(fmt.Sprintf("%d. %s\n", i+1, hit.Title))
				if len(hit.Path) > 0 {
					prettyStr.WriteString(fmt.Sprintf("   in %s\n", strings.Join(hit.Path, " / ")))
				}

				searchUlog.Info("Search result").
					Field("query", query).
					Field("result_index", i+1).
					Field("id", hit.ID).
					Field("title", hit.Title).
					Field("depth", hit.Depth).
					Pretty(prettyStr.String()).
					PrettyOnly().
					Emit()
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&treeFile, "file", "f", "", "Tree file (default is the demo tree)")
	cmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum results")

	return cmd
}
