package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/imdbq/filter"
	"github.com/s0up4200/imdbq/imdb"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for titles or people",
	Long: `Search IMDb's suggestion endpoints for titles, or with --names for
people. Results can be narrowed with a filter expression evaluated against
each result's fields (title, year, imdb_id, type for titles; name, imdb_id
for people), e.g.:

  imdbq search "the matrix" --filter 'type == "feature"'
  imdbq search --names "nolan" --filter 'startsWith(name, "chris")'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// popularCmd represents the popular command
var popularCmd = &cobra.Command{
	Use:       "popular {titles|shows|movies}",
	Short:     "Show a popularity chart",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"titles", "shows", "movies"},
	RunE:      runPopular,
}

func init() {
	searchCmd.Flags().BoolVarP(&names, "names", "n", false, "search for people instead of titles")
	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	searchCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(popularCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	var records []map[string]any
	if names {
		results, err := client.SearchForName(ctx, query)
		if err != nil {
			return err
		}
		for _, res := range results {
			records = append(records, res.Fields())
		}
	} else {
		results, err := client.SearchForTitle(ctx, query)
		if err != nil {
			return err
		}
		for _, res := range results {
			records = append(records, res.Fields())
		}
	}

	// Apply filter when requested
	expr, err := searchFilterExpression()
	if err != nil {
		return err
	}
	if expr != "" {
		compiled, err := filter.Compile(expr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		records, err = compiled.Apply(records)
		if err != nil {
			return err
		}
	}

	if len(records) == 0 {
		fmt.Println("No results.")
		return nil
	}
	return printJSON(records)
}

// searchFilterExpression determines the filter expression to use, if any.
// Priority: command line filter > preset.
func searchFilterExpression() (string, error) {
	if filterExpr != "" {
		return filterExpr, nil
	}
	if preset != "" {
		if expr, ok := cfg.Filter.Presets[preset]; ok {
			return expr, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}
	return "", nil
}

func runPopular(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var (
		payload imdb.Payload
		err     error
	)
	switch args[0] {
	case "titles":
		payload, err = client.GetPopularTitles(ctx)
	case "shows":
		payload, err = client.GetPopularShows(ctx)
	case "movies":
		payload, err = client.GetPopularMovies(ctx)
	default:
		return fmt.Errorf("unknown chart: %s (expected titles, shows or movies)", args[0])
	}
	if err != nil {
		return err
	}
	return printJSON(payload)
}
