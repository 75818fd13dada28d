package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/imdbq/auth"
	"github.com/s0up4200/imdbq/config"
	"github.com/s0up4200/imdbq/imdb"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *imdb.Client

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	aspect     string
	filterExpr string
	preset     string
	names      bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "imdbq",
	Short: "Query IMDb's undocumented JSON API from the command line",
	Long: `imdbq is a CLI for IMDb's undocumented JSON API. It can look up
titles and people by identifier, fetch individual aspects (plot, credits,
ratings, ...), search the suggestion endpoints, and list popularity charts.`,
	PersistentPreRunE: initializeApp,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if client != nil {
			client.Close()
		}
	},
}

// SetVersion records the build version for the root command and updater.
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, bt)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(titleCmd)
	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(existsCmd)
}

// initializeApp initializes the configuration and the IMDb client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Build the auth provider chain
	var provider auth.Provider = auth.Static(cfg.Auth.Headers)
	if cfg.Auth.CacheTTL > 0 {
		provider = auth.NewCaching(provider, cfg.Auth.CacheTTL)
	}

	opts := []imdb.Option{
		imdb.WithLogger(logger),
		imdb.WithLocale(cfg.IMDb.Locale),
		imdb.WithAuthProvider(provider),
	}
	if cfg.IMDb.ExcludeEpisodes {
		opts = append(opts, imdb.WithExcludeEpisodes())
	}

	client, err = imdb.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create IMDb client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only when stderr is a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// printJSON writes a payload to stdout, indented
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// titleCmd represents the title command
var titleCmd = &cobra.Command{
	Use:   "title <imdb_id>...",
	Short: "Look up one or more titles by identifier",
	Long: `Look up titles by their IMDb identifier (e.g. tt0111161).

With --aspect, fetches a single aspect of the title instead of the main
record. Available aspects include plot, credits, ratings, genres, quotes,
episodes, top_crew and more; see 'imdbq title --list-aspects'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTitle,
}

var listAspects bool

func init() {
	titleCmd.Flags().StringVarP(&aspect, "aspect", "a", "", "fetch a single aspect of the title")
	titleCmd.Flags().BoolVar(&listAspects, "list-aspects", false, "list available aspect names and exit")
}

func runTitle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if listAspects {
		for _, op := range client.Operations() {
			if rest, ok := strings.CutPrefix(op, "title_"); ok {
				fmt.Println(rest)
			}
		}
		fmt.Println("episodes")
		fmt.Println("top_crew")
		return nil
	}

	// Several ids without an aspect fetch concurrently.
	if len(args) > 1 && aspect == "" {
		results := client.BatchGetTitles(ctx, args...)
		out := make(map[string]any, len(results))
		for _, res := range results {
			if res.Err != nil {
				out[res.IMDbID] = map[string]any{"error": res.Err.Error()}
				continue
			}
			out[res.IMDbID] = res.Title
		}
		return printJSON(out)
	}

	for _, imdbID := range args {
		var (
			payload imdb.Payload
			err     error
		)
		switch aspect {
		case "":
			payload, err = client.GetTitle(ctx, imdbID)
		case "episodes":
			payload, err = client.GetTitleEpisodes(ctx, imdbID)
		case "top_crew":
			payload, err = client.GetTitleTopCrew(ctx, imdbID)
		default:
			payload, err = client.Resource(ctx, "title_"+aspect, imdbID)
		}
		if err != nil {
			return err
		}
		if err := printJSON(payload); err != nil {
			return err
		}
	}
	return nil
}

// nameCmd represents the name command
var nameCmd = &cobra.Command{
	Use:   "name <imdb_id>",
	Short: "Look up a person by identifier",
	Long: `Look up a person by their IMDb identifier (e.g. nm0000151).

With --aspect, fetches a single aspect instead of the full details:
filmography, images or videos.`,
	Args: cobra.ExactArgs(1),
	RunE: runName,
}

func init() {
	nameCmd.Flags().StringVarP(&aspect, "aspect", "a", "", "fetch a single aspect of the person")
}

func runName(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var (
		payload imdb.Payload
		err     error
	)
	if aspect == "" {
		payload, err = client.GetName(ctx, args[0])
	} else {
		payload, err = client.Resource(ctx, "name_"+aspect, args[0])
	}
	if err != nil {
		return err
	}
	return printJSON(payload)
}

// existsCmd represents the exists command
var existsCmd = &cobra.Command{
	Use:   "exists <imdb_id>",
	Short: "Check whether a title exists",
	Long: `Check whether a title exists without fetching its data. Redirection
identifiers (titles the service has permanently moved) count as
non-existent.`,
	Args: cobra.ExactArgs(1),
	RunE: runExists,
}

func runExists(cmd *cobra.Command, args []string) error {
	exists, err := client.TitleExists(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Println(exists)
	return nil
}
