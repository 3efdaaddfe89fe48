package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/s0up4200/marquee/config"
	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/genre"
	"github.com/s0up4200/marquee/tmdb"
	"github.com/s0up4200/marquee/viewstate"
)

var (
	cfgFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	logFile    io.Closer
	catalog    *tmdb.Client
	genreCache *genre.Cache
	genreStore *genre.SQLiteStore
	ui         *viewstate.Dispatcher
	filters    *filter.Manager
	formatter  *ConsoleFormatter

	// Command flags
	filterExpr string
	waitFor    time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "Browse the TMDB movie catalog from the terminal",
	Long: `marquee drives the home, detail, category and search screens of a movie
catalog client against TMDB and prints what each screen would show.

Listings can be narrowed with --filter, either the name of a filter from the
config file or an inline expression such as 'Rating >= 7 and hasGenre("Drama")'.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
	SilenceUsage:       true,
}

// SetVersion sets the version reported by --version
func SetVersion(version, buildTime string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&filterExpr, "filter", "f", "", "named filter or filter expression applied to movie listings")
	rootCmd.PersistentFlags().DurationVar(&waitFor, "wait", time.Minute, "how long to wait for a screen to finish loading")

	rootCmd.AddCommand(homeCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(movieCmd)
	rootCmd.AddCommand(reviewsCmd)
	rootCmd.AddCommand(genresCmd)
	rootCmd.AddCommand(testCmd)
}

// initializeApp loads configuration and wires the catalog client, genre cache
// and UI dispatcher
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logFile = setupLogger(cfg.Logging)

	catalog, err = tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.APIKey, logger,
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithUserAgent(cfg.TMDB.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}

	var store genre.Store
	if cfg.GenreCache.Driver == config.DriverSQLite {
		genreStore, err = genre.OpenSQLiteStore(cfg.GenreCache.Path, logger)
		if err != nil {
			return fmt.Errorf("failed to open genre cache: %w", err)
		}
		store = genreStore
	}
	genreCache = genre.NewCache(catalog, store, logger, genre.WithTTL(cfg.GenreCache.TTL))

	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filter); err != nil {
		return err
	}

	ui = viewstate.NewDispatcher(logger)
	formatter = NewConsoleFormatter(genreCache)

	logger.Debug().
		Str("base_url", cfg.TMDB.BaseURL).
		Str("genre_cache", cfg.GenreCache.Driver).
		Msg("Initialized")
	return nil
}

// shutdownApp stops the dispatcher and releases the genre store and log file
func shutdownApp(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if ui != nil {
		if err := ui.Stop(ctx); err != nil {
			logger.Warn().Err(err).Msg("UI dispatcher did not drain")
		}
	}
	if genreStore != nil {
		if err := genreStore.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close genre cache")
		}
	}
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}

// setupLogger configures the zerolog logger. When a log file is configured it
// receives JSON lines alongside the console output.
func setupLogger(cfg config.LoggingConfig) (zerolog.Logger, io.Closer) {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	var out io.Writer = os.Stderr
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
		}
	}

	var closer io.Closer
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, rotator)
		closer = rotator
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), closer
}

// awaitScreen waits for a controller's outstanding loads, bounded by --wait
func awaitScreen(ctx context.Context, screen interface{ Wait(context.Context) error }) error {
	ctx, cancel := context.WithTimeout(ctx, waitFor)
	defer cancel()
	if err := screen.Wait(ctx); err != nil {
		return fmt.Errorf("screen did not finish loading: %w", err)
	}
	return nil
}

// contextWithWait bounds a direct catalog call by --wait
func contextWithWait(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), waitFor)
}

// catalogError wraps a failed catalog call, naming the usual causes of
// authentication and missing-resource responses
func catalogError(action string, err error) error {
	var nerr *tmdb.NetworkError
	if errors.As(err, &nerr) {
		switch {
		case nerr.IsUnauthorized():
			return fmt.Errorf("%s: TMDB rejected the API key, check tmdb.api_key: %w", action, err)
		case nerr.IsNotFound():
			return fmt.Errorf("%s: not found on TMDB: %w", action, err)
		}
	}
	return fmt.Errorf("%s: %w", action, err)
}

// primeGenres fills an empty genre cache so listings can name genres. Failure
// only degrades names to the fallback.
func primeGenres(ctx context.Context) {
	if err := genreCache.PrimeIfEmpty(ctx); err != nil {
		logger.Warn().Err(err).Msg("Genre names unavailable")
	}
}

// applyFilter narrows movies with --filter, keeping their order
func applyFilter(ctx context.Context, movies []tmdb.Movie) ([]tmdb.Movie, error) {
	if filterExpr == "" || len(movies) == 0 {
		return movies, nil
	}

	matched, err := filters.Apply(ctx, filterExpr, filter.NewItems(movies, genreCache.Names()))
	if matched == nil && err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Some movies could not be evaluated")
	}

	keep := make(map[int]struct{}, len(matched))
	for _, item := range matched {
		keep[item.ID] = struct{}{}
	}
	out := make([]tmdb.Movie, 0, len(matched))
	for _, m := range movies {
		if _, ok := keep[m.ID]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}
