package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/viewstate"
)

var pages int

// homeCmd represents the home command
var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show the home screen rows",
	Long: `Load the featured, trending and recently added rows of the home screen.
Use --pages to page further into recently added.`,
	Args: cobra.NoArgs,
	RunE: runHome,
}

// categoryCmd represents the category command
var categoryCmd = &cobra.Command{
	Use:   "category [genre-id]",
	Short: "Browse popular movies, optionally narrowed to one genre",
	Long: `Browse the popular listing. With a genre id, each page is narrowed to movies
tagged with that genre, so pages may come back sparse. Run 'marquee genres' for ids.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCategory,
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog",
	Long:  `Search movies by title. Without a query, show the popular and trending suggestions.`,
	RunE:  runSearch,
}

func init() {
	homeCmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of recently added pages to load")
	categoryCmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of listing pages to load")
}

func runHome(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	home := viewstate.NewHome(catalog, genreCache, ui, logger)
	defer home.Close()

	if err := awaitScreen(ctx, home); err != nil {
		return err
	}
	for page := 1; page < pages && home.State().HasMore; page++ {
		home.LoadMore()
		if err := awaitScreen(ctx, home); err != nil {
			return err
		}
	}

	s := home.State()
	if s.Error != "" {
		logger.Error().Str("error", s.Error).Msg("Home screen loaded with errors")
	}

	fmt.Print(formatter.FormatRow("Featured", s.Featured))
	fmt.Print(formatter.FormatRow("Trending", s.Trending))
	fmt.Print(formatter.FormatRow(fmt.Sprintf("Recently Added (page %d)", s.Page), s.RecentlyAdded))
	fmt.Println()
	return nil
}

func runCategory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var categoryID *int
	heading := "Popular"
	if len(args) == 1 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid genre id %q: %w", args[0], err)
		}
		categoryID = &id
	}

	primeGenres(ctx)
	if categoryID != nil {
		heading = fmt.Sprintf("Genre %d", *categoryID)
		if name, ok := genreCache.LookupNames([]int{*categoryID}); ok {
			heading = name
		}
	}

	category := viewstate.NewCategory(catalog, ui, logger)
	defer category.Close()

	category.Load(categoryID)
	if err := awaitScreen(ctx, category); err != nil {
		return err
	}
	for category.State().Page < pages && category.State().HasMore {
		category.LoadMore()
		if err := awaitScreen(ctx, category); err != nil {
			return err
		}
	}

	s := category.State()
	if s.Error != "" && len(s.Movies) == 0 {
		return fmt.Errorf("failed to load %s: %s", heading, s.Error)
	}
	if s.Error != "" {
		logger.Warn().Str("error", s.Error).Msg("Stopped paging early")
	}

	movies, err := applyFilter(ctx, s.Movies)
	if err != nil {
		return err
	}

	more := ""
	if s.HasMore {
		more = ", more available"
	}
	fmt.Print(formatter.FormatMovieList(fmt.Sprintf("%s (pages 1-%d%s)", heading, s.Page, more), movies))
	fmt.Println()
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	primeGenres(ctx)

	search := viewstate.NewSearch(catalog, ui, logger,
		viewstate.WithDebounce(cfg.Search.Debounce),
		viewstate.WithStaleGuard(cfg.Search.StaleGuard),
	)
	defer search.Close()

	query := strings.Join(args, " ")
	search.SetQuery(query)
	if err := awaitScreen(ctx, search); err != nil {
		return err
	}

	s := search.State()
	if strings.TrimSpace(query) == "" {
		return printSuggestions(cmd, s)
	}
	if s.Error != "" {
		return fmt.Errorf("search failed: %s", s.Error)
	}

	results, err := applyFilter(ctx, s.Results)
	if err != nil {
		return err
	}
	fmt.Print(formatter.FormatMovieList(fmt.Sprintf("Results for %q", s.Query), results))
	fmt.Println()
	return nil
}

func printSuggestions(cmd *cobra.Command, s viewstate.SearchState) error {
	ctx := cmd.Context()
	popular, err := applyFilter(ctx, s.PopularMovies)
	if err != nil {
		return err
	}
	trending, err := applyFilter(ctx, s.TrendingMovies)
	if err != nil {
		return err
	}

	if s.PopularError != "" {
		logger.Warn().Str("error", s.PopularError).Msg("Popular suggestions unavailable")
	}
	if s.TrendingError != "" {
		logger.Warn().Str("error", s.TrendingError).Msg("Trending suggestions unavailable")
	}
	fmt.Print(formatter.FormatMovieList("Popular", popular))
	fmt.Print(formatter.FormatMovieList("Trending", trending))
	fmt.Println()
	return nil
}
