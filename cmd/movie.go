package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/viewstate"
)

var (
	tab        string
	reviewPage int
)

// movieCmd represents the movie command
var movieCmd = &cobra.Command{
	Use:   "movie <id>",
	Short: "Show the detail screen for a movie",
	Long: `Load a movie with its cast, related movies, trailers and reviews and print
one tab of the detail screen.`,
	Args: cobra.ExactArgs(1),
	RunE: runMovie,
}

// reviewsCmd represents the reviews command
var reviewsCmd = &cobra.Command{
	Use:   "reviews <id>",
	Short: "Page through the reviews of a movie",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviews,
}

func init() {
	movieCmd.Flags().StringVarP(&tab, "tab", "t", string(viewstate.TabOverview), "tab to show: overview, cast, reviews or related")
	reviewsCmd.Flags().IntVarP(&reviewPage, "page", "p", 1, "review page")
}

func parseMovieID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q", arg)
	}
	return id, nil
}

func parseTab(name string) (viewstate.Tab, error) {
	names := make([]string, len(viewstate.Tabs))
	for i, t := range viewstate.Tabs {
		if strings.EqualFold(name, string(t)) {
			return t, nil
		}
		names[i] = strings.ToLower(string(t))
	}
	return "", fmt.Errorf("unknown tab %q (want one of %s)", name, strings.Join(names, ", "))
}

func runMovie(cmd *cobra.Command, args []string) error {
	id, err := parseMovieID(args[0])
	if err != nil {
		return err
	}
	selected, err := parseTab(tab)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if selected == viewstate.TabRelated {
		primeGenres(ctx)
	}

	detail := viewstate.NewDetail(id, catalog, ui, logger)
	defer detail.Close()
	detail.SelectTab(selected)

	if err := awaitScreen(ctx, detail); err != nil {
		return err
	}

	s := detail.State()
	if s.Phase == viewstate.PhaseFailed {
		return fmt.Errorf("failed to load movie %d: %s", id, s.Error)
	}

	if s.SelectedTab == viewstate.TabRelated {
		if s.Related, err = applyFilter(ctx, s.Related); err != nil {
			return err
		}
	}

	fmt.Print(formatter.FormatDetail(s))
	fmt.Println()
	return nil
}

func runReviews(cmd *cobra.Command, args []string) error {
	id, err := parseMovieID(args[0])
	if err != nil {
		return err
	}
	if reviewPage < 1 {
		return fmt.Errorf("page must be at least 1")
	}

	ctx, cancel := contextWithWait(cmd)
	defer cancel()

	page, err := catalog.FetchReviewsPage(ctx, id, reviewPage)
	if err != nil {
		return catalogError(fmt.Sprintf("failed to fetch reviews for movie %d", id), err)
	}

	fmt.Print(formatter.FormatReviewPage(page))
	return nil
}
