package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/format"
)

var refreshGenres bool

// genresCmd represents the genres command
var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List cached genres",
	Long: `List the genre names used to label movies. The cache is filled on first use
and kept for genre_cache.ttl; --refresh fetches the list again.`,
	Args: cobra.NoArgs,
	RunE: runGenres,
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to TMDB",
	Args:  cobra.NoArgs,
	RunE:  runTest,
}

func init() {
	genresCmd.Flags().BoolVar(&refreshGenres, "refresh", false, "fetch the genre list even if the cache is fresh")
}

func runGenres(cmd *cobra.Command, args []string) error {
	ctx, cancel := contextWithWait(cmd)
	defer cancel()

	if refreshGenres {
		if err := genreCache.Refresh(ctx); err != nil {
			return err
		}
	} else if err := genreCache.PrimeIfEmpty(ctx); err != nil {
		return err
	}

	fmt.Print(formatter.FormatGenres(genreCache.Names()))
	return nil
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx, cancel := contextWithWait(cmd)
	defer cancel()

	fmt.Printf("Testing connection to TMDB at %s...\n", cfg.TMDB.BaseURL)
	if err := catalog.TestConnection(ctx); err != nil {
		return catalogError("connection failed", err)
	}
	fmt.Println("✓ Connection successful!")

	fmt.Printf("\nGenre cache: %s", cfg.GenreCache.Driver)
	if genreStore != nil {
		fmt.Printf(" (%s)", cfg.GenreCache.Path)
	}
	fmt.Printf("\n- Cached genres: %d\n", len(genreCache.Names()))
	fmt.Printf("- Expires after: %s\n", cfg.GenreCache.TTL)
	if genreStore != nil {
		if info, err := os.Stat(cfg.GenreCache.Path); err == nil {
			fmt.Printf("- Database size: %s\n", format.FileSize(info.Size()))
		}
	}

	if names := filters.ListFilters(); len(names) > 0 {
		fmt.Printf("\nNamed filters:\n")
		for _, name := range names {
			f, _ := filters.GetFilter(name)
			fmt.Printf("  • %s: %s\n", name, f.Expression())
		}
	}
	return nil
}
