package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/tmdb"
	"github.com/s0up4200/marquee/viewstate"
)

type genreNames map[int]string

func (g genreNames) LookupNames(ids []int) (string, bool) {
	var names []string
	for _, id := range ids {
		if n, ok := g[id]; ok {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", "), len(names) > 0
}

func (g genreNames) FallbackName() string { return "Action" }

func testFormatter() *ConsoleFormatter {
	return NewConsoleFormatter(genreNames{18: "Drama", 53: "Thriller"})
}

func TestFormatRow(t *testing.T) {
	out := testFormatter().FormatRow("Trending", []viewstate.DisplayItem{
		{ID: 1, Title: "Alien", Genre: "Horror", Rating: "8.2", ImageURL: "https://image.tmdb.org/t/p/w500/a.jpg"},
		{ID: 2, Title: "Aliens", Genre: "Action", Rating: "7.9"},
	})

	assert.Equal(t, `
Trending (2):

├── Alien [1]
│   Genre: Horror | Rating: 8.2
│   https://image.tmdb.org/t/p/w500/a.jpg
│
╰── Aliens [2]
    Genre: Action | Rating: 7.9
`, out)

	assert.Contains(t, testFormatter().FormatRow("Featured", nil), "No movies found")
}

func TestFormatMovieList(t *testing.T) {
	out := testFormatter().FormatMovieList("Results", []tmdb.Movie{
		{ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15", VoteAverage: 8.4, GenreIDs: []int{18, 53}},
		{ID: 7, Title: "Untitled", GenreIDs: []int{99}},
	})

	assert.Contains(t, out, "Results (2 movies):")
	assert.Contains(t, out, "├── Fight Club (1999) [550]\n│   Genre: Drama, Thriller | Rating: 8.4\n")
	assert.Contains(t, out, "╰── Untitled [7]\n    Genre: Action | Rating: 0.0\n", "unknown genres fall back")

	single := testFormatter().FormatMovieList("Results", []tmdb.Movie{{ID: 1, Title: "One"}})
	assert.Contains(t, single, "(1 movie)")
}

func detailState(tab viewstate.Tab) viewstate.DetailState {
	rating := 9.0
	return viewstate.DetailState{
		MovieID: 550,
		Phase:   viewstate.PhaseLoaded,
		Movie:   &tmdb.Movie{ID: 550, Title: "Fight Club", Tagline: "Mischief. Mayhem. Soap.", Overview: "An insomniac office worker..."},
		Summary: viewstate.Summary{
			Runtime: "2h 19m", Budget: "$63M", Revenue: "$100M",
			ReleaseDate: "Oct 15, 1999", Rating: "8.4", Genres: "Drama",
		},
		Cast: []tmdb.CastMember{{ID: 819, Name: "Edward Norton", Character: "The Narrator", ProfilePath: "/n.jpg"}},
		Trailers: []tmdb.Trailer{
			{Name: "Trailer", Key: "abc", Site: "YouTube"},
			{Name: "Teaser", Key: "xyz", Site: "Vimeo"},
		},
		Reviews:     []tmdb.Review{{Author: "Goddard", Content: "Pretty\n\nawesome.", AuthorDetails: tmdb.AuthorDetails{Rating: &rating}}},
		Related:     []tmdb.Movie{{ID: 1, Title: "Se7en", GenreIDs: []int{53}}},
		SelectedTab: tab,
	}
}

func TestFormatDetail(t *testing.T) {
	f := testFormatter()

	overview := f.FormatDetail(detailState(viewstate.TabOverview))
	assert.Contains(t, overview, "Fight Club [550]")
	assert.Contains(t, overview, `"Mischief. Mayhem. Soap."`)
	assert.Contains(t, overview, "[Overview]  Cast  Reviews  Related")
	assert.Contains(t, overview, "Released: Oct 15, 1999 | Runtime: 2h 19m | Rating: 8.4")
	assert.Contains(t, overview, "Budget: $63M | Revenue: $100M")
	assert.Contains(t, overview, "Trailers (1):")
	assert.Contains(t, overview, "Trailer: https://www.youtube.com/watch?v=abc")
	assert.NotContains(t, overview, "Teaser", "only playable trailers are listed")

	cast := f.FormatDetail(detailState(viewstate.TabCast))
	assert.Contains(t, cast, "Overview  [Cast]")
	assert.Contains(t, cast, "╰── Edward Norton as The Narrator\n    https://image.tmdb.org/t/p/w185/n.jpg\n")

	reviews := f.FormatDetail(detailState(viewstate.TabReviews))
	assert.Contains(t, reviews, "Review (1):")
	assert.Contains(t, reviews, "╰── Goddard (9/10)\n    Pretty awesome.\n")

	related := f.FormatDetail(detailState(viewstate.TabRelated))
	assert.Contains(t, related, "Related (1 movie):")
	assert.Contains(t, related, "Se7en [1]")
}

func TestFormatDetailFailed(t *testing.T) {
	out := testFormatter().FormatDetail(viewstate.DetailState{MovieID: 9, Phase: viewstate.PhaseFailed, Error: "not found"})
	assert.Contains(t, out, "Movie 9: failed")
	assert.Contains(t, out, "Error: not found")
}

func TestFormatGenres(t *testing.T) {
	assert.Equal(t, "No genres cached\n", testFormatter().FormatGenres(nil))

	out := testFormatter().FormatGenres([]tmdb.Genre{{ID: 28, Name: "Action"}, {ID: 18, Name: "Drama"}})
	assert.Equal(t, "\nGenres (2):\n\n├── Action (ID: 28)\n│\n╰── Drama (ID: 18)\n", out)
}

func TestFormatReviewPage(t *testing.T) {
	out := testFormatter().FormatReviewPage(&tmdb.PagedResult[tmdb.Review]{
		Page: 1, TotalPages: 3, TotalResults: 41,
		Results: []tmdb.Review{{Author: "a", Content: "b"}},
	})
	assert.Contains(t, out, "Page 1 of 3 (41 total)")
	assert.Contains(t, out, "╰── a\n    b\n")
	assert.Contains(t, out, "More on page 2")

	empty := testFormatter().FormatReviewPage(&tmdb.PagedResult[tmdb.Review]{Page: 1})
	assert.Contains(t, empty, "No reviews")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("  short  ", 10))
	assert.Equal(t, "abcde...", excerpt("abcdefgh", 5))
	assert.Equal(t, "héllo...", excerpt("héllo wörld", 5))
}

func TestParseTab(t *testing.T) {
	got, err := parseTab("cast")
	require.NoError(t, err)
	assert.Equal(t, viewstate.TabCast, got)

	got, err = parseTab("Overview")
	require.NoError(t, err)
	assert.Equal(t, viewstate.TabOverview, got)

	_, err = parseTab("trivia")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overview, cast, reviews, related")
}

func TestParseMovieID(t *testing.T) {
	id, err := parseMovieID("550")
	require.NoError(t, err)
	assert.Equal(t, 550, id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := parseMovieID(bad)
		assert.Error(t, err, bad)
	}
}
