package cmd

import (
	"fmt"
	"strings"

	"github.com/s0up4200/marquee/tmdb"
	"github.com/s0up4200/marquee/viewstate"
)

const (
	branch     = "├── "
	lastBranch = "╰── "
	pipe       = "│"
	indent     = "│   "
	lastIndent = "    "
)

// reviewExcerpt bounds how much of a review body is printed
const reviewExcerpt = 240

// ConsoleFormatter renders controller state as tree-style console output
type ConsoleFormatter struct {
	genres viewstate.GenreLookup
}

// NewConsoleFormatter creates a formatter that names genres through genres
func NewConsoleFormatter(genres viewstate.GenreLookup) *ConsoleFormatter {
	return &ConsoleFormatter{genres: genres}
}

// node writes one tree entry; details are indented under it
func node(sb *strings.Builder, isLast bool, head string, details ...string) {
	prefix, pad := branch, indent
	if isLast {
		prefix, pad = lastBranch, lastIndent
	}
	fmt.Fprintf(sb, "%s%s\n", prefix, head)
	for _, d := range details {
		if d != "" {
			fmt.Fprintf(sb, "%s%s\n", pad, d)
		}
	}
	if !isLast {
		sb.WriteString(pipe + "\n")
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// FormatRow formats a row of display items under a heading
func (f *ConsoleFormatter) FormatRow(heading string, items []viewstate.DisplayItem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", heading, len(items))
	if len(items) == 0 {
		sb.WriteString("No movies found\n")
		return sb.String()
	}

	for i, item := range items {
		node(&sb, i == len(items)-1,
			fmt.Sprintf("%s [%d]", item.Title, item.ID),
			fmt.Sprintf("Genre: %s | Rating: %s", item.Genre, item.Rating),
			item.ImageURL,
		)
	}
	return sb.String()
}

// FormatMovieList formats catalog movies under a heading
func (f *ConsoleFormatter) FormatMovieList(heading string, movies []tmdb.Movie) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d %s):\n\n", heading, len(movies), plural(len(movies), "movie"))
	if len(movies) == 0 {
		sb.WriteString("No movies found\n")
		return sb.String()
	}

	for i := range movies {
		m := &movies[i]
		title := m.Title
		if y := m.Year(); y > 0 {
			title = fmt.Sprintf("%s (%d)", m.Title, y)
		}
		node(&sb, i == len(movies)-1,
			fmt.Sprintf("%s [%d]", title, m.ID),
			fmt.Sprintf("Genre: %s | Rating: %s", f.genreNames(m), m.FormattedRating()),
		)
	}
	return sb.String()
}

func (f *ConsoleFormatter) genreNames(m *tmdb.Movie) string {
	if names, ok := f.genres.LookupNames(m.AllGenreIDs()); ok {
		return names
	}
	return f.genres.FallbackName()
}

// FormatDetail formats the detail screen for the selected tab
func (f *ConsoleFormatter) FormatDetail(s viewstate.DetailState) string {
	var sb strings.Builder
	if s.Phase == viewstate.PhaseFailed || s.Movie == nil {
		fmt.Fprintf(&sb, "\nMovie %d: %s\n", s.MovieID, s.Phase)
		if s.Error != "" {
			fmt.Fprintf(&sb, "Error: %s\n", s.Error)
		}
		return sb.String()
	}

	m := s.Movie
	fmt.Fprintf(&sb, "\n%s [%d]\n", m.Title, m.ID)
	if m.Tagline != "" {
		fmt.Fprintf(&sb, "%q\n", m.Tagline)
	}
	tabs := make([]string, len(viewstate.Tabs))
	for i, t := range viewstate.Tabs {
		tabs[i] = string(t)
		if t == s.SelectedTab {
			tabs[i] = "[" + tabs[i] + "]"
		}
	}
	fmt.Fprintf(&sb, "%s\n\n", strings.Join(tabs, "  "))

	switch s.SelectedTab {
	case viewstate.TabCast:
		f.formatCast(&sb, s.Cast)
	case viewstate.TabReviews:
		f.formatReviews(&sb, s.Reviews)
	case viewstate.TabRelated:
		sb.WriteString(strings.TrimPrefix(f.FormatMovieList("Related", s.Related), "\n"))
	default:
		f.formatOverview(&sb, s)
	}
	return sb.String()
}

func (f *ConsoleFormatter) formatOverview(sb *strings.Builder, s viewstate.DetailState) {
	sum := s.Summary
	fmt.Fprintf(sb, "Released: %s | Runtime: %s | Rating: %s\n", sum.ReleaseDate, sum.Runtime, sum.Rating)
	fmt.Fprintf(sb, "Budget: %s | Revenue: %s\n", sum.Budget, sum.Revenue)
	if sum.Genres != "" {
		fmt.Fprintf(sb, "Genres: %s\n", sum.Genres)
	}
	if s.Movie.Overview != "" {
		fmt.Fprintf(sb, "\n%s\n", s.Movie.Overview)
	}

	var trailers []string
	for _, t := range s.Trailers {
		if url, ok := t.YouTubeURL(); ok {
			trailers = append(trailers, fmt.Sprintf("%s: %s", t.Name, url))
		}
	}
	if len(trailers) > 0 {
		fmt.Fprintf(sb, "\nTrailers (%d):\n\n", len(trailers))
		for i, t := range trailers {
			node(sb, i == len(trailers)-1, t)
		}
	}
}

func (f *ConsoleFormatter) formatCast(sb *strings.Builder, cast []tmdb.CastMember) {
	fmt.Fprintf(sb, "Cast (%d):\n\n", len(cast))
	for i, c := range cast {
		head := c.Name
		if c.Character != "" {
			head = fmt.Sprintf("%s as %s", c.Name, c.Character)
		}
		url, _ := c.ProfileURL()
		node(sb, i == len(cast)-1, head, url)
	}
}

func (f *ConsoleFormatter) formatReviews(sb *strings.Builder, reviews []tmdb.Review) {
	fmt.Fprintf(sb, "%s (%d):\n\n", plural(len(reviews), "Review"), len(reviews))
	for i, r := range reviews {
		head := r.Author
		if rating := r.AuthorDetails.Rating; rating != nil {
			head = fmt.Sprintf("%s (%.0f/10)", r.Author, *rating)
		}
		node(sb, i == len(reviews)-1, head, excerpt(r.Content, reviewExcerpt))
	}
}

// FormatReviewPage formats one page of reviews
func (f *ConsoleFormatter) FormatReviewPage(page *tmdb.PagedResult[tmdb.Review]) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nPage %d of %d (%d total)\n\n", page.Page, page.TotalPages, page.TotalResults)
	if len(page.Results) == 0 {
		sb.WriteString("No reviews\n")
		return sb.String()
	}
	f.formatReviews(&sb, page.Results)
	if page.HasMorePages() {
		fmt.Fprintf(&sb, "\nMore on page %d\n", page.Page+1)
	}
	return sb.String()
}

// excerpt flattens s onto one line and cuts it at n runes
func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// FormatGenres formats the cached genre list
func (f *ConsoleFormatter) FormatGenres(genres []tmdb.Genre) string {
	if len(genres) == 0 {
		return "No genres cached\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nGenres (%d):\n\n", len(genres))
	for i, g := range genres {
		node(&sb, i == len(genres)-1, fmt.Sprintf("%s (ID: %d)", g.Name, g.ID))
	}
	return sb.String()
}
