package filter

import (
	"time"

	"github.com/s0up4200/marquee/tmdb"
)

// Item is the view of a catalog movie that filter expressions see. Field
// names are the identifiers available inside an expression.
type Item struct {
	ID         int
	Title      string
	Overview   string
	Rating     float64
	Votes      int
	Year       int
	Released   time.Time
	Genres     []string
	GenreIDs   []int
	Popularity float64
	Adult      bool
	Language   string
}

// NewItem builds the filter view of a movie. Genre ids missing from names
// are kept in GenreIDs but contribute no name.
func NewItem(m *tmdb.Movie, names map[int]string) Item {
	ids := m.AllGenreIDs()
	item := Item{
		ID:         m.ID,
		Title:      m.Title,
		Overview:   m.Overview,
		Rating:     m.VoteAverage,
		Votes:      m.VoteCount,
		Year:       m.Year(),
		GenreIDs:   ids,
		Popularity: m.Popularity,
		Adult:      m.Adult,
		Language:   m.OriginalLanguage,
	}
	if t, err := time.Parse(time.DateOnly, m.ReleaseDate); err == nil {
		item.Released = t
	}
	for _, id := range ids {
		if name, ok := names[id]; ok {
			item.Genres = append(item.Genres, name)
		}
	}
	return item
}

// NewItems maps movies in order
func NewItems(movies []tmdb.Movie, genres []tmdb.Genre) []Item {
	names := make(map[int]string, len(genres))
	for _, g := range genres {
		names[g.ID] = g.Name
	}
	items := make([]Item, len(movies))
	for i := range movies {
		items[i] = NewItem(&movies[i], names)
	}
	return items
}
