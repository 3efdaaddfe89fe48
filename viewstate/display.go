package viewstate

import (
	"context"

	"github.com/s0up4200/marquee/format"
	"github.com/s0up4200/marquee/tmdb"
)

// GenreLookup resolves genre ids to names without touching the network
type GenreLookup interface {
	LookupNames(ids []int) (string, bool)
	FallbackName() string
}

// genrePrimer is implemented by lookups that can warm themselves up
type genrePrimer interface {
	PrimeIfEmpty(ctx context.Context) error
}

// DisplayItem is a presentation-ready projection of a movie
type DisplayItem struct {
	ID       int
	Title    string
	Genre    string
	Rating   string
	ImageURL string
}

type imageFunc func(*tmdb.Movie) (string, bool)

func posterImage(m *tmdb.Movie) (string, bool)   { return m.PosterURL() }
func backdropImage(m *tmdb.Movie) (string, bool) { return m.BackdropURL() }

func newDisplayItem(m *tmdb.Movie, genres GenreLookup, image imageFunc) DisplayItem {
	genre, ok := genres.LookupNames(m.AllGenreIDs())
	if !ok {
		genre = genres.FallbackName()
	}
	url, _ := image(m)
	return DisplayItem{
		ID:       m.ID,
		Title:    m.Title,
		Genre:    genre,
		Rating:   format.Rating(m.VoteAverage),
		ImageURL: url,
	}
}

func displayItems(movies []tmdb.Movie, genres GenreLookup, image imageFunc) []DisplayItem {
	items := make([]DisplayItem, len(movies))
	for i := range movies {
		items[i] = newDisplayItem(&movies[i], genres, image)
	}
	return items
}
