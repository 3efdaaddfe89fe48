package viewstate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/tmdb"
)

var errBoom = errors.New("boom")

// fakeCatalog is a scriptable tmdb.Catalog. Unset funcs return empty lists.
type fakeCatalog struct {
	mu    sync.Mutex
	calls map[string][]string

	trending   func() ([]tmdb.Movie, error)
	details    func(id int) (*tmdb.Movie, error)
	cast       func(id int) ([]tmdb.CastMember, error)
	similar    func(id int) ([]tmdb.Movie, error)
	reviews    func(id int) ([]tmdb.Review, error)
	search     func(query string) ([]tmdb.Movie, error)
	byPage     func(page int) ([]tmdb.Movie, error)
	nowPlaying func() ([]tmdb.Movie, error)
	genres     func() ([]tmdb.Genre, error)
	trailers   func(id int) ([]tmdb.Trailer, error)
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{calls: make(map[string][]string)}
}

func (f *fakeCatalog) record(op string, arg any) {
	f.mu.Lock()
	f.calls[op] = append(f.calls[op], fmt.Sprint(arg))
	f.mu.Unlock()
}

func (f *fakeCatalog) callArgs(op string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls[op]...)
}

func (f *fakeCatalog) callCount(op string) int {
	return len(f.callArgs(op))
}

func (f *fakeCatalog) FetchTrending(_ context.Context) ([]tmdb.Movie, error) {
	f.record("trending", "")
	if f.trending == nil {
		return []tmdb.Movie{}, nil
	}
	return f.trending()
}

func (f *fakeCatalog) FetchMovieDetails(_ context.Context, id int) (*tmdb.Movie, error) {
	f.record("details", id)
	if f.details == nil {
		return &tmdb.Movie{ID: id}, nil
	}
	return f.details(id)
}

func (f *fakeCatalog) FetchCast(_ context.Context, id int) ([]tmdb.CastMember, error) {
	f.record("cast", id)
	if f.cast == nil {
		return []tmdb.CastMember{}, nil
	}
	return f.cast(id)
}

func (f *fakeCatalog) FetchSimilar(_ context.Context, id int) ([]tmdb.Movie, error) {
	f.record("similar", id)
	if f.similar == nil {
		return []tmdb.Movie{}, nil
	}
	return f.similar(id)
}

func (f *fakeCatalog) FetchReviews(_ context.Context, id int) ([]tmdb.Review, error) {
	f.record("reviews", id)
	if f.reviews == nil {
		return []tmdb.Review{}, nil
	}
	return f.reviews(id)
}

func (f *fakeCatalog) Search(_ context.Context, query string) ([]tmdb.Movie, error) {
	f.record("search", query)
	if f.search == nil {
		return []tmdb.Movie{}, nil
	}
	return f.search(query)
}

func (f *fakeCatalog) FetchByPage(_ context.Context, page int) ([]tmdb.Movie, error) {
	f.record("page", page)
	if f.byPage == nil {
		return []tmdb.Movie{}, nil
	}
	return f.byPage(page)
}

func (f *fakeCatalog) FetchNowPlaying(_ context.Context) ([]tmdb.Movie, error) {
	f.record("now_playing", "")
	if f.nowPlaying == nil {
		return []tmdb.Movie{}, nil
	}
	return f.nowPlaying()
}

func (f *fakeCatalog) FetchGenres(_ context.Context) ([]tmdb.Genre, error) {
	f.record("genres", "")
	if f.genres == nil {
		return []tmdb.Genre{}, nil
	}
	return f.genres()
}

func (f *fakeCatalog) FetchTrailers(_ context.Context, id int) ([]tmdb.Trailer, error) {
	f.record("trailers", id)
	if f.trailers == nil {
		return []tmdb.Trailer{}, nil
	}
	return f.trailers(id)
}

var _ tmdb.Catalog = (*fakeCatalog)(nil)

// staticGenres is a GenreLookup over a fixed map
type staticGenres struct {
	names  map[int]string
	primed atomic.Int32
}

func (g *staticGenres) LookupNames(ids []int) (string, bool) {
	var out string
	for _, id := range ids {
		if name, ok := g.names[id]; ok {
			if out != "" {
				out += ", "
			}
			out += name
		}
	}
	return out, out != ""
}

func (g *staticGenres) FallbackName() string { return "Action" }

func (g *staticGenres) PrimeIfEmpty(_ context.Context) error {
	g.primed.Add(1)
	return nil
}

// movies builds n movies with ids start..start+n-1
func movies(start, n int, genreIDs ...int) []tmdb.Movie {
	out := make([]tmdb.Movie, n)
	for i := range out {
		out[i] = tmdb.Movie{
			ID:          start + i,
			Title:       fmt.Sprintf("Movie %d", start+i),
			PosterPath:  fmt.Sprintf("/p%d.jpg", start+i),
			VoteAverage: 7.5,
			GenreIDs:    genreIDs,
		}
	}
	return out
}

func ids(ms []tmdb.Movie) []int {
	out := make([]int, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	d := NewDispatcher(zerolog.Nop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = d.Stop(ctx)
	})
	return d
}

type waiter interface {
	Wait(ctx context.Context) error
}

func waitIdle(t *testing.T, w waiter) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Wait(ctx))
}
