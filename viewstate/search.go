package viewstate

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/tmdb"
)

// DefaultDebounce is the quiet period before a query is sent
const DefaultDebounce = 500 * time.Millisecond

const (
	popularLimit        = 8
	searchTrendingLimit = 6
)

// SearchState is what the search screen renders
type SearchState struct {
	Query   string
	Results []tmdb.Movie
	Loading bool
	Error   string

	PopularMovies  []tmdb.Movie
	PopularError   string
	TrendingMovies []tmdb.Movie
	TrendingError  string
}

// SearchOption configures a Search controller.
type SearchOption func(*Search)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) SearchOption {
	return func(s *Search) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithStaleGuard makes the controller drop search results that arrive after
// a newer query was sent or the query was cleared. Off by default, in which
// case results are applied in whatever order they arrive.
func WithStaleGuard(enabled bool) SearchOption {
	return func(s *Search) {
		s.staleGuard = enabled
	}
}

// Search drives the search screen. Query changes pass through a pipeline
// that waits for a quiet period, skips a value equal to the previous one and
// drops blank values before anything reaches the network.
type Search struct {
	base
	catalog    tmdb.Catalog
	state      *Observable[SearchState]
	debounce   time.Duration
	staleGuard bool

	// UI thread only
	timer      *time.Timer
	generation uint64
	emitted    bool
	lastQuery  string
	seq        uint64
}

// NewSearch creates the controller and loads the popular and trending
// suggestions
func NewSearch(catalog tmdb.Catalog, ui *Dispatcher, logger zerolog.Logger, opts ...SearchOption) *Search {
	s := &Search{
		base:     newBase(ui, logger, "search"),
		catalog:  catalog,
		state:    NewObservable(SearchState{}),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.intent(func() {
		s.loadTrending()
		s.loadPopular()
	})
	return s
}

// State returns the current search state
func (s *Search) State() SearchState {
	return s.state.Get()
}

// Subscribe streams search state changes
func (s *Search) Subscribe() (<-chan SearchState, func()) {
	return s.state.Subscribe()
}

// SetQuery echoes text into the state right away and feeds the debounced
// pipeline. A blank query clears results and error immediately.
func (s *Search) SetQuery(text string) {
	s.intent(func() {
		blank := isBlank(text)
		s.state.Update(func(st *SearchState) {
			st.Query = text
			if blank {
				st.Results = []tmdb.Movie{}
				st.Error = ""
				if s.staleGuard {
					st.Loading = false
				}
			}
		})
		if blank {
			s.seq++
		}
		s.schedule(text)
	})
}

// Clear resets the query, results and error
func (s *Search) Clear() {
	s.intent(func() {
		s.state.Update(func(st *SearchState) {
			st.Query = ""
			st.Results = []tmdb.Movie{}
			st.Error = ""
			if s.staleGuard {
				st.Loading = false
			}
		})
		s.seq++
		s.schedule("")
	})
}

// Close drops any pending debounced query and cancels in-flight requests
func (s *Search) Close() {
	s.intent(func() {
		s.generation++
		if s.timer != nil && s.timer.Stop() {
			s.inflight.done()
		}
		s.timer = nil
	})
	s.base.Close()
}

// LoadPopular reloads the popular suggestions
func (s *Search) LoadPopular() {
	s.intent(s.loadPopular)
}

// LoadTrending reloads the trending suggestions
func (s *Search) LoadTrending() {
	s.intent(s.loadTrending)
}

// schedule restarts the quiet-period timer for text. A pending timer counts as
// outstanding work so Wait covers the debounce too.
func (s *Search) schedule(text string) {
	s.generation++
	gen := s.generation

	if s.timer != nil && s.timer.Stop() {
		s.inflight.done()
	}

	s.inflight.add()
	s.timer = time.AfterFunc(s.debounce, func() {
		s.post(func() { s.emit(gen, text) })
	})
}

// emit runs when a quiet period ends
func (s *Search) emit(gen uint64, text string) {
	if gen != s.generation {
		return
	}
	s.timer = nil

	if s.emitted && text == s.lastQuery {
		return
	}
	s.emitted = true
	s.lastQuery = text

	if isBlank(text) {
		return
	}
	s.search(text)
}

func (s *Search) search(query string) {
	s.seq++
	seq := s.seq
	s.logger.Debug().Str("query", query).Msg("Searching")

	s.state.Update(func(st *SearchState) {
		st.Loading = true
		st.Error = ""
	})

	fetch(&s.base, func(ctx context.Context) ([]tmdb.Movie, error) {
		return s.catalog.Search(ctx, query)
	}, func(movies []tmdb.Movie, err error) {
		if s.staleGuard && seq != s.seq {
			s.logger.Debug().Str("query", query).Msg("Dropping stale search results")
			return
		}
		s.state.Update(func(st *SearchState) {
			st.Loading = false
			if err != nil {
				st.Error = err.Error()
				st.Results = []tmdb.Movie{}
				return
			}
			st.Results = movies
		})
	})
}

func (s *Search) loadPopular() {
	s.state.Update(func(st *SearchState) {
		st.PopularError = ""
	})
	fetch(&s.base, func(ctx context.Context) ([]tmdb.Movie, error) {
		movies, err := s.catalog.FetchByPage(ctx, 1)
		return head(movies, popularLimit), err
	}, func(movies []tmdb.Movie, err error) {
		s.state.Update(func(st *SearchState) {
			if err != nil {
				s.logger.Warn().Err(err).Msg("Failed to load popular movies")
				st.PopularError = err.Error()
				return
			}
			st.PopularMovies = movies
		})
	})
}

func (s *Search) loadTrending() {
	s.state.Update(func(st *SearchState) {
		st.TrendingError = ""
	})
	fetch(&s.base, func(ctx context.Context) ([]tmdb.Movie, error) {
		movies, err := s.catalog.FetchTrending(ctx)
		return head(movies, searchTrendingLimit), err
	}, func(movies []tmdb.Movie, err error) {
		s.state.Update(func(st *SearchState) {
			if err != nil {
				s.logger.Warn().Err(err).Msg("Failed to load trending movies")
				st.TrendingError = err.Error()
				return
			}
			st.TrendingMovies = movies
		})
	})
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
