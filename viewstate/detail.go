package viewstate

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/marquee/format"
	"github.com/s0up4200/marquee/tmdb"
)

const relatedLimit = 6

// Phase is the lifecycle of a detail screen
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Tab is a section of the detail screen
type Tab string

const (
	TabOverview Tab = "Overview"
	TabCast     Tab = "Cast"
	TabReviews  Tab = "Reviews"
	TabRelated  Tab = "Related"
)

// Tabs lists the detail tabs in display order
var Tabs = []Tab{TabOverview, TabCast, TabReviews, TabRelated}

// Summary holds preformatted movie facts
type Summary struct {
	Runtime     string
	Budget      string
	Revenue     string
	ReleaseDate string
	Rating      string
	Genres      string
}

func summarize(m *tmdb.Movie) Summary {
	names := make([]string, len(m.Genres))
	for i, g := range m.Genres {
		names[i] = g.Name
	}
	return Summary{
		Runtime:     format.Runtime(m.Runtime),
		Budget:      format.Budget(m.Budget),
		Revenue:     format.Revenue(m.Revenue),
		ReleaseDate: format.Date(m.ReleaseDate, format.DisplayDateLayout),
		Rating:      format.Rating(m.VoteAverage),
		Genres:      strings.Join(names, ", "),
	}
}

// DetailState is what the detail screen renders
type DetailState struct {
	MovieID int
	Phase   Phase
	Movie   *tmdb.Movie
	Summary Summary
	Error   string

	Cast     []tmdb.CastMember
	Related  []tmdb.Movie
	Trailers []tmdb.Trailer
	Reviews  []tmdb.Review

	LoadingCast     bool
	LoadingRelated  bool
	LoadingTrailers bool
	LoadingReviews  bool

	SelectedTab Tab
	InWatchlist bool
	Liked       bool
}

// Detail drives the detail screen for one movie
type Detail struct {
	base
	movieID int
	catalog tmdb.Catalog
	state   *Observable[DetailState]
}

// NewDetail creates the controller in the loading phase and starts fetching
func NewDetail(movieID int, catalog tmdb.Catalog, ui *Dispatcher, logger zerolog.Logger) *Detail {
	d := &Detail{
		base:    newBase(ui, logger.With().Int("movie_id", movieID).Logger(), "detail"),
		movieID: movieID,
		catalog: catalog,
		state: NewObservable(DetailState{
			MovieID:     movieID,
			Phase:       PhaseLoading,
			SelectedTab: TabOverview,
		}),
	}
	d.intent(d.loadDetails)
	return d
}

// State returns the current detail state
func (d *Detail) State() DetailState {
	return d.state.Get()
}

// Subscribe streams detail state changes
func (d *Detail) Subscribe() (<-chan DetailState, func()) {
	return d.state.Subscribe()
}

// Reload fetches the movie and its sub-resources again
func (d *Detail) Reload() {
	d.intent(d.loadDetails)
}

// SelectTab switches the visible tab. Nothing is fetched.
func (d *Detail) SelectTab(tab Tab) {
	d.intent(func() {
		if !slices.Contains(Tabs, tab) {
			d.logger.Debug().Str("tab", string(tab)).Msg("Ignoring unknown tab")
			return
		}
		d.state.Update(func(s *DetailState) {
			s.SelectedTab = tab
		})
	})
}

// ToggleWatchlist flips the in-memory watchlist flag
func (d *Detail) ToggleWatchlist() {
	d.intent(func() {
		d.state.Update(func(s *DetailState) {
			s.InWatchlist = !s.InWatchlist
		})
	})
}

// ToggleLike flips the in-memory like flag
func (d *Detail) ToggleLike() {
	d.intent(func() {
		d.state.Update(func(s *DetailState) {
			s.Liked = !s.Liked
		})
	})
}

func (d *Detail) loadDetails() {
	d.logger.Debug().Msg("Loading movie details")
	d.state.Update(func(s *DetailState) {
		s.Phase = PhaseLoading
		s.Error = ""
	})

	fetch(&d.base, func(ctx context.Context) (*tmdb.Movie, error) {
		return d.catalog.FetchMovieDetails(ctx, d.movieID)
	}, func(movie *tmdb.Movie, err error) {
		if err != nil {
			d.logger.Error().Err(err).Msg("Failed to load movie")
			d.state.Update(func(s *DetailState) {
				s.Phase = PhaseFailed
				s.Error = err.Error()
			})
			return
		}

		d.state.Update(func(s *DetailState) {
			s.Movie = movie
			s.Summary = summarize(movie)
			s.Phase = PhaseLoaded
			s.LoadingCast = true
			s.LoadingRelated = true
			s.LoadingTrailers = true
			s.LoadingReviews = true
		})
		d.loadSubResources()
	})
}

// loadSubResources fans out the cast, related, trailer and review fetches.
// Each one lands independently; a failure only empties its own list.
func (d *Detail) loadSubResources() {
	var g errgroup.Group

	subFetch(d, &g, "cast", func(ctx context.Context) ([]tmdb.CastMember, error) {
		return d.catalog.FetchCast(ctx, d.movieID)
	}, func(s *DetailState, cast []tmdb.CastMember) {
		s.Cast = cast
		s.LoadingCast = false
	})

	subFetch(d, &g, "related", func(ctx context.Context) ([]tmdb.Movie, error) {
		movies, err := d.catalog.FetchSimilar(ctx, d.movieID)
		return head(movies, relatedLimit), err
	}, func(s *DetailState, related []tmdb.Movie) {
		s.Related = related
		s.LoadingRelated = false
	})

	subFetch(d, &g, "trailers", func(ctx context.Context) ([]tmdb.Trailer, error) {
		return d.catalog.FetchTrailers(ctx, d.movieID)
	}, func(s *DetailState, trailers []tmdb.Trailer) {
		s.Trailers = trailers
		s.LoadingTrailers = false
	})

	subFetch(d, &g, "reviews", func(ctx context.Context) ([]tmdb.Review, error) {
		return d.catalog.FetchReviews(ctx, d.movieID)
	}, func(s *DetailState, reviews []tmdb.Review) {
		s.Reviews = reviews
		s.LoadingReviews = false
	})

	go func() {
		if err := g.Wait(); err != nil {
			d.logger.Debug().Err(err).Msg("Some detail sub-resources are missing")
		}
	}()
}

// subFetch schedules one sub-resource fetch on g. On failure the list is set
// to empty and the error is only logged.
func subFetch[T any](d *Detail, g *errgroup.Group, name string, call func(context.Context) ([]T, error), apply func(*DetailState, []T)) {
	d.inflight.add()
	g.Go(func() error {
		items, err := call(d.ctx)
		d.post(func() {
			if err != nil {
				d.logger.Warn().Err(err).Str("resource", name).Msg("Failed to load detail sub-resource")
			}
			if err != nil || items == nil {
				items = []T{}
			}
			d.state.Update(func(s *DetailState) {
				apply(s, items)
			})
		})
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	})
}
