package viewstate

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/tmdb"
)

// PageSize is the number of results a full catalog page carries. A page
// this long suggests the server has another one.
const PageSize = 20

// CategoryState is what the category grid renders
type CategoryState struct {
	Movies []tmdb.Movie
	// CategoryID is the genre being browsed; nil means the popular listing
	CategoryID  *int
	Page        int
	HasMore     bool
	Loading     bool
	LoadingMore bool
	Error       string
}

// Category drives a grid of movies for one genre. The catalog has no
// server-side genre filter here, so pages of the popular listing are fetched
// and filtered locally; pages may come back sparse or empty.
type Category struct {
	base
	catalog tmdb.Catalog
	state   *Observable[CategoryState]
}

// NewCategory creates an idle category controller; call Load to start
func NewCategory(catalog tmdb.Catalog, ui *Dispatcher, logger zerolog.Logger) *Category {
	return &Category{
		base:    newBase(ui, logger, "category"),
		catalog: catalog,
		state:   NewObservable(CategoryState{Page: 1, HasMore: true}),
	}
}

// State returns the current category state
func (c *Category) State() CategoryState {
	return c.state.Get()
}

// Subscribe streams category state changes
func (c *Category) Subscribe() (<-chan CategoryState, func()) {
	return c.state.Subscribe()
}

// Load fetches the first page for categoryID, or the unfiltered popular
// listing when categoryID is nil. A nil id also forgets any previous category.
func (c *Category) Load(categoryID *int) {
	var id *int
	if categoryID != nil {
		v := *categoryID
		id = &v
	}
	c.intent(func() { c.load(id) })
}

// LoadMore appends the next page, filtered the same way as the first
func (c *Category) LoadMore() {
	c.intent(c.loadMore)
}

// Refresh repeats the last Load
func (c *Category) Refresh() {
	c.intent(func() { c.load(c.state.Get().CategoryID) })
}

func (c *Category) load(categoryID *int) {
	c.state.Update(func(s *CategoryState) {
		s.CategoryID = categoryID
		s.Page = 1
		s.HasMore = true
		s.Loading = true
		s.Error = ""
	})

	fetch(&c.base, func(ctx context.Context) ([]tmdb.Movie, error) {
		return c.catalog.FetchByPage(ctx, 1)
	}, func(raw []tmdb.Movie, err error) {
		c.state.Update(func(s *CategoryState) {
			s.Loading = false
			if err != nil {
				c.logger.Error().Err(err).Msg("Failed to load category")
				s.Error = err.Error()
				return
			}
			s.Movies = filterByGenre(raw, categoryID)
			s.HasMore = len(raw) >= PageSize
		})
	})
}

func (c *Category) loadMore() {
	s := c.state.Get()
	if !s.HasMore || s.LoadingMore {
		return
	}

	page := s.Page + 1
	categoryID := s.CategoryID
	c.state.Update(func(s *CategoryState) {
		s.Page = page
		s.LoadingMore = true
	})

	fetch(&c.base, func(ctx context.Context) ([]tmdb.Movie, error) {
		return c.catalog.FetchByPage(ctx, page)
	}, func(raw []tmdb.Movie, err error) {
		c.state.Update(func(s *CategoryState) {
			s.LoadingMore = false
			if err != nil {
				// the page is not reverted; Refresh starts over
				c.logger.Error().Err(err).Int("page", page).Msg("Failed to load more movies")
				s.Error = err.Error()
				s.HasMore = false
				return
			}
			s.Movies = append(slices.Clip(s.Movies), filterByGenre(raw, categoryID)...)
			s.HasMore = len(raw) >= PageSize
		})
	})
}

// filterByGenre keeps movies tagged with categoryID in their original order.
// A nil id keeps everything.
func filterByGenre(movies []tmdb.Movie, categoryID *int) []tmdb.Movie {
	if categoryID == nil {
		return movies
	}
	out := make([]tmdb.Movie, 0, len(movies))
	for _, m := range movies {
		if m.HasGenre(*categoryID) {
			out = append(out, m)
		}
	}
	return out
}
