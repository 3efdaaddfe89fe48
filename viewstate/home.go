package viewstate

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/tmdb"
)

const (
	// MaxCatalogPage is the last page the popular listing serves
	MaxCatalogPage = 1000

	trendingLimit = 10
	featuredLimit = 5
)

// HomeState is what the home screen renders
type HomeState struct {
	Trending      []DisplayItem
	RecentlyAdded []DisplayItem
	Featured      []DisplayItem
	Loading       bool
	LoadingMore   bool
	Error         string

	// Page is the last popular-listing page requested for RecentlyAdded
	Page    int
	HasMore bool
}

// Home drives the home screen: trending, recently added (paged) and featured
// rows
type Home struct {
	base
	catalog tmdb.Catalog
	genres  GenreLookup
	state   *Observable[HomeState]
}

// NewHome creates the controller and immediately loads all three rows. When
// genres can prime itself, that happens in the background too.
func NewHome(catalog tmdb.Catalog, genres GenreLookup, ui *Dispatcher, logger zerolog.Logger) *Home {
	h := &Home{
		base:    newBase(ui, logger, "home"),
		catalog: catalog,
		genres:  genres,
		state:   NewObservable(HomeState{Page: 1, HasMore: true}),
	}

	h.intent(func() {
		h.loadTrending()
		h.loadRecentlyAdded()
		h.loadFeatured()
		h.primeGenres()
	})
	return h
}

// State returns the current home state
func (h *Home) State() HomeState {
	return h.state.Get()
}

// Subscribe streams home state changes
func (h *Home) Subscribe() (<-chan HomeState, func()) {
	return h.state.Subscribe()
}

// LoadTrending reloads the trending row
func (h *Home) LoadTrending() {
	h.intent(h.loadTrending)
}

// LoadRecentlyAdded resets pagination and reloads the first page
func (h *Home) LoadRecentlyAdded() {
	h.intent(h.loadRecentlyAdded)
}

// LoadMore appends the next page of recently added movies. It is a no-op
// while a page is loading or once the listing is exhausted.
func (h *Home) LoadMore() {
	h.intent(h.loadMore)
}

// LoadFeatured reloads the featured row
func (h *Home) LoadFeatured() {
	h.intent(h.loadFeatured)
}

// Refresh reloads every row
func (h *Home) Refresh() {
	h.intent(func() {
		h.loadTrending()
		h.loadRecentlyAdded()
		h.loadFeatured()
	})
}

func (h *Home) primeGenres() {
	primer, ok := h.genres.(genrePrimer)
	if !ok {
		return
	}
	fetch(&h.base, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, primer.PrimeIfEmpty(ctx)
	}, func(_ struct{}, err error) {
		if err != nil {
			h.logger.Warn().Err(err).Msg("Failed to prime genre cache")
		}
	})
}

func (h *Home) items(movies []tmdb.Movie, image imageFunc) []DisplayItem {
	return displayItems(movies, h.genres, image)
}

func (h *Home) loadTrending() {
	h.state.Update(func(s *HomeState) {
		s.Loading = true
		s.Error = ""
	})

	fetch(&h.base, func(ctx context.Context) ([]DisplayItem, error) {
		movies, err := h.catalog.FetchTrending(ctx)
		if err != nil {
			return nil, err
		}
		return h.items(head(movies, trendingLimit), posterImage), nil
	}, func(items []DisplayItem, err error) {
		h.state.Update(func(s *HomeState) {
			s.Loading = false
			if err != nil {
				s.Error = err.Error()
				return
			}
			s.Trending = items
		})
	})
}

func (h *Home) loadRecentlyAdded() {
	h.state.Update(func(s *HomeState) {
		s.Page = 1
		s.HasMore = true
		s.LoadingMore = true
	})

	fetch(&h.base, func(ctx context.Context) ([]DisplayItem, error) {
		movies, err := h.catalog.FetchByPage(ctx, 1)
		if err != nil {
			return nil, err
		}
		return h.items(movies, posterImage), nil
	}, func(items []DisplayItem, err error) {
		h.state.Update(func(s *HomeState) {
			s.LoadingMore = false
			if err != nil {
				s.Error = err.Error()
				return
			}
			s.RecentlyAdded = items
		})
	})
}

func (h *Home) loadMore() {
	s := h.state.Get()
	if !s.HasMore || s.LoadingMore {
		return
	}

	page := s.Page + 1
	h.state.Update(func(s *HomeState) {
		s.Page = page
		s.LoadingMore = true
	})

	fetch(&h.base, func(ctx context.Context) ([]DisplayItem, error) {
		movies, err := h.catalog.FetchByPage(ctx, page)
		if err != nil {
			return nil, err
		}
		return h.items(movies, posterImage), nil
	}, func(items []DisplayItem, err error) {
		h.state.Update(func(s *HomeState) {
			s.LoadingMore = false
			if err != nil {
				// retrying requests the same page again
				s.Page--
				s.Error = err.Error()
				return
			}
			s.RecentlyAdded = append(slices.Clip(s.RecentlyAdded), items...)
			if page >= MaxCatalogPage {
				s.HasMore = false
			}
		})
	})
}

func (h *Home) loadFeatured() {
	fetch(&h.base, func(ctx context.Context) ([]DisplayItem, error) {
		movies, err := h.catalog.FetchNowPlaying(ctx)
		if err != nil {
			return nil, err
		}
		return h.items(head(movies, featuredLimit), backdropImage), nil
	}, func(items []DisplayItem, err error) {
		h.state.Update(func(s *HomeState) {
			if err != nil {
				s.Error = err.Error()
				return
			}
			s.Featured = items
		})
	})
}
