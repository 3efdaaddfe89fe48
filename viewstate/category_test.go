package viewstate

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/tmdb"
)

func intPtr(v int) *int { return &v }

// popularPage returns 20 movies where exactly three, at offsets 3, 7 and 9,
// are action (28)
func popularPage(page int) []tmdb.Movie {
	out := movies(page*100, PageSize, 18)
	for i := range out {
		switch out[i].ID % PageSize {
		case 3, 7, 9:
			out[i].GenreIDs = []int{12, 28}
		}
	}
	return out
}

func newTestCategory(t *testing.T, catalog *fakeCatalog) *Category {
	t.Helper()
	return NewCategory(catalog, newTestDispatcher(t), zerolog.Nop())
}

func TestCategoryLoadFiltersLocally(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.byPage = func(page int) ([]tmdb.Movie, error) { return popularPage(page), nil }
	c := newTestCategory(t, catalog)

	c.Load(intPtr(28))
	waitIdle(t, c)

	s := c.State()
	action := 0
	for _, m := range popularPage(1) {
		if m.HasGenre(28) {
			action++
		}
	}
	require.Equal(t, 3, action)
	assert.Equal(t, []int{103, 107, 109}, ids(s.Movies))
	assert.True(t, s.HasMore, "a full raw page implies more")
	assert.False(t, s.Loading)
	require.NotNil(t, s.CategoryID)
	assert.Equal(t, 28, *s.CategoryID)
	assert.Equal(t, []string{"1"}, catalog.callArgs("page"))
}

func TestCategoryLoadNilIsPopular(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.byPage = func(page int) ([]tmdb.Movie, error) { return popularPage(page), nil }
	c := newTestCategory(t, catalog)

	c.Load(intPtr(28))
	waitIdle(t, c)
	c.Load(nil)
	waitIdle(t, c)

	s := c.State()
	assert.Len(t, s.Movies, PageSize)
	assert.Nil(t, s.CategoryID)

	c.LoadMore()
	waitIdle(t, c)
	assert.Len(t, c.State().Movies, 2*PageSize, "the forgotten category no longer filters")
}

func TestCategoryLoadMoreAppendsFiltered(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.byPage = func(page int) ([]tmdb.Movie, error) { return popularPage(page), nil }
	c := newTestCategory(t, catalog)

	c.Load(intPtr(28))
	waitIdle(t, c)
	c.LoadMore()
	waitIdle(t, c)

	s := c.State()
	assert.Equal(t, []int{103, 107, 109, 203, 207, 209}, ids(s.Movies))
	assert.Equal(t, 2, s.Page)
	assert.True(t, s.HasMore)
}

func TestCategoryShortPageEndsPaging(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.byPage = func(page int) ([]tmdb.Movie, error) { return movies(1, 7, 28), nil }
	c := newTestCategory(t, catalog)

	c.Load(intPtr(28))
	waitIdle(t, c)
	require.False(t, c.State().HasMore)

	prev := c.State()
	c.LoadMore()
	waitIdle(t, c)

	assert.Equal(t, 1, catalog.callCount("page"), "no network call when exhausted")
	assert.Equal(t, prev, c.State())
}

func TestCategoryEmptyFilteredPageKeepsPaging(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.byPage = func(page int) ([]tmdb.Movie, error) { return movies(page*100, PageSize, 18), nil }
	c := newTestCategory(t, catalog)

	c.Load(intPtr(28))
	waitIdle(t, c)

	s := c.State()
	assert.Empty(t, s.Movies)
	assert.True(t, s.HasMore)
}

func TestCategoryErrors(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.byPage = func(page int) ([]tmdb.Movie, error) { return nil, errBoom }
	c := newTestCategory(t, catalog)

	c.Load(intPtr(28))
	waitIdle(t, c)
	s := c.State()
	assert.Equal(t, "boom", s.Error)
	assert.False(t, s.Loading)

	catalog.byPage = func(page int) ([]tmdb.Movie, error) { return popularPage(page), nil }
	c.Refresh()
	waitIdle(t, c)
	s = c.State()
	assert.Empty(t, s.Error)
	assert.Len(t, s.Movies, 3)

	catalog.byPage = func(page int) ([]tmdb.Movie, error) { return nil, errBoom }
	c.LoadMore()
	waitIdle(t, c)
	s = c.State()
	assert.Equal(t, "boom", s.Error)
	assert.False(t, s.HasMore)
	assert.False(t, s.LoadingMore)
	assert.Equal(t, 2, s.Page)
	assert.Len(t, s.Movies, 3, "existing movies stay visible")
}

func TestCategoryRefreshRemembersCategory(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.byPage = func(page int) ([]tmdb.Movie, error) { return popularPage(page), nil }
	c := newTestCategory(t, catalog)

	id := 28
	c.Load(&id)
	id = 18 // the controller keeps its own copy
	waitIdle(t, c)

	c.LoadMore()
	waitIdle(t, c)
	c.Refresh()
	waitIdle(t, c)

	s := c.State()
	assert.Equal(t, []int{103, 107, 109}, ids(s.Movies))
	assert.Equal(t, 1, s.Page)
}
