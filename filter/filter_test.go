package filter

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/tmdb"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func testCompiler(opts ...ExprCompilerOption) CachingCompiler {
	return NewExprCompiler(append([]ExprCompilerOption{WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

func heat() Item {
	return NewItem(&tmdb.Movie{
		ID:               949,
		Title:            "Heat",
		Overview:         "Obsessive master thief Neil McCauley...",
		ReleaseDate:      "1995-12-15",
		VoteAverage:      7.9,
		VoteCount:        7000,
		Popularity:       42.5,
		OriginalLanguage: "en",
		GenreIDs:         []int{28, 80, 18, 53},
	}, map[int]string{28: "Action", 80: "Crime", 18: "Drama"})
}

func TestNewItem(t *testing.T) {
	item := heat()

	assert.Equal(t, 1995, item.Year)
	assert.Equal(t, time.Date(1995, 12, 15, 0, 0, 0, 0, time.UTC), item.Released)
	assert.Equal(t, []string{"Action", "Crime", "Drama"}, item.Genres, "unknown ids contribute no name")
	assert.Equal(t, []int{28, 80, 18, 53}, item.GenreIDs)

	detailed := NewItem(&tmdb.Movie{Title: "x", Genres: []tmdb.Genre{{ID: 18, Name: "Drama"}}}, map[int]string{18: "Drama"})
	assert.Equal(t, []string{"Drama"}, detailed.Genres)
	assert.True(t, detailed.Released.IsZero())
	assert.Zero(t, detailed.Year)
}

func TestNewItems(t *testing.T) {
	items := NewItems([]tmdb.Movie{{ID: 1, GenreIDs: []int{18}}, {ID: 2}}, []tmdb.Genre{{ID: 18, Name: "Drama"}})
	require.Len(t, items, 2)
	assert.Equal(t, []string{"Drama"}, items[0].Genres)
	assert.Empty(t, items[1].Genres)
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{name: "valid", expression: `hasGenre("drama")`},
		{name: "empty", expression: "  ", wantErr: true, errContains: "empty expression"},
		{name: "syntax", expression: `hasGenre("unclosed`, wantErr: true},
		{name: "unknown identifier", expression: `Budget > 10`, wantErr: true},
		{name: "not boolean", expression: `Rating + 1`, wantErr: true},
		{name: "complex", expression: `hasGenre("Action") and Year >= 1990 and Rating > 7.0 and Votes > 100`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := testCompiler().Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var cerr *CompilationError
				require.ErrorAs(t, err, &cerr)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.Expression())
		})
	}
}

func TestCompilationErrorPosition(t *testing.T) {
	_, err := testCompiler().Compile(`Rating >`)
	var cerr *CompilationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 1, cerr.Line)
	assert.NotNil(t, cerr.Unwrap())
}

func TestMatch(t *testing.T) {
	tests := []struct {
		expression string
		want       bool
	}{
		{`hasGenre("crime")`, true},
		{`hasGenre("Thriller")`, false},
		{`hasGenreID(53)`, true},
		{`"Drama" in Genres`, true},
		{`Year > 2000`, false},
		{`Rating >= 7.9 and Votes > 5000`, true},
		{`icontains(Title, "HEA")`, true},
		{`Title contains "HEA"`, false},
		{`Title startsWith "He" and Overview endsWith "..."`, true},
		{`lower(Title) == "heat"`, true},
		{`releasedAfter("1995-01-01")`, true},
		{`releasedBefore("1995-01-01")`, false},
		{`releasedAfter("not a date")`, false},
		{`Released < yearsAgo(20)`, true},
		{`Released > parseDate("1995-12-14")`, true},
		{`daysSinceRelease() > 365 * 30`, true},
		{`Language == "en" and not Adult`, true},
		{`Item.Popularity > 40`, true},
	}

	compiler := testCompiler()
	item := heat()
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			require.NoError(t, err)
			got, err := f.Match(item)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchUnreleased(t *testing.T) {
	f, err := testCompiler().Compile(`releasedAfter("1900-01-01") or daysSinceRelease() >= 0`)
	require.NoError(t, err)

	got, err := f.Match(NewItem(&tmdb.Movie{Title: "TBA"}, nil))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestMatchRuntimeError(t *testing.T) {
	f, err := testCompiler().Compile(`Genres[5] == "Drama"`)
	require.NoError(t, err)

	got, err := f.Match(heat())
	assert.False(t, got)
	var eerr *EvaluationError
	require.ErrorAs(t, err, &eerr)
	assert.Equal(t, "Heat", eerr.Title)
}

func TestCustomFunctions(t *testing.T) {
	compiler := testCompiler(WithCustomFunctions(map[string]any{
		"classic": func(year int) bool { return year < 2000 },
	}))
	f, err := compiler.Compile(`classic(Year)`)
	require.NoError(t, err)
	got, err := f.Match(heat())
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCompilerCache(t *testing.T) {
	compiler := testCompiler(WithCache(2))

	a, err := compiler.Compile(`Rating > 5`)
	require.NoError(t, err)
	again, err := compiler.Compile(` Rating > 5 `)
	require.NoError(t, err)
	assert.Same(t, a, again)
	assert.Equal(t, 1, compiler.Size())

	_, err = compiler.Compile(`Rating > 6`)
	require.NoError(t, err)
	_, err = compiler.Compile(`Rating > 7`)
	require.NoError(t, err)
	assert.Equal(t, 2, compiler.Size())

	evicted, err := compiler.Compile(`Rating > 5`)
	require.NoError(t, err)
	assert.NotSame(t, a, evicted)

	compiler.Clear()
	assert.Zero(t, compiler.Size())
	assert.Zero(t, testCompiler().Size(), "no cache configured")
}

func generateItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			ID:     i,
			Title:  fmt.Sprintf("Movie %d", i),
			Year:   2000 + i%25,
			Rating: float64(i%10) + 0.5,
			Genres: []string{"Action", "Drama", "Comedy"}[:(i%3)+1],
		}
	}
	return items
}

func TestSelect(t *testing.T) {
	items := generateItems(1000)
	f, err := testCompiler().Compile(`hasGenre("comedy") and Year > 2020`)
	require.NoError(t, err)

	var want []Item
	for _, item := range items {
		ok, err := f.Match(item)
		require.NoError(t, err)
		if ok {
			want = append(want, item)
		}
	}
	require.NotEmpty(t, want)

	for _, e := range []*ConcurrentEvaluator{
		NewConcurrentEvaluator(WithWorkers(4), WithBatchSize(10)),
		NewConcurrentEvaluator(WithBatchSize(5000)),
	} {
		got, err := e.Select(context.Background(), f, items)
		require.NoError(t, err)
		assert.Equal(t, want, got, "matches keep input order")
	}
}

func TestSelectEmpty(t *testing.T) {
	f, err := testCompiler().Compile(`true`)
	require.NoError(t, err)
	got, err := NewConcurrentEvaluator().Select(context.Background(), f, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSelectCancelled(t *testing.T) {
	f, err := testCompiler().Compile(`true`)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, e := range []*ConcurrentEvaluator{
		NewConcurrentEvaluator(WithWorkers(2), WithBatchSize(10)),
		NewConcurrentEvaluator(WithBatchSize(5000)),
	} {
		_, err := e.Select(ctx, f, generateItems(100))
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestSelectKeepsMatchesOnItemErrors(t *testing.T) {
	f, err := testCompiler().Compile(`Genres[1] == "Drama"`)
	require.NoError(t, err)

	got, err := NewConcurrentEvaluator().Select(context.Background(), f, generateItems(6))
	assert.Equal(t, []int{1, 2, 4, 5}, itemIDs(got))
	require.Error(t, err)
	var eerr *EvaluationError
	assert.True(t, errors.As(err, &eerr))
}

func itemIDs(items []Item) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestManager(t *testing.T) {
	m := NewManager(WithCompiler(testCompiler()), WithEvaluator(NewConcurrentEvaluator(WithBatchSize(1))))

	require.NoError(t, m.RegisterFilters(map[string]string{
		"acclaimed": `Rating >= 8`,
		"recent":    `Year >= 2020`,
	}))
	assert.Equal(t, []string{"acclaimed", "recent"}, m.ListFilters())

	err := m.RegisterFilters(map[string]string{"ok": `true`, "broken": `Rating >`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	_, ok := m.GetFilter("ok")
	assert.False(t, ok, "nothing is registered when one expression fails")

	items := generateItems(20)
	named, err := m.Apply(context.Background(), "acclaimed", items)
	require.NoError(t, err)
	assert.Equal(t, []int{8, 9, 18, 19}, itemIDs(named))

	inline, err := m.Apply(context.Background(), `Rating >= 8`, items)
	require.NoError(t, err)
	assert.Equal(t, named, inline)

	_, err = m.Apply(context.Background(), "", items)
	var cerr *CompilationError
	assert.ErrorAs(t, err, &cerr)
}
