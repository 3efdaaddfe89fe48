package filter

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
	now        func() time.Time
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[*exprFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.custom, funcs)
	}
}

// WithClock replaces time.Now for the relative date helpers
func WithClock(now func() time.Time) ExprCompilerOption {
	return func(c *exprCompiler) {
		if now != nil {
			c.now = now
		}
	}
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	now     func() time.Time
	custom  map[string]any
	helpers map[string]any
	cache   *lruCache[*exprFilter]
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		now:    time.Now,
		custom: make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.helpers = createHelperFunctions(c.now)
	maps.Copy(c.helpers, c.custom)
	return c
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Type-check against a zero item so unknown identifiers fail here rather
	// than on every movie
	program, err := expr.Compile(expression,
		expr.Env(c.environment(Item{})),
		expr.AsBool(),
	)
	if err != nil {
		cerr := &CompilationError{
			Expression: expression,
			Reason:     err.Error(),
			Err:        err,
		}
		var ferr *file.Error
		if errors.As(err, &ferr) {
			cerr.Reason = ferr.Message
			cerr.Line = ferr.Line
			cerr.Column = ferr.Column
		}
		return nil, cerr
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helpers,
		now:        c.now,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

func (c *exprCompiler) environment(item Item) map[string]any {
	return buildEnvironment(c.helpers, c.now, item)
}

// Match evaluates the filter against one item
func (f *exprFilter) Match(item Item) (bool, error) {
	result, err := expr.Run(f.program, buildEnvironment(f.helpers, f.now, item))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Title:      item.Title,
			Err:        err,
		}
	}
	// AsBool guarantees the type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the item-independent helpers. expr already
// provides lower, upper, now and the contains/startsWith/endsWith operators.
func createHelperFunctions(now func() time.Time) map[string]any {
	return map[string]any{
		"daysAgo": func(days int) time.Time {
			return now().AddDate(0, 0, -days)
		},
		"monthsAgo": func(months int) time.Time {
			return now().AddDate(0, -months, 0)
		},
		"yearsAgo": func(years int) time.Time {
			return now().AddDate(-years, 0, 0)
		},
		"parseDate": func(s string) time.Time {
			t, _ := time.Parse(time.DateOnly, s)
			return t
		},
		"icontains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
	}
}

// buildEnvironment layers the item fields and item-bound helpers over the
// shared helpers
func buildEnvironment(helpers map[string]any, now func() time.Time, item Item) map[string]any {
	env := make(map[string]any, len(helpers)+16)
	maps.Copy(env, helpers)

	env["Item"] = item
	env["ID"] = item.ID
	env["Title"] = item.Title
	env["Overview"] = item.Overview
	env["Rating"] = item.Rating
	env["Votes"] = item.Votes
	env["Year"] = item.Year
	env["Released"] = item.Released
	env["Genres"] = item.Genres
	env["GenreIDs"] = item.GenreIDs
	env["Popularity"] = item.Popularity
	env["Adult"] = item.Adult
	env["Language"] = item.Language

	env["hasGenre"] = createHasGenreFunc(item.Genres)
	env["hasGenreID"] = func(id int) bool { return slices.Contains(item.GenreIDs, id) }
	env["releasedAfter"] = createReleasedFunc(item.Released, time.Time.After)
	env["releasedBefore"] = createReleasedFunc(item.Released, time.Time.Before)
	env["daysSinceRelease"] = func() int {
		if item.Released.IsZero() {
			return -1
		}
		return int(now().Sub(item.Released).Hours() / 24)
	}

	return env
}

func createHasGenreFunc(genres []string) func(string) bool {
	lowered := make([]string, len(genres))
	for i, g := range genres {
		lowered[i] = strings.ToLower(g)
	}
	return func(name string) bool {
		return slices.Contains(lowered, strings.ToLower(name))
	}
}

// createReleasedFunc compares the release date against an ISO date. Movies
// without a release date never match.
func createReleasedFunc(released time.Time, cmp func(time.Time, time.Time) bool) func(string) bool {
	return func(date string) bool {
		if released.IsZero() {
			return false
		}
		t, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return false
		}
		return cmp(released, t)
	}
}
