package filter

import (
	"context"
)

// Compiler turns expression text into a reusable filter
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

// CompiledFilter is safe for concurrent use
type CompiledFilter interface {
	Match(item Item) (bool, error)
	Expression() string
}

// CachingCompiler is a Compiler that remembers what it compiled
type CachingCompiler interface {
	Compiler
	Clear()
	Size() int
}

// Selector keeps the items a filter matches, in their original order
type Selector interface {
	Select(ctx context.Context, f CompiledFilter, items []Item) ([]Item, error)
}
