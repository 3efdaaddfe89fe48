package tmdb

import (
	"context"
)

// Catalog defines the interface for TMDB catalog operations
type Catalog interface {
	// FetchTrending retrieves this week's trending movies
	FetchTrending(ctx context.Context) ([]Movie, error)

	// FetchMovieDetails retrieves the full record for a single movie
	FetchMovieDetails(ctx context.Context, id int) (*Movie, error)

	// FetchCast retrieves the cast of a movie
	FetchCast(ctx context.Context, id int) ([]CastMember, error)

	// FetchSimilar retrieves movies similar to the given one
	FetchSimilar(ctx context.Context, id int) ([]Movie, error)

	// FetchReviews retrieves the first page of reviews for a movie
	FetchReviews(ctx context.Context, id int) ([]Review, error)

	// Search retrieves movies matching a free-text query
	Search(ctx context.Context, query string) ([]Movie, error)

	// FetchByPage retrieves one page of the popular listing
	FetchByPage(ctx context.Context, page int) ([]Movie, error)

	// FetchNowPlaying retrieves movies currently in theatres
	FetchNowPlaying(ctx context.Context) ([]Movie, error)

	// FetchGenres retrieves the movie genre list
	FetchGenres(ctx context.Context) ([]Genre, error)

	// FetchTrailers retrieves the videos attached to a movie
	FetchTrailers(ctx context.Context, id int) ([]Trailer, error)
}

// ReviewPager provides paged access to reviews
type ReviewPager interface {
	// FetchReviewsPage fetches a single page of reviews
	FetchReviewsPage(ctx context.Context, id, page int) (*PagedResult[Review], error)
}

var (
	_ Catalog     = (*Client)(nil)
	_ ReviewPager = (*Client)(nil)
)
