package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public TMDB v3 API root
const DefaultBaseURL = "https://api.themoviedb.org/3"

// Client represents a TMDB API client
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client. It does not contact the server; use
// TestConnection for that.
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		userAgent:  o.userAgent,
		httpClient: hc,
		logger:     logger.With().Str("component", "tmdb").Logger(),
	}, nil
}

// doRequest performs an authenticated GET and decodes the body into out
func (c *Client) doRequest(ctx context.Context, op, endpoint string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		if err == nil {
			err = fmt.Errorf("malformed URL %q", c.baseURL+endpoint)
		}
		return newError(ErrInvalidRequest, op, err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return newError(ErrInvalidRequest, op, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Trace().
		Str("op", op).
		Str("endpoint", endpoint).
		Msg("Making TMDB API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newError(ErrTransport, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return newError(ErrTransport, op, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		nerr := &NetworkError{Kind: ErrTransport, Op: op, StatusCode: resp.StatusCode}
		var status statusResponse
		if json.Unmarshal(body, &status) == nil {
			nerr.Message = status.StatusMessage
		}
		c.logger.Debug().
			Str("op", op).
			Int("status", resp.StatusCode).
			Str("message", nerr.Message).
			Msg("TMDB API request failed")
		return nerr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return newError(ErrDecodeFailure, op, err)
	}
	return nil
}

func (c *Client) fetchMovies(ctx context.Context, op, endpoint string, params url.Values) ([]Movie, error) {
	var page PagedResult[Movie]
	if err := c.doRequest(ctx, op, endpoint, params, &page); err != nil {
		return nil, err
	}
	return nonNil(page.Results), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// TestConnection verifies the base URL and API key against the
// configuration endpoint
func (c *Client) TestConnection(ctx context.Context) error {
	var cfg map[string]any
	if err := c.doRequest(ctx, "test connection", "/configuration", nil, &cfg); err != nil {
		return err
	}
	c.logger.Debug().Msg("Successfully connected to TMDB")
	return nil
}

// FetchTrending retrieves this week's trending movies
func (c *Client) FetchTrending(ctx context.Context) ([]Movie, error) {
	return c.fetchMovies(ctx, "fetch trending", "/trending/movie/week", nil)
}

// FetchMovieDetails retrieves the full record for a single movie
func (c *Client) FetchMovieDetails(ctx context.Context, id int) (*Movie, error) {
	var movie Movie
	if err := c.doRequest(ctx, "fetch movie details", fmt.Sprintf("/movie/%d", id), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// FetchCast retrieves the cast list from the credits endpoint
func (c *Client) FetchCast(ctx context.Context, id int) ([]CastMember, error) {
	var credits Credits
	if err := c.doRequest(ctx, "fetch cast", fmt.Sprintf("/movie/%d/credits", id), nil, &credits); err != nil {
		return nil, err
	}
	return nonNil(credits.Cast), nil
}

// FetchSimilar retrieves movies similar to the given one
func (c *Client) FetchSimilar(ctx context.Context, id int) ([]Movie, error) {
	return c.fetchMovies(ctx, "fetch similar", fmt.Sprintf("/movie/%d/similar", id), nil)
}

// FetchReviews retrieves the first page of reviews
func (c *Client) FetchReviews(ctx context.Context, id int) ([]Review, error) {
	page, err := c.FetchReviewsPage(ctx, id, 1)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// FetchReviewsPage retrieves a single page of reviews
func (c *Client) FetchReviewsPage(ctx context.Context, id, page int) (*PagedResult[Review], error) {
	params := url.Values{}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}

	var result PagedResult[Review]
	if err := c.doRequest(ctx, "fetch reviews", fmt.Sprintf("/movie/%d/reviews", id), params, &result); err != nil {
		return nil, err
	}
	result.Results = nonNil(result.Results)
	return &result, nil
}

// Search retrieves movies matching a free-text query. The query is sent
// percent-encoded as given; callers decide what counts as blank.
func (c *Client) Search(ctx context.Context, query string) ([]Movie, error) {
	params := url.Values{}
	params.Set("query", query)
	return c.fetchMovies(ctx, "search", "/search/movie", params)
}

// FetchByPage retrieves one page of the popular listing
func (c *Client) FetchByPage(ctx context.Context, page int) ([]Movie, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	return c.fetchMovies(ctx, "fetch popular", "/movie/popular", params)
}

// FetchNowPlaying retrieves movies currently in theatres
func (c *Client) FetchNowPlaying(ctx context.Context) ([]Movie, error) {
	return c.fetchMovies(ctx, "fetch now playing", "/movie/now_playing", nil)
}

// FetchGenres retrieves the movie genre list
func (c *Client) FetchGenres(ctx context.Context) ([]Genre, error) {
	var resp genresResponse
	if err := c.doRequest(ctx, "fetch genres", "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Genres), nil
}

// FetchTrailers retrieves all videos attached to a movie. Callers filter by
// site and type.
func (c *Client) FetchTrailers(ctx context.Context, id int) ([]Trailer, error) {
	var resp videosResponse
	if err := c.doRequest(ctx, "fetch trailers", fmt.Sprintf("/movie/%d/videos", id), nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Results), nil
}
