// Package tmdb provides a client for The Movie Database (TMDB) v3 catalog API.
//
// The client translates catalog requests (trending, popular, now playing,
// search, details, credits, similar titles, reviews, videos and the genre
// list) into HTTP GET calls of the form
//
//	{base}/{resource}?api_key={key}[&page=n][&query=q]
//
// and decodes the snake_case JSON bodies into typed records.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tmdb.NewClient(
//		"https://api.themoviedb.org/3",
//		os.Getenv("TMDB_API_KEY"),
//		logger,
//		tmdb.WithTimeout(15*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	movies, err := client.FetchTrending(ctx)
//
// # Images
//
// Records carry relative image paths only. Absolute URLs are derived on demand
// from the image CDN base and a size segment:
//
//   - posters:            {cdn}/t/p/w500{path}
//   - backdrops:          {cdn}/t/p/original{path}
//   - profiles, avatars:  {cdn}/t/p/w185{path}
//
// # Error Handling
//
// Every operation fails with a *NetworkError whose Kind is one of:
//
//   - ErrInvalidRequest: the request URL could not be built
//   - ErrTransport: connectivity failure or a non-200 response
//   - ErrDecodeFailure: the response body did not match the expected shape
//
// Use errors.Is to classify:
//
//	if errors.Is(err, tmdb.ErrTransport) {
//		// show offline banner
//	}
package tmdb
