// Package tmdb provides a client for the movie catalog API.
//
// The client is a thin, stateless wrapper over four endpoints: the genre list,
// paginated discovery, movie detail and watch providers. Each request carries a
// single fixed timeout and is never retried.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tmdb.NewClient(
//		tmdb.DefaultBaseURL,
//		os.Getenv("TMDB_API_KEY"),
//		logger,
//		tmdb.WithTimeout(10*time.Second),
//		tmdb.WithRegion("BR"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	page, err := client.Discover(ctx, tmdb.Filters{GenreIDs: []int{28}, StartYear: 1990}, 1)
//
// # Error Handling
//
// ListGenres and WatchProviders degrade to an empty list and nil respectively.
// Discover and MovieDetail propagate failures, because an empty discovery page is
// a meaningful answer that must not be confused with a transport error. Non-2xx
// responses are reported as *APIError:
//
//	if tmdb.IsNotFound(err) {
//		// unknown movie id
//	}
package tmdb
