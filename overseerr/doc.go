// Package overseerr requests movies through the Overseerr API.
//
// Overseerr is a request management tool for Plex, Jellyfin and Emby. A pick
// can be handed to it instead of straight to Radarr so that the usual approval
// flow applies:
//
//	client, err := overseerr.NewClient(ctx, "https://overseerr.example.com", "your-api-key", logger)
//	if err != nil {
//		return err
//	}
//
//	result, err := client.RequestMovie(ctx, movie.ID)
//
// Movies that are already requested, processing or available are not
// requested again; the result reports Existed instead.
//
// API errors include helper methods for classification:
//
//	var apiErr *overseerr.APIError
//	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
//		// Handle auth failure
//	}
package overseerr
