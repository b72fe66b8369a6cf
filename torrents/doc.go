// Package torrents searches a public torrent index for a selected movie.
//
// The index is a secondary, best-effort source: a failed or slow search never
// affects movie selection and is reported as an empty result list.
//
// # Usage
//
//	client := torrents.NewClient(torrents.DefaultBaseURL, logger, torrents.WithLimit(5))
//	results := client.SearchMovie(ctx, "The Matrix", 1999)
//	for _, r := range results {
//	    fmt.Println(r.Name, r.Seeders, r.MagnetLink)
//	}
package torrents
