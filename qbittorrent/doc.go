// Package qbittorrent sends magnet links for a selected movie to qBittorrent.
//
// This package wraps the autobrr/go-qbittorrent library.
//
// # Usage
//
//	client, err := qbittorrent.NewClient(url, username, password, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = client.AddMagnet(ctx, result.MagnetLink, qbittorrent.AddOptions{Category: "roulette"})
package qbittorrent
