package torrents

import (
	"strconv"
	"strings"
)

// Result is one torrent offered for a movie
type Result struct {
	Name       string  `json:"name"`
	Seeders    int     `json:"seeders"`
	Leechers   int     `json:"leechers"`
	Size       string  `json:"size"`
	MagnetLink string  `json:"magnetLink"`
	TitleMatch float64 `json:"titleMatch"`
}

// entry is the raw index record; peer counts arrive as strings
type entry struct {
	Title       string `json:"title"`
	Seeders     string `json:"seeders"`
	Leechers    string `json:"leechers"`
	Size        string `json:"size"`
	TorrentLink string `json:"torrentLink"`
}

// parseCount reads a peer count, treating anything unparsable as zero
func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
