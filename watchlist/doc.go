// Package watchlist keeps the list of movies saved for later.
//
// The list lives in a single JSON file so every process sharing the directory
// sees the same collection. Reads never fail: a missing, unreadable or corrupt
// file is an empty list, and a failed write leaves the list unchanged.
//
// # Usage
//
//	store := watchlist.NewStore(afero.NewOsFs(), dir, logger)
//	unsubscribe := store.Subscribe(func(e watchlist.Event) {
//	    fmt.Println(e.Type, e.Count)
//	})
//	defer unsubscribe()
//
//	store.Add(movie)
//	go watchlist.NewWatcher(store, time.Second, logger).Run(ctx)
package watchlist
