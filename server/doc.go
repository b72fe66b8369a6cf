// Package server exposes movie selection and the watchlist as a JSON API for
// the browser UI.
//
// Selection outcomes map onto distinct statuses so the UI can tell the user
// what to do next: 404 with "none_found" means the filters should be
// loosened, 502 with "selection_failed" means the catalog was unreachable and
// the spin can simply be retried.
package server
