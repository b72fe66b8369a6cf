// Package tautulli reads Plex watch history from Tautulli so picks can skip
// movies that were already watched.
package tautulli
