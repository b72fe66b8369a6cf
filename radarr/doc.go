// Package radarr hands a selected movie over to a Radarr instance.
//
// It wraps golift.io/starr and only adds movies; a movie already in the
// library is reported and left untouched.
package radarr
