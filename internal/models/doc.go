// Package models defines the domain entities shared across the runlist pipeline.
//
// All types are plain values created during collection and discarded when the
// run ends:
//   - [Artist] / [Album] / [Track] : the artist → album → track tree walked
//     from the catalog (every track belongs to exactly one album, every album
//     to exactly one artist)
//   - [Playlist] / [TrackRef] : references to playlists already on the user's
//     account, used for exclusion
//   - [FilterCriteria] : the immutable per-run filter and partition settings
package models
