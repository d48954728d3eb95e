// package tasks implements the playlist-building pipeline: exclusion
// loading, catalog collection, tempo filtering, partitioning, and
// publishing. Each stage reports progress through a shared update channel
// consumed by the CLI layer.
package tasks
