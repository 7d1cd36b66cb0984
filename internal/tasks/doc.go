// Package tasks mirrors the files named by a playlist from a music library onto a device directory.
//
// # Core Operations
//
// [Synchronizer.Run] performs two passes:
//
//  1. [Synchronizer.NegativeSync] : Remove stale files from the destination
//     - Walks the destination bottom-up, following linked directories
//     - Deletes every file the playlist does not name
//     - Removes directories left empty, including the destination root
//
//  2. [Synchronizer.PositiveSync] : Copy missing or outdated files
//     - Skips destinations with the same size and a newer or equal mtime
//     - Warns about and skips sources that are not regular files
//     - Records missing sources as failed and keeps going
//
// # Concurrency
//
// Copies run through a bounded worker pool ([Options.Workers]) and an optional
// [golang.org/x/time/rate] limiter ([Options.CopyRate]). Results are recorded in
// playlist order regardless of completion order.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct carries phase, step counters, a message, and the
// [FileResult] or final [SyncResult]. Updates use select with default so a slow
// reader never blocks a copy.
package tasks
