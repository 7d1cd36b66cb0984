// Package ui implements an interactive terminal view of a sync using bubbletea's Elm architecture.
//
// The TUI moves through two views:
//  1. [ProgressView] : A spinner, phase label, progress bar and the most recent file actions
//  2. [ResultView] : Counts, bytes copied and a browsable list of every non-skipped file
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the [tasks.Synchronizer]; the final result arrives on a separate
// channel once the progress channel is closed.
//
// Quitting during a sync cancels its context and waits for the synchronizer to stop before exiting.
package ui
