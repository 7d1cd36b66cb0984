package tasks

import (
	"fmt"

	"github.com/desertthunder/playersync/internal/shared"
)

// ProgressUpdate represents a progress event during a synchronizer pass.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadPlaylist Phase = iota
	NegativeSync
	PositiveSync
	Finished
)

func (p Phase) String() string {
	switch p {
	case LoadPlaylist:
		return "load_playlist"
	case NegativeSync:
		return "negative_sync"
	case PositiveSync:
		return "positive_sync"
	case Finished:
		return "finished"
	default:
		return ""
	}
}

func loadedPlaylistUpdate(entries int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded playlist (%d files)", entries),
	}
}

func deletingUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   NegativeSync,
		Message: "Deleting unwanted files...",
	}
}

func removedUpdate(step int, fr FileResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   NegativeSync,
		Step:    step,
		Message: fmt.Sprintf("✗ %s", fr.Path),
		Data:    fr,
	}
}

func copyingUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PositiveSync,
		Step:    0,
		Total:   total,
		Message: "Copying files...",
	}
}

func fileUpdate(step, total int, fr FileResult) ProgressUpdate {
	var mark string
	switch fr.Action {
	case ActionCopied:
		mark = "✓"
	case ActionSkipped:
		mark = "="
	default:
		mark = "!"
	}
	return ProgressUpdate{
		Phase:   PositiveSync,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s", step, total, mark, fr.Path),
		Data:    fr,
	}
}

func finishedUpdate(res *SyncResult) ProgressUpdate {
	return ProgressUpdate{
		Phase: Finished,
		Step:  1,
		Total: 1,
		Message: fmt.Sprintf("Done: %d copied (%s), %d skipped, %d deleted, %d failed",
			res.Copied, shared.FormatBytes(res.BytesCopied), res.Skipped, res.Deleted, res.Failed),
		Data: res,
	}
}
