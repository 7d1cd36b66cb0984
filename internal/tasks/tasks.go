package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/playersync/internal/playlist"
	"github.com/desertthunder/playersync/internal/shared"
)

// MaxWorkers bounds the copy worker pool.
const MaxWorkers = 8

// Action is what the synchronizer did (or would do) with one path.
type Action string

const (
	ActionCopied     Action = "copied"
	ActionSkipped    Action = "skipped"
	ActionDeleted    Action = "deleted"
	ActionRemovedDir Action = "removed_dir"
	ActionFailed     Action = "failed"
	ActionNotRegular Action = "not_regular"
)

// FileResult records the outcome for a single destination path.
type FileResult struct {
	Path   string `json:"path"`
	Action Action `json:"action"`
	Bytes  int64  `json:"bytes,omitempty"`
	Error  string `json:"error,omitempty"`
}

// SyncResult contains everything a synchronizer pass did.
type SyncResult struct {
	Source      string       `json:"source"`
	Dest        string       `json:"dest"`
	Playlist    string       `json:"playlist"`
	DryRun      bool         `json:"dry_run"`
	Files       []FileResult `json:"files"`
	Copied      int          `json:"copied"`
	Skipped     int          `json:"skipped"`
	Deleted     int          `json:"deleted"`
	RemovedDirs int          `json:"removed_dirs"`
	Failed      int          `json:"failed"`
	NotRegular  int          `json:"not_regular"`
	BytesCopied int64        `json:"bytes_copied"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
}

func (r *SyncResult) record(fr FileResult) {
	r.Files = append(r.Files, fr)
	switch fr.Action {
	case ActionCopied:
		r.Copied++
		r.BytesCopied += fr.Bytes
	case ActionSkipped:
		r.Skipped++
	case ActionDeleted:
		r.Deleted++
	case ActionRemovedDir:
		r.RemovedDirs++
	case ActionFailed:
		r.Failed++
	case ActionNotRegular:
		r.NotRegular++
	}
}

// Options configures a [Synchronizer].
type Options struct {
	Source   string  // library root
	Dest     string  // destination root on the device
	NoDelete bool    // skip the negative sync
	DryRun   bool    // plan only
	Workers  int     // concurrent copies, clamped to [1, MaxWorkers]
	CopyRate float64 // copies per second; <= 0 is unlimited
}

// Synchronizer mirrors the files a playlist names from a library into a destination directory.
type Synchronizer struct {
	opts    Options
	logger  *log.Logger
	limiter *rate.Limiter
}

// NewSynchronizer creates a [Synchronizer]. A nil logger discards output.
func NewSynchronizer(opts Options, logger *log.Logger) *Synchronizer {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Workers > MaxWorkers {
		opts.Workers = MaxWorkers
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	limit := rate.Inf
	if opts.CopyRate > 0 {
		limit = rate.Limit(opts.CopyRate)
	}

	return &Synchronizer{
		opts:    opts,
		logger:  logger,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (s *Synchronizer) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run performs the negative sync (unless disabled) followed by the positive sync.
//
// The result is returned even when an error is, so callers can report partial work.
// Failed copies yield [shared.ErrSyncIncomplete].
func (s *Synchronizer) Run(ctx context.Context, pl *playlist.Playlist, progress chan<- ProgressUpdate) (*SyncResult, error) {
	info, err := os.Stat(s.opts.Source)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", shared.ErrSourceNotFound, s.opts.Source)
	}

	res := &SyncResult{
		Source:    s.opts.Source,
		Dest:      s.opts.Dest,
		Playlist:  pl.Path,
		DryRun:    s.opts.DryRun,
		StartedAt: time.Now(),
	}

	s.sendProgress(progress, loadedPlaylistUpdate(pl.Len()))
	for _, rej := range pl.Rejected {
		s.logger.Warn("Ignoring playlist entry", "line", rej.Line, "entry", rej.Text, "reason", rej.Reason)
	}

	if !s.opts.NoDelete {
		if err := s.NegativeSync(ctx, pl, res, progress); err != nil {
			res.CompletedAt = time.Now()
			return res, err
		}
	}

	if err := s.PositiveSync(ctx, pl, res, progress); err != nil {
		res.CompletedAt = time.Now()
		return res, err
	}

	res.CompletedAt = time.Now()
	s.sendProgress(progress, finishedUpdate(res))

	if res.Failed > 0 {
		return res, fmt.Errorf("%w: %d of %d files failed", shared.ErrSyncIncomplete, res.Failed, pl.Len())
	}
	return res, nil
}

// NegativeSync walks the destination bottom-up, removing files the playlist does not name
// and directories left empty. The destination root itself is removed when it ends up empty.
func (s *Synchronizer) NegativeSync(ctx context.Context, pl *playlist.Playlist, res *SyncResult, progress chan<- ProgressUpdate) error {
	s.sendProgress(progress, deletingUpdate())

	info, err := os.Stat(s.opts.Dest)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("Destination does not exist yet", "dest", s.opts.Dest)
			return nil
		}
		return fmt.Errorf("failed to stat destination: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: destination %s is not a directory", shared.ErrInvalidArgument, s.opts.Dest)
	}

	w := &negativeWalk{s: s, pl: pl, res: res, progress: progress, visited: make(map[string]struct{})}
	kept, err := w.walk(ctx, s.opts.Dest, "")
	if err != nil {
		return err
	}
	if kept == 0 {
		w.removeDir(s.opts.Dest, ".")
	}
	return nil
}

type negativeWalk struct {
	s        *Synchronizer
	pl       *playlist.Playlist
	res      *SyncResult
	progress chan<- ProgressUpdate
	visited  map[string]struct{}
	step     int
}

// walk processes dir (rel to the destination root) and returns how many entries remain in it.
func (w *negativeWalk) walk(ctx context.Context, dir, rel string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if _, seen := w.visited[resolved]; seen {
		w.s.logger.Warn("Skipping directory link loop", "path", dir)
		return 1, nil
	}
	w.visited[resolved] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	kept := 0
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		entryRel := filepath.Join(rel, entry.Name())

		isLink := entry.Type()&os.ModeSymlink != 0
		isDir := entry.IsDir()
		if isLink {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				isDir = true
			}
		}

		if isDir {
			n, err := w.walk(ctx, path, entryRel)
			if err != nil {
				return 0, err
			}
			// Linked directories are followed but never removed.
			if n == 0 && !isLink {
				w.removeDir(path, entryRel)
				continue
			}
			kept++
			continue
		}

		if w.pl.Contains(entryRel) {
			kept++
			continue
		}
		if !w.removeFile(path, entryRel) {
			kept++
		}
	}
	return kept, nil
}

func (w *negativeWalk) removeFile(path, rel string) bool {
	fr := FileResult{Path: rel, Action: ActionDeleted}
	if !w.s.opts.DryRun {
		if err := os.Remove(path); err != nil {
			w.s.logger.Error("Failed to delete file", "path", path, "error", err)
			fr.Action = ActionFailed
			fr.Error = err.Error()
			w.res.record(fr)
			return false
		}
	}
	w.s.logger.Info("Deleted", "path", rel, "dry_run", w.s.opts.DryRun)
	w.step++
	w.res.record(fr)
	w.s.sendProgress(w.progress, removedUpdate(w.step, fr))
	return true
}

func (w *negativeWalk) removeDir(path, rel string) {
	if !w.s.opts.DryRun {
		if err := os.Remove(path); err != nil {
			w.s.logger.Warn("Failed to remove empty directory", "path", path, "error", err)
			return
		}
	}
	w.s.logger.Debug("Removed empty directory", "path", rel, "dry_run", w.s.opts.DryRun)
	w.step++
	fr := FileResult{Path: rel, Action: ActionRemovedDir}
	w.res.record(fr)
	w.s.sendProgress(w.progress, removedUpdate(w.step, fr))
}

// PositiveSync copies every playlist entry whose destination is missing or stale.
//
// A destination with the same size and an mtime at or after the source's is left alone.
// Results are recorded in playlist order regardless of worker count.
func (s *Synchronizer) PositiveSync(ctx context.Context, pl *playlist.Playlist, res *SyncResult, progress chan<- ProgressUpdate) error {
	total := pl.Len()
	s.sendProgress(progress, copyingUpdate(total))

	results := make([]FileResult, total)
	jobs := make(chan int)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)

	for range s.opts.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fr := s.syncEntry(ctx, pl.Entries[i])
				results[i] = fr

				mu.Lock()
				done++
				step := done
				mu.Unlock()
				s.sendProgress(progress, fileUpdate(step, total, fr))
			}
		}()
	}

	var err error
feed:
	for i := range pl.Entries {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	for _, fr := range results {
		if fr.Action == "" {
			continue
		}
		res.record(fr)
	}
	return err
}

func (s *Synchronizer) syncEntry(ctx context.Context, e playlist.Entry) FileResult {
	src := filepath.Join(s.opts.Source, e.Source)
	dst := filepath.Join(s.opts.Dest, e.Dest)
	fr := FileResult{Path: e.Dest}

	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s", shared.ErrSourceNotFound, src)
		}
		s.logger.Error("Cannot read source file", "path", src, "error", err)
		fr.Action = ActionFailed
		fr.Error = err.Error()
		return fr
	}
	if !info.Mode().IsRegular() {
		s.logger.Warn("Not a regular file, skipping", "path", src)
		fr.Action = ActionNotRegular
		return fr
	}

	if current(info, dst) {
		s.logger.Debug("Up to date", "path", e.Dest)
		fr.Action = ActionSkipped
		return fr
	}

	if s.opts.DryRun {
		s.logger.Info("Would copy", "path", e.Dest, "size", shared.FormatBytes(info.Size()))
		fr.Action = ActionCopied
		fr.Bytes = info.Size()
		return fr
	}

	if err := s.limiter.Wait(ctx); err != nil {
		fr.Action = ActionFailed
		fr.Error = err.Error()
		return fr
	}

	n, err := copyFile(src, dst)
	if err != nil {
		s.logger.Error("Copy failed", "path", e.Dest, "error", err)
		fr.Action = ActionFailed
		fr.Error = err.Error()
		return fr
	}

	s.logger.Info("Copied", "path", e.Dest, "size", shared.FormatBytes(n))
	fr.Action = ActionCopied
	fr.Bytes = n
	return fr
}

// current reports whether dst already holds an up-to-date copy of the file described by src.
func current(src os.FileInfo, dst string) bool {
	info, err := os.Stat(dst)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Size() == src.Size() && !info.ModTime().Before(src.ModTime())
}

// SortedPaths returns the paths in r with the given action, sorted.
func (r *SyncResult) SortedPaths(action Action) []string {
	var paths []string
	for _, fr := range r.Files {
		if fr.Action == action {
			paths = append(paths, fr.Path)
		}
	}
	sort.Strings(paths)
	return paths
}
