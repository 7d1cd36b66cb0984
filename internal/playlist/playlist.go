package playlist

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/desertthunder/playersync/internal/shared"
)

// Entry is one file named by the playlist.
type Entry struct {
	Source string // path relative to the library root
	Dest   string // path relative to the destination root
}

// Rejection records a playlist line that could not be used.
type Rejection struct {
	Line   int
	Text   string
	Reason string
}

// Playlist is the deduplicated, sorted set of files a playlist names.
type Playlist struct {
	Path     string
	Entries  []Entry
	Rejected []Rejection
	dest     map[string]struct{}
}

// Options controls how entries are resolved.
type Options struct {
	Source    string // library root entries are resolved against
	Normalize bool   // map destination paths through NormalizePath
}

// Load opens and parses the playlist at path.
func Load(path string, opts Options) (*Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, path)
		}
		return nil, fmt.Errorf("failed to open playlist: %w", err)
	}
	defer f.Close()

	pl, err := Parse(f, opts)
	if err != nil {
		return nil, err
	}
	pl.Path = path
	return pl, nil
}

// Parse reads M3U content from r.
func Parse(r io.Reader, opts Options) (*Playlist, error) {
	if opts.Source == "" {
		return nil, fmt.Errorf("%w: source root is required", shared.ErrMissingArgument)
	}

	source, err := filepath.Abs(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source root: %w", err)
	}

	pl := &Playlist{dest: make(map[string]struct{})}
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rel, err := resolve(line, source)
		if err != nil {
			pl.Rejected = append(pl.Rejected, Rejection{Line: lineNo, Text: line, Reason: err.Error()})
			continue
		}
		if _, dup := seen[rel]; dup {
			continue
		}
		seen[rel] = struct{}{}

		dest := rel
		if opts.Normalize {
			dest = NormalizePath(rel)
		}
		pl.Entries = append(pl.Entries, Entry{Source: rel, Dest: dest})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidPlaylist, err)
	}

	sort.Slice(pl.Entries, func(i, j int) bool {
		return pl.Entries[i].Source < pl.Entries[j].Source
	})

	// Two sources may normalize to one destination; the first in sorted order wins.
	kept := pl.Entries[:0]
	for _, e := range pl.Entries {
		if _, clash := pl.dest[e.Dest]; clash {
			pl.Rejected = append(pl.Rejected, Rejection{Text: e.Source, Reason: fmt.Sprintf("destination %q already taken", e.Dest)})
			continue
		}
		pl.dest[e.Dest] = struct{}{}
		kept = append(kept, e)
	}
	pl.Entries = kept

	return pl, nil
}

// Contains reports whether destRel (relative to the destination root) belongs on the device.
func (p *Playlist) Contains(destRel string) bool {
	_, ok := p.dest[filepath.Clean(destRel)]
	return ok
}

// Len returns the number of distinct entries.
func (p *Playlist) Len() int {
	return len(p.Entries)
}

// resolve maps a playlist line to a clean path relative to source.
func resolve(line, source string) (string, error) {
	if strings.HasPrefix(line, "file://") {
		u, err := url.Parse(line)
		if err != nil {
			return "", fmt.Errorf("invalid file URL: %w", err)
		}
		if u.Host != "" && u.Host != "localhost" {
			return "", fmt.Errorf("file URL names remote host %q", u.Host)
		}
		line = u.Path
	}

	var abs string
	if filepath.IsAbs(line) {
		abs = filepath.Clean(line)
	} else {
		abs = filepath.Join(source, line)
	}

	rel, err := filepath.Rel(source, abs)
	if err != nil {
		return "", fmt.Errorf("cannot relate to source root: %w", err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("outside source root")
	}
	return rel, nil
}
