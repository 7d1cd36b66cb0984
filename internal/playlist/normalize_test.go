package playlist

import (
	"path/filepath"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tt := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain path unchanged", in: "Artist/Album/01 Song.flac", want: "Artist/Album/01 Song.flac"},
		{name: "reserved characters", in: `Who?/What: "Now" <live>|*.mp3`, want: "Who_/What_ _Now_ _live___.mp3"},
		{name: "trailing dots and spaces", in: "Album.../Track .mp3", want: "Album/Track .mp3"},
		{name: "component reduced to nothing", in: "../x.mp3", want: "_/x.mp3"},
		{name: "control characters", in: "a\tb.mp3", want: "a_b.mp3"},
		{name: "decomposed unicode is composed", in: "Beyonce\u0301/track.mp3", want: "Beyonc\u00e9/track.mp3"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizePath(tc.in); got != filepath.FromSlash(tc.want) {
				t.Errorf("NormalizePath(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
