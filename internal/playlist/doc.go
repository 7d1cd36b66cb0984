// Package playlist loads M3U playlists into the set of files that must exist on the player.
//
// Entries are resolved relative to the library root: absolute entries must live under it and
// relative entries follow MPD's convention of paths relative to the music directory. Comment and
// directive lines (#EXTM3U, #EXTINF) are ignored.
//
// With normalization enabled, each entry also carries a destination path made safe for FAT
// filesystems (see [NormalizePath]); the synchronizer compares the device contents against those
// destination paths.
package playlist
