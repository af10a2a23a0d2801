package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"path/filepath"
	"sort"
	"strings"
)

// ErrEmptyPlaylist is returned when playback is requested with no tracks
var ErrEmptyPlaylist = errors.New("playlist is empty")

// Track is one playable file
type Track struct {
	Path  string
	Title string
}

// Scan collects .wav files under dir, sorted by path
func Scan(dir string) ([]Track, error) {
	var tracks []Track
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".wav") {
			return nil
		}
		tracks = append(tracks, Track{Path: path, Title: titleFromPath(path)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].Path < tracks[j].Path })
	return tracks, nil
}

// titleFromPath turns "dir/01_slow_drift.wav" into "01 slow drift"
func titleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, "_", " ")
}

// Playlist is an ordered track list with a cursor that wraps at both ends
// Not safe for concurrent use; Player serializes access
type Playlist struct {
	tracks []Track
	index  int
}

// NewPlaylist copies tracks into a playlist positioned on the first track
func NewPlaylist(tracks []Track) *Playlist {
	pl := &Playlist{tracks: make([]Track, len(tracks))}
	copy(pl.tracks, tracks)
	return pl
}

func (pl *Playlist) Len() int   { return len(pl.tracks) }
func (pl *Playlist) Index() int { return pl.index }

// Tracks returns a copy in play order
func (pl *Playlist) Tracks() []Track {
	out := make([]Track, len(pl.tracks))
	copy(out, pl.tracks)
	return out
}

// Current returns the track under the cursor
func (pl *Playlist) Current() (Track, bool) {
	if len(pl.tracks) == 0 {
		return Track{}, false
	}
	return pl.tracks[pl.index], true
}

// Next advances the cursor, wrapping to the first track
func (pl *Playlist) Next() (Track, bool) {
	if len(pl.tracks) == 0 {
		return Track{}, false
	}
	pl.index = (pl.index + 1) % len(pl.tracks)
	return pl.tracks[pl.index], true
}

// Prev moves the cursor back, wrapping to the last track
func (pl *Playlist) Prev() (Track, bool) {
	if len(pl.tracks) == 0 {
		return Track{}, false
	}
	pl.index = (pl.index - 1 + len(pl.tracks)) % len(pl.tracks)
	return pl.tracks[pl.index], true
}

// Shuffle permutes the play order and rewinds the cursor
func (pl *Playlist) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(pl.tracks), func(i, j int) {
		pl.tracks[i], pl.tracks[j] = pl.tracks[j], pl.tracks[i]
	})
	pl.index = 0
}
