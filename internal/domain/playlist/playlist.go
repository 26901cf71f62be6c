// Package playlist provides the Playlist domain entity and pure
// track-ID selection logic.
package playlist

import (
	"math/rand"

	"github.com/dkmr/scpm/internal/domain/track"
)

// Playlist represents a SoundCloud playlist.
type Playlist struct {
	ID      int64         // SoundCloud playlist ID
	Title   string        // Playlist title
	Sharing string        // "public" or "private"
	URL     string        // SoundCloud permalink URL
	Tracks  []track.Track // Tracks in playlist order
}

// TrackIDs returns all track IDs in playlist order.
func (p *Playlist) TrackIDs() []int64 {
	ids := make([]int64, len(p.Tracks))
	for i, t := range p.Tracks {
		ids[i] = t.ID
	}
	return ids
}

// TotalDuration returns the total duration of all tracks in seconds.
func (p *Playlist) TotalDuration() int64 {
	var total int64
	for _, t := range p.Tracks {
		total += int64(t.Duration.Seconds())
	}
	return total
}

// Unplayed returns the track IDs of base that do not occur in any of the
// played lists. The relative order of base is preserved; duplicates in base
// survive unless excluded. IDs that appear only in played lists never show
// up in the result.
func Unplayed(base []int64, played ...[]int64) []int64 {
	excluded := make(map[int64]struct{})
	for _, list := range played {
		for _, id := range list {
			excluded[id] = struct{}{}
		}
	}

	result := make([]int64, 0, len(base))
	for _, id := range base {
		if _, ok := excluded[id]; !ok {
			result = append(result, id)
		}
	}
	return result
}

// RandomSubset returns min(count, len(ids)) track IDs sampled without
// replacement, in random order. Sampling is positional: duplicate IDs at
// distinct positions are drawn independently. The input slice is not
// modified. Randomness comes from the default math/rand source, so repeated
// calls are not reproducible.
func RandomSubset(ids []int64, count int) []int64 {
	if count < 0 {
		count = 0
	}
	if count > len(ids) {
		count = len(ids)
	}

	shuffled := make([]int64, len(ids))
	copy(shuffled, ids)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:count]
}

// Merge returns the union of the given track-ID lists, preserving the order
// of first occurrence and collapsing duplicates.
func Merge(lists ...[]int64) []int64 {
	seen := make(map[int64]struct{})
	var result []int64
	for _, list := range lists {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			result = append(result, id)
		}
	}
	return result
}
