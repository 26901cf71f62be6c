// Package track provides the Track domain entity.
package track

import "time"

// Track represents a SoundCloud track entity.
// Contains only information retrieved from the SoundCloud API.
type Track struct {
	ID           int64         // SoundCloud track ID
	Title        string        // Track title
	User         string        // Uploader username
	Duration     time.Duration // Track duration
	PermalinkURL string        // SoundCloud URL
	Sharing      string        // "public" or "private"
	Streamable   *bool         // Streamable flag (nil if not reported)
}

// IsStreamable checks if the track can be streamed.
// Tracks that do not report the flag are assumed streamable.
func (t *Track) IsStreamable() bool {
	if t.Streamable != nil {
		return *t.Streamable
	}
	return true
}

// IsPublic checks if the track is publicly shared.
func (t *Track) IsPublic() bool {
	return t.Sharing == "public"
}
