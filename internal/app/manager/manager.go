// Package manager composes the SoundCloud client with the playlist
// selection logic behind single-operation methods.
package manager

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/dkmr/scpm/internal/domain/playlist"
	"github.com/dkmr/scpm/internal/infra/config"
	"github.com/dkmr/scpm/internal/infra/soundcloud"
)

// ErrTrackLimitExceeded indicates a computed track list is larger than the
// configured playlist creation limit.
var ErrTrackLimitExceeded = errors.New("track limit exceeded")

// Default titles for created playlists when the caller supplies none.
const (
	DefaultRandomTitle = "Random Playlist"
	DefaultMergedTitle = "Merged Playlist"
)

// SoundCloudAPI is the upstream capability the manager needs.
type SoundCloudAPI interface {
	Me(ctx context.Context, token string) (*soundcloud.User, error)
	GetPlaylist(ctx context.Context, token string, playlistID int64) (*playlist.Playlist, error)
	CreatePlaylist(ctx context.Context, token, title, sharing string, trackIDs []int64) (*playlist.Playlist, error)
	DeletePlaylist(ctx context.Context, token string, playlistID int64) error
}

// Manager performs playlist operations on behalf of a caller-supplied token.
// It holds no per-request state and is safe for concurrent use.
type Manager struct {
	api SoundCloudAPI
	cfg config.PlaylistsConfig
}

// New creates a new Manager.
func New(api SoundCloudAPI, cfg config.PlaylistsConfig) *Manager {
	return &Manager{
		api: api,
		cfg: cfg,
	}
}

// CheckToken verifies a token by resolving the user it belongs to.
func (m *Manager) CheckToken(ctx context.Context, token string) (*soundcloud.User, error) {
	return m.api.Me(ctx, token)
}

// TrackIDs returns the ordered track IDs of a playlist.
func (m *Manager) TrackIDs(ctx context.Context, token string, playlistID int64) ([]int64, error) {
	p, err := m.api.GetPlaylist(ctx, token, playlistID)
	if err != nil {
		return nil, err
	}
	return p.TrackIDs(), nil
}

// UnplayedTrackIDs fetches the base playlist and every played playlist, then
// returns the base track IDs not present in any played playlist. Playlists
// are fetched sequentially; the first failure aborts the operation.
func (m *Manager) UnplayedTrackIDs(ctx context.Context, token string, baseID int64, playedIDs []int64) ([]int64, error) {
	base, err := m.api.GetPlaylist(ctx, token, baseID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch base playlist %d", baseID)
	}

	played := make([][]int64, 0, len(playedIDs))
	for _, id := range playedIDs {
		p, err := m.api.GetPlaylist(ctx, token, id)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to fetch played playlist %d", id)
		}
		played = append(played, p.TrackIDs())
	}

	unplayed := playlist.Unplayed(base.TrackIDs(), played...)
	zlog.Debug().Msgf("unplayed computation: base=%d played_lists=%d result=%d tracks",
		len(base.Tracks), len(playedIDs), len(unplayed))

	return unplayed, nil
}

// CreateUnplayedPlaylist computes the unplayed track IDs and creates a new
// playlist holding them. An empty title falls back to the configured default.
func (m *Manager) CreateUnplayedPlaylist(ctx context.Context, token string, baseID int64, playedIDs []int64, title string) (*playlist.Playlist, error) {
	unplayed, err := m.UnplayedTrackIDs(ctx, token, baseID, playedIDs)
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = m.cfg.DefaultTitle
	}
	return m.create(ctx, token, title, unplayed)
}

// CreateRandomPlaylist samples count tracks from the source playlist and
// creates a new playlist with them. A non-positive count falls back to the
// configured default; a count above the source size yields the full source
// in random order.
func (m *Manager) CreateRandomPlaylist(ctx context.Context, token string, sourceID int64, count int, title string) (*playlist.Playlist, error) {
	source, err := m.api.GetPlaylist(ctx, token, sourceID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch source playlist %d", sourceID)
	}

	if count <= 0 {
		count = m.cfg.DefaultRandomCount
	}
	selected := playlist.RandomSubset(source.TrackIDs(), count)

	if title == "" {
		title = DefaultRandomTitle
	}
	return m.create(ctx, token, title, selected)
}

// MergePlaylists builds the union of the given playlists' tracks and creates
// a new playlist with it.
func (m *Manager) MergePlaylists(ctx context.Context, token string, playlistIDs []int64, title string) (*playlist.Playlist, error) {
	lists := make([][]int64, 0, len(playlistIDs))
	for _, id := range playlistIDs {
		p, err := m.api.GetPlaylist(ctx, token, id)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to fetch playlist %d", id)
		}
		lists = append(lists, p.TrackIDs())
	}

	merged := playlist.Merge(lists...)

	if title == "" {
		title = DefaultMergedTitle
	}
	return m.create(ctx, token, title, merged)
}

// DeletePlaylist deletes a playlist.
func (m *Manager) DeletePlaylist(ctx context.Context, token string, playlistID int64) error {
	return m.api.DeletePlaylist(ctx, token, playlistID)
}

// create enforces the configured track limit and issues the upstream call.
func (m *Manager) create(ctx context.Context, token, title string, trackIDs []int64) (*playlist.Playlist, error) {
	if len(trackIDs) > m.cfg.TrackLimit {
		return nil, errors.Wrapf(ErrTrackLimitExceeded, "%d tracks (limit: %d)", len(trackIDs), m.cfg.TrackLimit)
	}

	created, err := m.api.CreatePlaylist(ctx, token, title, m.cfg.Visibility, trackIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create playlist")
	}

	zlog.Info().Msgf("created playlist %d: %q with %d tracks", created.ID, created.Title, len(trackIDs))
	return created, nil
}
