// Package rest exposes the playlist operations over a JSON HTTP API.
package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"

	"github.com/dkmr/scpm/internal/app/manager"
	"github.com/dkmr/scpm/internal/domain/playlist"
	"github.com/dkmr/scpm/internal/infra/config"
	"github.com/dkmr/scpm/internal/infra/soundcloud"
)

// PlaylistManager is the application capability the handlers call.
type PlaylistManager interface {
	CheckToken(ctx context.Context, token string) (*soundcloud.User, error)
	TrackIDs(ctx context.Context, token string, playlistID int64) ([]int64, error)
	UnplayedTrackIDs(ctx context.Context, token string, baseID int64, playedIDs []int64) ([]int64, error)
	CreateUnplayedPlaylist(ctx context.Context, token string, baseID int64, playedIDs []int64, title string) (*playlist.Playlist, error)
	CreateRandomPlaylist(ctx context.Context, token string, sourceID int64, count int, title string) (*playlist.Playlist, error)
	MergePlaylists(ctx context.Context, token string, playlistIDs []int64, title string) (*playlist.Playlist, error)
	DeletePlaylist(ctx context.Context, token string, playlistID int64) error
}

var _ PlaylistManager = (*manager.Manager)(nil)

// Server holds the HTTP handlers for the playlist API.
type Server struct {
	mgr      PlaylistManager
	messages config.MessagesConfig
}

// NewServer creates a new API server.
func NewServer(mgr PlaylistManager, messages config.MessagesConfig) *Server {
	return &Server{
		mgr:      mgr,
		messages: messages,
	}
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/check-token", s.handleCheckToken)
	r.Get("/playlists/{playlist_id}/track-ids", s.handleTrackIDs)
	r.Get("/unplayed-track-ids", s.handleUnplayedTrackIDs)
	r.Post("/create-unplayed-tracks", s.handleCreateUnplayedTracks)
	r.Post("/generate-random-playlist", s.handleGenerateRandomPlaylist)
	r.Post("/merge-playlists", s.handleMergePlaylists)
	r.Delete("/playlists/{playlist_id}", s.handleDeletePlaylist)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleCheckToken(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}

	user, err := s.mgr.CheckToken(r.Context(), token)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":    true,
		"username": user.Username,
	})
}

func (s *Server) handleTrackIDs(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}
	playlistID, ok := pathID(w, r, "playlist_id")
	if !ok {
		return
	}

	ids, err := s.mgr.TrackIDs(r.Context(), token, playlistID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) handleUnplayedTrackIDs(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}
	baseID, ok := queryID(w, r, "base_playlist_id")
	if !ok {
		return
	}
	playedIDs, ok := queryIDList(w, r, "played_playlist_ids")
	if !ok {
		return
	}

	ids, err := s.mgr.UnplayedTrackIDs(r.Context(), token, baseID, playedIDs)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) handleCreateUnplayedTracks(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}
	baseID, ok := queryID(w, r, "base_playlist_id")
	if !ok {
		return
	}
	playedIDs, ok := queryIDList(w, r, "played_playlist_ids")
	if !ok {
		return
	}
	title := r.URL.Query().Get("title")

	created, err := s.mgr.CreateUnplayedPlaylist(r.Context(), token, baseID, playedIDs, title)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  s.messages.UnplayedCreated,
		"playlist": playlistRef(created),
	})
}

func (s *Server) handleGenerateRandomPlaylist(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}
	sourceID, ok := queryID(w, r, "playlist_id")
	if !ok {
		return
	}

	count := 0
	if raw := r.URL.Query().Get("tracks_count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "tracks_count must be a positive integer")
			return
		}
		count = n
	}
	title := r.URL.Query().Get("title")

	if _, err := s.mgr.CreateRandomPlaylist(r.Context(), token, sourceID, count, title); err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": s.messages.RandomCreated})
}

func (s *Server) handleMergePlaylists(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}
	playlistIDs, ok := queryIDList(w, r, "playlist_ids")
	if !ok {
		return
	}
	if len(playlistIDs) < 2 {
		writeError(w, http.StatusBadRequest, "playlist_ids must contain at least two playlists")
		return
	}
	title := r.URL.Query().Get("title")

	created, err := s.mgr.MergePlaylists(r.Context(), token, playlistIDs, title)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  s.messages.MergedCreated,
		"playlist": playlistRef(created),
	})
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}
	playlistID, ok := pathID(w, r, "playlist_id")
	if !ok {
		return
	}

	if err := s.mgr.DeletePlaylist(r.Context(), token, playlistID); err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Playlist " + strconv.FormatInt(playlistID, 10) + " deleted",
	})
}

// playlistRef shapes the created-playlist reference in responses.
func playlistRef(p *playlist.Playlist) map[string]any {
	return map[string]any{
		"id":    p.ID,
		"title": p.Title,
		"url":   p.URL,
	}
}

// requireToken extracts the mandatory token query parameter.
func requireToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return "", false
	}
	return token, true
}

// pathID parses a numeric chi path parameter.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return id, true
}

// queryID parses a mandatory numeric query parameter.
func queryID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		writeError(w, http.StatusBadRequest, name+" is required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return id, true
}

// queryIDList parses a repeatable numeric query parameter. Both repeated
// params (?x=1&x=2) and comma-separated lists (?x=1,2) are accepted.
// An absent parameter yields an empty list.
func queryIDList(w http.ResponseWriter, r *http.Request, name string) ([]int64, bool) {
	var ids []int64
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, name+" must contain integers")
				return nil, false
			}
			ids = append(ids, id)
		}
	}
	return ids, true
}

// writeUpstreamError maps manager/upstream failures onto HTTP statuses.
func writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, soundcloud.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, soundcloud.ErrPlaylistNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, manager.ErrTrackLimitExceeded):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, soundcloud.ErrUpstream):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
