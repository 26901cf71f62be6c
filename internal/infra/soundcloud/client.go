// Package soundcloud provides a client for the SoundCloud API.
package soundcloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/dkmr/scpm/internal/domain/playlist"
	"github.com/dkmr/scpm/internal/domain/track"
)

// Sentinel errors for upstream failures. Callers map these onto their own
// failure responses with errors.Is.
var (
	// ErrInvalidToken indicates the caller-supplied token was rejected upstream.
	ErrInvalidToken = errors.New("invalid or expired soundcloud token")
	// ErrPlaylistNotFound indicates the requested playlist does not exist.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrUpstream indicates any other SoundCloud API failure.
	ErrUpstream = errors.New("soundcloud api error")
)

// DefaultBaseURL is the production SoundCloud API endpoint.
const DefaultBaseURL = "https://api.soundcloud.com"

// Client is a SoundCloud API client. Tokens are supplied per call since
// every request acts on behalf of the caller, not the service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config represents SoundCloud client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// User represents the authenticated SoundCloud user.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PermalinkURL string `json:"permalink_url"`
}

// trackResponse represents a track object in API responses.
type trackResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	DurationMs   int64  `json:"duration"`
	PermalinkURL string `json:"permalink_url"`
	Sharing      string `json:"sharing"`
	Streamable   *bool  `json:"streamable"`
	User         struct {
		Username string `json:"username"`
	} `json:"user"`
}

// playlistResponse represents a playlist object in API responses.
type playlistResponse struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Sharing      string          `json:"sharing"`
	PermalinkURL string          `json:"permalink_url"`
	Tracks       []trackResponse `json:"tracks"`
}

// createPlaylistRequest represents the request body for playlist creation.
type createPlaylistRequest struct {
	Playlist struct {
		Title   string     `json:"title"`
		Sharing string     `json:"sharing"`
		Tracks  []trackRef `json:"tracks"`
	} `json:"playlist"`
}

// trackRef references an existing track by ID.
type trackRef struct {
	ID int64 `json:"id"`
}

// apiError represents an error response from the SoundCloud API.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Errors  []struct {
		ErrorMessage string `json:"error_message"`
	} `json:"errors"`
}

// detail extracts the most specific message available.
func (e *apiError) detail() string {
	if len(e.Errors) > 0 && e.Errors[0].ErrorMessage != "" {
		return e.Errors[0].ErrorMessage
	}
	return e.Message
}

// New creates a new SoundCloud client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Me retrieves the user the token belongs to. Useful as a token check.
// Reference: https://developers.soundcloud.com/docs/api/explorer#/me
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, errors.Wrap(ErrInvalidToken, "token is required")
	}

	body, err := c.do(ctx, token, http.MethodGet, "/me", nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, errors.Wrap(err, "failed to parse user response")
	}

	return &user, nil
}

// GetPlaylist retrieves a playlist with its full track list.
func (c *Client) GetPlaylist(ctx context.Context, token string, playlistID int64) (*playlist.Playlist, error) {
	if token == "" {
		return nil, errors.Wrap(ErrInvalidToken, "token is required")
	}

	path := fmt.Sprintf("/playlists/%d", playlistID)
	body, err := c.do(ctx, token, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var response playlistResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "failed to parse playlist response")
	}

	p := convertPlaylist(&response)
	zlog.Debug().Msgf("fetched playlist %d: %q (%d tracks)", p.ID, p.Title, len(p.Tracks))

	return p, nil
}

// CreatePlaylist creates a new playlist containing the given tracks and
// returns the created playlist as reported by SoundCloud.
func (c *Client) CreatePlaylist(ctx context.Context, token, title, sharing string, trackIDs []int64) (*playlist.Playlist, error) {
	if token == "" {
		return nil, errors.Wrap(ErrInvalidToken, "token is required")
	}
	if title == "" {
		return nil, errors.New("playlist title is required")
	}
	if sharing == "" {
		sharing = "private"
	}

	var reqBody createPlaylistRequest
	reqBody.Playlist.Title = title
	reqBody.Playlist.Sharing = sharing
	reqBody.Playlist.Tracks = make([]trackRef, len(trackIDs))
	for i, id := range trackIDs {
		reqBody.Playlist.Tracks[i] = trackRef{ID: id}
	}

	payload, err := json.Marshal(&reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode playlist request")
	}

	body, err := c.do(ctx, token, http.MethodPost, "/playlists", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var response playlistResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "failed to parse playlist response")
	}

	p := convertPlaylist(&response)
	zlog.Debug().Msgf("created playlist %d: %q (%d tracks)", p.ID, p.Title, len(trackIDs))

	return p, nil
}

// DeletePlaylist deletes a playlist.
func (c *Client) DeletePlaylist(ctx context.Context, token string, playlistID int64) error {
	if token == "" {
		return errors.Wrap(ErrInvalidToken, "token is required")
	}

	path := fmt.Sprintf("/playlists/%d", playlistID)
	if _, err := c.do(ctx, token, http.MethodDelete, path, nil); err != nil {
		return err
	}

	zlog.Debug().Msgf("deleted playlist %d", playlistID)
	return nil
}

// do issues a single authenticated request and returns the response body.
// Non-2xx statuses are mapped onto the package sentinel errors.
func (c *Client) do(ctx context.Context, token, method, path string, reqBody io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "OAuth "+token)
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrUpstream, "failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, mapStatusError(resp.StatusCode, body)
	}

	return body, nil
}

// mapStatusError converts an upstream HTTP status into a sentinel error,
// keeping any detail the API provided.
func mapStatusError(status int, body []byte) error {
	var apiErr apiError
	detail := ""
	if err := json.Unmarshal(body, &apiErr); err == nil {
		detail = apiErr.detail()
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		if detail != "" {
			return errors.Wrapf(ErrInvalidToken, "%s", detail)
		}
		return ErrInvalidToken
	case http.StatusNotFound:
		if detail != "" {
			return errors.Wrapf(ErrPlaylistNotFound, "%s", detail)
		}
		return ErrPlaylistNotFound
	default:
		if detail != "" {
			return errors.Wrapf(ErrUpstream, "status %d: %s", status, detail)
		}
		return errors.Wrapf(ErrUpstream, "status %d", status)
	}
}

// convertPlaylist converts an API playlist response to the domain entity.
func convertPlaylist(response *playlistResponse) *playlist.Playlist {
	tracks := make([]track.Track, 0, len(response.Tracks))
	for _, t := range response.Tracks {
		tracks = append(tracks, track.Track{
			ID:           t.ID,
			Title:        t.Title,
			User:         t.User.Username,
			Duration:     time.Duration(t.DurationMs) * time.Millisecond,
			PermalinkURL: t.PermalinkURL,
			Sharing:      t.Sharing,
			Streamable:   t.Streamable,
		})
	}

	return &playlist.Playlist{
		ID:      response.ID,
		Title:   response.Title,
		Sharing: response.Sharing,
		URL:     response.PermalinkURL,
		Tracks:  tracks,
	}
}
