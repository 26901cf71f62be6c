package soundcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "OAuth test_token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": 42, "username": "dj_test", "permalink_url": "https://soundcloud.com/dj_test"}`)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	user, err := client.Me(context.Background(), "test_token")
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "dj_test", user.Username)
}

func TestMe_EmptyToken(t *testing.T) {
	client := New(Config{})

	_, err := client.Me(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGetPlaylist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/playlists/123", r.URL.Path)
		assert.Equal(t, "OAuth test_token", r.Header.Get("Authorization"))

		response := `{
			"id": 123,
			"title": "Morning Mix",
			"sharing": "private",
			"permalink_url": "https://soundcloud.com/dj_test/sets/morning-mix",
			"tracks": [
				{"id": 11, "title": "First", "duration": 180000, "user": {"username": "artist_a"}},
				{"id": 22, "title": "Second", "duration": 240000, "user": {"username": "artist_b"}}
			]
		}`
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, response)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	p, err := client.GetPlaylist(context.Background(), "test_token", 123)
	require.NoError(t, err)
	assert.Equal(t, int64(123), p.ID)
	assert.Equal(t, "Morning Mix", p.Title)
	assert.Equal(t, []int64{11, 22}, p.TrackIDs())
	assert.Equal(t, "artist_a", p.Tracks[0].User)
	assert.Equal(t, int64(420), p.TotalDuration())
}

func TestGetPlaylist_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code": 404, "message": "404 - Not Found"}`)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	_, err := client.GetPlaylist(context.Background(), "test_token", 999)
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
}

func TestGetPlaylist_InvalidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errors": [{"error_message": "invalid token"}]}`)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	_, err := client.GetPlaylist(context.Background(), "bad_token", 123)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestCreatePlaylist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/playlists", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody createPlaylistRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "Unplayed Tracks", reqBody.Playlist.Title)
		assert.Equal(t, "private", reqBody.Playlist.Sharing)
		assert.Equal(t, []trackRef{{ID: 11}, {ID: 33}}, reqBody.Playlist.Tracks)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 555, "title": "Unplayed Tracks", "sharing": "private", "permalink_url": "https://soundcloud.com/dj_test/sets/unplayed-tracks"}`)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	p, err := client.CreatePlaylist(context.Background(), "test_token", "Unplayed Tracks", "private", []int64{11, 33})
	require.NoError(t, err)
	assert.Equal(t, int64(555), p.ID)
	assert.Equal(t, "https://soundcloud.com/dj_test/sets/unplayed-tracks", p.URL)
}

func TestCreatePlaylist_MissingTitle(t *testing.T) {
	client := New(Config{})

	_, err := client.CreatePlaylist(context.Background(), "test_token", "", "private", []int64{1})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUpstream)
}

func TestDeletePlaylist(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/playlists/123", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	err := client.DeletePlaylist(context.Background(), "test_token", 123)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestDeletePlaylist_InvalidToken(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"code": 401, "message": "unauthorized"}`)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	err := client.DeletePlaylist(context.Background(), "expired", 123)
	assert.ErrorIs(t, err, ErrInvalidToken)
	// No retry on upstream rejection.
	assert.Equal(t, 1, calls)
}

func TestDo_UpstreamServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"code": 500, "message": "internal error"}`)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	_, err := client.GetPlaylist(context.Background(), "test_token", 123)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "500")
}

func TestDo_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := New(Config{BaseURL: server.URL})

	_, err := client.GetPlaylist(context.Background(), "test_token", 123)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.False(t, errors.Is(err, ErrInvalidToken))
}
