package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			config: Config{
				Server: ServerConfig{Addr: ":8000"},
				SoundCloud: SoundCloudConfig{
					BaseURL:    "https://api.soundcloud.com",
					TimeoutSec: 10,
				},
				Playlists: PlaylistsConfig{
					DefaultTitle:       "Unplayed Tracks",
					DefaultRandomCount: 30,
					TrackLimit:         500,
					Visibility:         "private",
				},
			},
			wantErr: false,
		},
		{
			name: "invalid base url",
			config: Config{
				SoundCloud: SoundCloudConfig{
					BaseURL:    "not a url",
					TimeoutSec: 10,
				},
				Playlists: PlaylistsConfig{
					DefaultRandomCount: 30,
					TrackLimit:         500,
					Visibility:         "private",
				},
			},
			wantErr: true,
			errMsg:  "BaseURL",
		},
		{
			name: "timeout out of range",
			config: Config{
				SoundCloud: SoundCloudConfig{
					BaseURL:    "https://api.soundcloud.com",
					TimeoutSec: 600,
				},
				Playlists: PlaylistsConfig{
					DefaultRandomCount: 30,
					TrackLimit:         500,
					Visibility:         "private",
				},
			},
			wantErr: true,
			errMsg:  "TimeoutSec",
		},
		{
			name: "track limit above upstream maximum",
			config: Config{
				SoundCloud: SoundCloudConfig{
					BaseURL:    "https://api.soundcloud.com",
					TimeoutSec: 10,
				},
				Playlists: PlaylistsConfig{
					DefaultRandomCount: 30,
					TrackLimit:         1000,
					Visibility:         "private",
				},
			},
			wantErr: true,
			errMsg:  "TrackLimit",
		},
		{
			name: "invalid visibility",
			config: Config{
				SoundCloud: SoundCloudConfig{
					BaseURL:    "https://api.soundcloud.com",
					TimeoutSec: 10,
				},
				Playlists: PlaylistsConfig{
					DefaultRandomCount: 30,
					TrackLimit:         500,
					Visibility:         "friends-only",
				},
			},
			wantErr: true,
			errMsg:  "Visibility",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.wantErr {
				require.Error(t, err, "expected validation to fail")
				assert.Contains(t, err.Error(), tt.errMsg,
					"error message should mention the problematic field")
			} else {
				assert.NoError(t, err, "expected validation to pass")
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "https://api.soundcloud.com", cfg.SoundCloud.BaseURL)
	assert.Equal(t, 10, cfg.SoundCloud.TimeoutSec)
	assert.Equal(t, "Unplayed Tracks", cfg.Playlists.DefaultTitle)
	assert.Equal(t, 30, cfg.Playlists.DefaultRandomCount)
	assert.Equal(t, 500, cfg.Playlists.TrackLimit)
	assert.Equal(t, "private", cfg.Playlists.Visibility)
	assert.NotEmpty(t, cfg.Messages.UnplayedCreated)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Addr)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	content := `
server:
  addr: ":9000"
playlists:
  default_title: "Fresh Tracks"
  default_random_count: 15
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "Fresh Tracks", cfg.Playlists.DefaultTitle)
	assert.Equal(t, 15, cfg.Playlists.DefaultRandomCount)
	// Untouched fields keep defaults.
	assert.Equal(t, "https://api.soundcloud.com", cfg.SoundCloud.BaseURL)
	assert.Equal(t, 500, cfg.Playlists.TrackLimit)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":7777")
	t.Setenv("SOUNDCLOUD_BASE_URL", "http://localhost:9090")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:9090", cfg.SoundCloud.BaseURL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
