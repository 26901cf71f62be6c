// Package main provides a CLI client for the playlist manager API.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
)

var (
	app    = kingpin.New("scpmcli", "SoundCloud playlist manager client")
	server = app.Flag("server", "Server address").Default("http://localhost:8000").String()
	token  = app.Flag("token", "SoundCloud API token").Envar("SOUNDCLOUD_TOKEN").String()

	// check-token command
	checkTokenCmd = app.Command("check-token", "Verify the token")

	// track-ids command
	trackIDsCmd      = app.Command("track-ids", "List track IDs of a playlist")
	trackIDsPlaylist = trackIDsCmd.Arg("playlist-id", "Playlist ID").Required().Int64()

	// unplayed command
	unplayedCmd    = app.Command("unplayed", "Compute unplayed track IDs")
	unplayedBase   = unplayedCmd.Flag("base", "Base playlist ID").Required().Int64()
	unplayedPlayed = unplayedCmd.Flag("played", "Played playlist ID (repeatable)").Int64List()

	// create-unplayed command
	createCmd    = app.Command("create-unplayed", "Create a playlist of unplayed tracks")
	createBase   = createCmd.Flag("base", "Base playlist ID").Required().Int64()
	createPlayed = createCmd.Flag("played", "Played playlist ID (repeatable)").Int64List()
	createTitle  = createCmd.Flag("title", "Playlist title").String()

	// random command
	randomCmd      = app.Command("random", "Create a randomized playlist")
	randomPlaylist = randomCmd.Flag("playlist", "Source playlist ID").Required().Int64()
	randomCount    = randomCmd.Flag("count", "Number of tracks").Int()
	randomTitle    = randomCmd.Flag("title", "Playlist title").String()

	// merge command
	mergeCmd   = app.Command("merge", "Merge playlists into a new one")
	mergeIDs   = mergeCmd.Flag("playlist", "Playlist ID (repeatable, min 2)").Required().Int64List()
	mergeTitle = mergeCmd.Flag("title", "Playlist title").String()

	// delete command
	deleteCmd      = app.Command("delete", "Delete a playlist")
	deletePlaylist = deleteCmd.Arg("playlist-id", "Playlist ID").Required().Int64()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if *token == "" {
		fmt.Println("Error: token is required (--token or SOUNDCLOUD_TOKEN)")
		os.Exit(1)
	}

	switch command {
	case checkTokenCmd.FullCommand():
		call(http.MethodGet, "/check-token", nil)
	case trackIDsCmd.FullCommand():
		call(http.MethodGet, fmt.Sprintf("/playlists/%d/track-ids", *trackIDsPlaylist), nil)
	case unplayedCmd.FullCommand():
		params := url.Values{}
		params.Set("base_playlist_id", strconv.FormatInt(*unplayedBase, 10))
		addIDs(params, "played_playlist_ids", *unplayedPlayed)
		call(http.MethodGet, "/unplayed-track-ids", params)
	case createCmd.FullCommand():
		params := url.Values{}
		params.Set("base_playlist_id", strconv.FormatInt(*createBase, 10))
		addIDs(params, "played_playlist_ids", *createPlayed)
		if *createTitle != "" {
			params.Set("title", *createTitle)
		}
		call(http.MethodPost, "/create-unplayed-tracks", params)
	case randomCmd.FullCommand():
		params := url.Values{}
		params.Set("playlist_id", strconv.FormatInt(*randomPlaylist, 10))
		if *randomCount > 0 {
			params.Set("tracks_count", strconv.Itoa(*randomCount))
		}
		if *randomTitle != "" {
			params.Set("title", *randomTitle)
		}
		call(http.MethodPost, "/generate-random-playlist", params)
	case mergeCmd.FullCommand():
		params := url.Values{}
		addIDs(params, "playlist_ids", *mergeIDs)
		if *mergeTitle != "" {
			params.Set("title", *mergeTitle)
		}
		call(http.MethodPost, "/merge-playlists", params)
	case deleteCmd.FullCommand():
		call(http.MethodDelete, fmt.Sprintf("/playlists/%d", *deletePlaylist), nil)
	}
}

func addIDs(params url.Values, name string, ids []int64) {
	for _, id := range ids {
		params.Add(name, strconv.FormatInt(id, 10))
	}
}

// call issues a request against the server and pretty-prints the JSON result.
func call(method, path string, params url.Values) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("token", *token)

	req, err := http.NewRequest(method, *server+path+"?"+params.Encode(), nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var pretty any
	if err := json.Unmarshal(body, &pretty); err == nil {
		formatted, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Println(string(formatted))
	} else {
		fmt.Println(string(body))
	}

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed with status %d\n", resp.StatusCode)
		os.Exit(1)
	}
}
