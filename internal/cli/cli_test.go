package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	dir    string
	db     string
	config string
	music  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("SETLIST_STATE_BACKEND", "")
	t.Setenv("SETLIST_REDIS_URL", "")

	dir := t.TempDir()
	env := &testEnv{
		dir:    dir,
		db:     filepath.Join(dir, "state.db"),
		config: filepath.Join(dir, "config.toml"),
		music:  filepath.Join(dir, "Music"),
	}
	album := filepath.Join(env.music, "The Band", "First Album")
	require.NoError(t, os.MkdirAll(album, 0o755))
	for _, name := range []string{"01 - Alpha.ogg", "02 - Bravo.ogg", "03 - Charlie.ogg"} {
		require.NoError(t, os.WriteFile(filepath.Join(album, name), []byte("fake audio"), 0o600))
	}
	require.NoError(t, os.WriteFile(env.config, []byte("library_sources = [\""+filepath.ToSlash(env.music)+"\"]\n"), 0o600))
	return env
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--config", e.config, "--db", e.db, "--log-level", "error"}, args...)
	err := Run(context.Background(), full, &out, &errOut)
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "setlist %s", strings.Join(args, " "))
	return out
}

func TestScan_UsesConfiguredSources(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "scan")
	assert.Contains(t, out, "3 files")
	assert.Contains(t, out, "3 added")

	out = env.mustRun(t, "songs")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Bravo")
	assert.Contains(t, out, "Charlie")
	assert.Contains(t, out, "The Band")
}

func TestSongs_Query(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)

	out := env.mustRun(t, "songs", "--query", "brav", "--field", "title")
	assert.Contains(t, out, "Bravo")
	assert.NotContains(t, out, "Alpha")

	_, err := env.run(t, "songs", "--query", "x", "--field", "mood")
	assert.Error(t, err)
}

func TestState_PersistsAcrossRuns(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)
	env.mustRun(t, "playlist", "create", "Road Trip", "3", "1")

	out := env.mustRun(t, "playlist", "list")
	assert.Contains(t, out, "Road Trip")
	assert.Contains(t, out, "2 songs")

	out = env.mustRun(t, "playlist", "show", "road trip")
	assert.Less(t, strings.Index(out, "Charlie"), strings.Index(out, "Alpha"))

	out = env.mustRun(t, "status")
	assert.Contains(t, out, "songs:       3")
	assert.Contains(t, out, "playlists:   1")
	assert.Contains(t, out, "sqlite")
}

func TestEdit_OverlaysMetadata(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)

	out := env.mustRun(t, "edit", "2", "--title", "Bravissimo", "--genre", "Jazz")
	assert.Contains(t, out, "Bravissimo")

	// edits survive the rescan done on every start
	out = env.mustRun(t, "songs")
	assert.Contains(t, out, "Bravissimo")
	assert.NotContains(t, out, "Bravo")

	env.mustRun(t, "edit", "2", "--clear")
	out = env.mustRun(t, "songs")
	assert.Contains(t, out, "Bravo")
}

func TestEdit_UnknownSong(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)

	_, err := env.run(t, "edit", "99", "--title", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edit song")
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)

	out := env.mustRun(t, "delete", "1")
	assert.Contains(t, out, "Alpha")

	// without --offline the rescan would bring the file back
	out = env.mustRun(t, "--offline", "songs")
	assert.Contains(t, out, "Bravo")
	assert.NotContains(t, out, "Alpha")
}

func TestExportImport(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)
	env.mustRun(t, "edit", "1", "--artist", "Someone Else")
	env.mustRun(t, "playlist", "create", "Mix", "1", "2")

	file := filepath.Join(env.dir, "export.json")
	out := env.mustRun(t, "export", file)
	assert.Contains(t, out, "Exported 3 songs, 1 playlists")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lastKnownDirectories"`)
	assert.Contains(t, string(data), `"file": null`)

	other := newTestEnv(t)
	other.music = env.music
	other.mustRun(t, "scan", env.music)
	out = other.mustRun(t, "import", file)
	assert.Contains(t, out, "1 playlists")

	out = other.mustRun(t, "songs")
	assert.Contains(t, out, "Someone Else")
	out = other.mustRun(t, "playlist", "show", "Mix")
	assert.Contains(t, out, "Alpha")
}

func TestPlaylist_RemoveAndMove(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)
	env.mustRun(t, "playlist", "create", "P", "1", "2", "3")

	env.mustRun(t, "playlist", "move", "P", "3", "1")
	out := env.mustRun(t, "playlist", "show", "P")
	assert.Less(t, strings.Index(out, "Charlie"), strings.Index(out, "Alpha"))

	env.mustRun(t, "playlist", "remove", "P", "1")
	out = env.mustRun(t, "playlist", "show", "P")
	assert.NotContains(t, out, "Charlie")

	_, err := env.run(t, "playlist", "remove", "P", "5")
	assert.Error(t, err)

	env.mustRun(t, "playlist", "rename", "P", "Q")
	env.mustRun(t, "playlist", "delete", "Q")
	out = env.mustRun(t, "playlist", "list")
	assert.Contains(t, out, "No playlists")
}

func TestCollection_Sections(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)
	env.mustRun(t, "playlist", "create", "Warmup", "1", "2")
	env.mustRun(t, "collection", "create", "Gig")
	env.mustRun(t, "collection", "add-section", "Gig", "Opening", "--playlist", "Warmup")
	env.mustRun(t, "collection", "add-section", "Gig", "Later", "--auto-fill")
	env.mustRun(t, "collection", "add-song", "Gig", "Opening", "3")
	env.mustRun(t, "collection", "auto-fill", "Gig", "Later", "--min", "2", "--tags", "calm,slow")

	out := env.mustRun(t, "collection", "show", "Gig")
	assert.Contains(t, out, "Opening")
	assert.Contains(t, out, "3 of 3 songs playable")
	assert.Contains(t, out, "auto-fill")

	out = env.mustRun(t, "collection", "shuffle", "Gig", "Opening")
	assert.Contains(t, out, "Shuffle on")

	out = env.mustRun(t, "preview", "--collection", "Gig")
	assert.Contains(t, out, "Playing from Gig - Opening")

	env.mustRun(t, "collection", "remove-section", "Gig", "Later")
	out = env.mustRun(t, "collection", "list")
	assert.Contains(t, out, "1 section")

	_, err := env.run(t, "collection", "shuffle", "Gig", "Missing")
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)

	out := env.mustRun(t, "preview", "--limit", "1")
	assert.Contains(t, out, "Playing from Library")
	assert.Contains(t, out, "▶ Alpha")
	assert.Contains(t, out, "1. Bravo")
	assert.NotContains(t, out, "Charlie")

	out = env.mustRun(t, "preview", "--row", "2", "--queue", "1")
	assert.Contains(t, out, "▶ Bravo")
	assert.Contains(t, out, "1. Alpha")
	assert.Contains(t, out, "2. Charlie")
}

func TestPreview_ShowsMode(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)

	out := env.mustRun(t, "preview", "--repeat", "playlist", "--shuffle")
	assert.Contains(t, out, "Playing from Library  [R] [S]")

	require.NoError(t, os.WriteFile(env.config, []byte(
		"library_sources = [\""+filepath.ToSlash(env.music)+"\"]\nicons = \"unicode\"\n"), 0o600))
	out = env.mustRun(t, "preview", "--repeat", "song")
	assert.Contains(t, out, "🔂")
}

func TestSongs_Fuzzy(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)

	out := env.mustRun(t, "songs", "--query", "charly", "--fuzzy")
	assert.Contains(t, out, "Charlie")
	assert.NotContains(t, out, "Bravo")
}

func TestPlay_WalksSequence(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)

	out := env.mustRun(t, "play", "--dwell", "1ms")
	assert.Equal(t, 3, strings.Count(out, "▶ "))
	assert.Contains(t, out, "End of sequence")
	assert.Less(t, strings.Index(out, "Alpha"), strings.Index(out, "Charlie"))
}

func TestPlay_CountWithRepeat(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)

	out := env.mustRun(t, "play", "--dwell", "1ms", "--repeat", "song", "--count", "3")
	assert.Equal(t, 3, strings.Count(out, "▶ Alpha"))
}

func TestPlay_SkipsUnreadableFiles(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)
	require.NoError(t, os.Truncate(filepath.Join(env.music, "The Band", "First Album", "02 - Bravo.ogg"), 0))

	out := env.mustRun(t, "play", "--dwell", "1ms")
	assert.Contains(t, out, "! start")
	assert.Contains(t, out, "Charlie")
}

func TestPlay_InvalidTargets(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)

	_, err := env.run(t, "play", "--song", "1", "--row", "2")
	assert.Error(t, err)

	_, err = env.run(t, "play", "--playlist", "nope")
	assert.Error(t, err)

	_, err = env.run(t, "play", "--repeat", "sometimes")
	assert.Error(t, err)

	_, err = env.run(t, "play", "--dwell", "0s")
	assert.Error(t, err)
}

func TestFindSong_ByID(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "scan", env.music)

	a, err := openApp(context.Background(), globalOptions{configPath: env.config, dbPath: env.db, offline: false},
		&bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	songs := a.lib.Songs()
	require.Len(t, songs, 3)

	s, err := a.findSong(songs[1].ID.String())
	require.NoError(t, err)
	assert.Equal(t, songs[1].ID, s.ID)

	s, err = a.findSong(songs[2].ID.Base)
	require.NoError(t, err)
	assert.Equal(t, songs[2].ID, s.ID)

	_, err = a.findSong("0")
	assert.Error(t, err)
}
