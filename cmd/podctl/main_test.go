package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcast-studio/internal/models"
	"podcast-studio/internal/test"
)

func runCLI(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--db-driver", "sqlite", "--database-url", dbPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func requireContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, out)
	}
}

func TestEpisodeLifecycle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "podcast.db")

	out, err := runCLI(t, dbPath, "migrate")
	require.NoError(t, err)
	requireContains(t, out, "Schema version 1")

	out, err = runCLI(t, dbPath, "--json", "episodes", "add", "--title", "Pilot", "--url", "https://cdn.example.com/p.mp3", "--tags", "intro, go")
	require.NoError(t, err)
	var created models.Episode
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, []string{"intro", "go"}, created.Tags)

	out, err = runCLI(t, dbPath, "episodes", "list")
	require.NoError(t, err)
	requireContains(t, out, "Pilot")
	requireContains(t, out, "intro, go")

	out, err = runCLI(t, dbPath, "--json", "episodes", "update", "1", "--title", "Pilot (remastered)")
	require.NoError(t, err)
	var updated models.Episode
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, "Pilot (remastered)", updated.Title)
	assert.Equal(t, created.URL, updated.URL)
	assert.Equal(t, created.Tags, updated.Tags)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	out, err = runCLI(t, dbPath, "stats", "latest")
	require.NoError(t, err)
	requireContains(t, out, "Recently updated")
	requireContains(t, out, "Pilot (remastered)")

	out, err = runCLI(t, dbPath, "episodes", "delete", "1")
	require.NoError(t, err)
	requireContains(t, out, "Deleted episode 1")

	out, err = runCLI(t, dbPath, "episodes", "delete", "1")
	require.NoError(t, err)
	requireContains(t, out, "did not exist")

	_, err = runCLI(t, dbPath, "episodes", "show", "1")
	assert.ErrorContains(t, err, "not found")
}

func TestEpisodeAddValidation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "podcast.db")
	_, err := runCLI(t, dbPath, "episodes", "add", "--title", "no url")
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	_, err = runCLI(t, dbPath, "episodes", "show", "abc")
	assert.ErrorContains(t, err, "invalid episode id")
}

func TestChannelCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "podcast.db")

	_, err := runCLI(t, dbPath, "channel", "show")
	assert.ErrorContains(t, err, "no channel")

	out, err := runCLI(t, dbPath, "channel", "set", "--name", "Late Night", "--author", "Sam", "--author-email", "sam@example.com", "--explicit")
	require.NoError(t, err)
	requireContains(t, out, "Late Night")
	requireContains(t, out, "Sam <sam@example.com>")

	out, err = runCLI(t, dbPath, "--json", "channel", "show")
	require.NoError(t, err)
	var ch models.ChannelProfile
	require.NoError(t, json.Unmarshal([]byte(out), &ch))
	assert.Equal(t, models.DefaultUserName, ch.UserName)
	assert.True(t, ch.IsExplicitContent)
}

func TestImportAndTagStats(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "podcast.db")

	out, err := runCLI(t, dbPath, "import", test.Testdata("seed.yaml"))
	require.NoError(t, err)
	requireContains(t, out, "Imported 2 episodes")

	out, err = runCLI(t, dbPath, "--json", "stats", "tags")
	require.NoError(t, err)
	var counts []models.TagCount
	require.NoError(t, json.Unmarshal([]byte(out), &counts))
	require.NotEmpty(t, counts)
	assert.Equal(t, models.TagCount{Name: "intro", Count: 2}, counts[0])

	out, err = runCLI(t, dbPath, "episodes", "list", "--tag", "databases")
	require.NoError(t, err)
	requireContains(t, out, "Databases at 2am")
	assert.NotContains(t, out, "Pilot")

	out, err = runCLI(t, dbPath, "episodes", "list", "--channel", "1", "--tag", "meta")
	require.NoError(t, err)
	requireContains(t, out, "Pilot")
}
