package plugin

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderPaths(t *testing.T) {
	assert.NotEmpty(t, NewLoader().Paths())
	assert.Equal(t, []string{"/a", "/b"}, NewLoader(WithPaths("/a", "/b")).Paths())
}

func TestLoaderDiscoverEmpty(t *testing.T) {
	l := NewLoader(WithPaths(t.TempDir(), filepath.Join(t.TempDir(), "missing")))

	plugins, err := l.Discover()
	require.NoError(t, err)
	assert.Empty(t, plugins)
}

func TestLoaderDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "wc.lua"), `-- single file`)
	writeFile(t, filepath.Join(dir, "README.md"), `not a plugin`)
	writeFile(t, filepath.Join(dir, "git-tools", ManifestFile), "name = \"git\"\nversion = \"1.0.0\"")
	writeFile(t, filepath.Join(dir, "git-tools", "init.lua"), ``)
	writeFile(t, filepath.Join(dir, "notes", "init.lua"), ``)
	writeFile(t, filepath.Join(dir, "empty", "notes.txt"), ``)
	writeFile(t, filepath.Join(dir, "broken", ManifestFile), `name = "Broken"`)

	l := NewLoader(WithPaths(dir))
	plugins, err := l.Discover()
	require.NoError(t, err)

	names := make([]string, len(plugins))
	for i, p := range plugins {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"broken", "empty", "git", "notes", "wc"}, names)

	broken, ok := l.Get("broken")
	require.True(t, ok)
	assert.Equal(t, StateError, broken.State)
	assert.ErrorIs(t, broken.Error, ErrInvalidName)

	empty, _ := l.Get("empty")
	assert.ErrorIs(t, empty.Error, ErrNoEntryPoint)

	git, _ := l.Get("git")
	assert.Equal(t, StateUnloaded, git.State)
	assert.Equal(t, filepath.Join(dir, "git-tools", "init.lua"), git.Manifest.MainPath())

	notes, _ := l.Get("notes")
	assert.Equal(t, filepath.Join(dir, "notes", "init.lua"), notes.Manifest.MainPath())

	wc, _ := l.Get("wc")
	assert.Equal(t, filepath.Join(dir, "wc.lua"), wc.Manifest.MainPath())
}

func TestLoaderFirstPathWins(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(first, "wc.lua"), ``)
	writeFile(t, filepath.Join(second, "wc.lua"), ``)
	writeFile(t, filepath.Join(second, "other.lua"), ``)

	l := NewLoader(WithPaths(first, second))
	plugins, err := l.Discover()
	require.NoError(t, err)
	require.Len(t, plugins, 2)

	wc, ok := l.Get("wc")
	require.True(t, ok)
	assert.Equal(t, first, wc.Path)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unloaded", StateUnloaded.String())
	assert.Equal(t, "loaded", StateLoaded.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "unknown", State(42).String())
}
