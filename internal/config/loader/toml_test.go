package loader

import (
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[logging]
level = "debug"

[lines]
first = 0
last = 99

[commands]
ll = "ls -l"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	require.NoError(t, err)

	logging := config["logging"].(map[string]any)
	assert.Equal(t, "debug", logging["level"])

	lines := config["lines"].(map[string]any)
	assert.Equal(t, int64(99), lines["last"])

	commands := config["commands"].(map[string]any)
	assert.Equal(t, "ls -l", commands["ll"])
}

func TestTOMLLoader_MissingFile(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/nope.toml").Load()
	assert.NoError(t, err)
	assert.Nil(t, config)
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[logging]\nlevel = \n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/bad.toml", perr.Path)
	assert.Positive(t, perr.Line)
	assert.Contains(t, err.Error(), "/bad.toml")
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	l := NewTOMLLoader("")
	config, err := l.LoadFromReader(strings.NewReader(`[commands]
x = "echo"`))
	require.NoError(t, err)
	assert.Equal(t, "echo", config["commands"].(map[string]any)["x"])
}

func TestTOMLLoader_LoadWithIncludes(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/cfg/main.toml", `
include = ["base.toml"]

[commands]
ll = "ls -la"
`)
	memfs.AddFile("/cfg/base.toml", `
[logging]
level = "warn"

[commands]
ll = "ls -l"
la = "ls -a"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/cfg/main.toml").LoadWithIncludes("/cfg/main.toml", 3)
	require.NoError(t, err)

	assert.NotContains(t, config, IncludeKey)
	commands := config["commands"].(map[string]any)
	assert.Equal(t, "ls -la", commands["ll"], "including file wins")
	assert.Equal(t, "ls -a", commands["la"])
	assert.Equal(t, "warn", config["logging"].(map[string]any)["level"])
}

func TestTOMLLoader_IncludeCycle(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `include = "b.toml"`)
	memfs.AddFile("/b.toml", `include = "a.toml"`)

	_, err := NewTOMLLoaderWithFS(memfs, "/a.toml").LoadWithIncludes("/a.toml", 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include depth exceeded")
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want any
	}{
		{"c.toml", &TOMLLoader{}},
		{"c.yaml", &YAMLLoader{}},
		{"c.YML", &YAMLLoader{}},
		{"c.json", &JSONLoader{}},
	}
	for _, tt := range tests {
		l, err := ForPath(NewMemFS(), tt.path)
		require.NoError(t, err, tt.path)
		assert.IsType(t, tt.want, l, tt.path)
	}

	_, err := ForPath(nil, "c.ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"logging":  map[string]any{"level": "info", "prefix": "ex"},
		"commands": map[string]any{"ll": "ls -l"},
	}
	src := map[string]any{
		"logging": map[string]any{"level": "debug"},
		"lines":   map[string]any{"last": int64(10)},
	}

	got := DeepMerge(dst, src)
	assert.Equal(t, "debug", got["logging"].(map[string]any)["level"])
	assert.Equal(t, "ex", got["logging"].(map[string]any)["prefix"])
	assert.Equal(t, int64(10), got["lines"].(map[string]any)["last"])
	assert.Equal(t, "ls -l", got["commands"].(map[string]any)["ll"])

	assert.Equal(t, src, DeepMerge(nil, src))
}

func TestClone(t *testing.T) {
	src := map[string]any{
		"scripts": map[string]any{"files": []any{"a.lua", map[string]any{"k": "v"}}},
	}
	dst := Clone(src)
	assert.Equal(t, src, dst)

	dst["scripts"].(map[string]any)["files"].([]any)[0] = "b.lua"
	assert.Equal(t, "a.lua", src["scripts"].(map[string]any)["files"].([]any)[0])
	assert.Nil(t, Clone(nil))
}
