package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.yaml", `
logging:
  level: info
  timestamps: true
lines:
  first: 0
  last: 120
commands:
  ll: ls -l
scripts:
  files: [init.lua]
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/config.yaml").Load()
	require.NoError(t, err)

	assert.Equal(t, "info", config["logging"].(map[string]any)["level"])
	assert.Equal(t, true, config["logging"].(map[string]any)["timestamps"])
	assert.Equal(t, int64(120), config["lines"].(map[string]any)["last"])
	assert.Equal(t, "ls -l", config["commands"].(map[string]any)["ll"])
	assert.Equal(t, []any{"init.lua"}, config["scripts"].(map[string]any)["files"])
}

func TestYAMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.yaml", "logging: [unclosed\n")

	_, err := NewYAMLLoaderWithFS(memfs, "/bad.yaml").Load()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/bad.yaml", perr.Path)
}

func TestJSONLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.json", `{
  "logging": {"level": "warn", "format": "json"},
  "lines": {"first": 0, "current": 3, "last": 40},
  "commands": {"ll": "ls -l"},
  "scripts": {"files": ["a.lua", "b.lua"]},
  "ratio": 0.5
}`)

	config, err := NewJSONLoaderWithFS(memfs, "/config.json").Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", config["logging"].(map[string]any)["level"])
	assert.Equal(t, int64(3), config["lines"].(map[string]any)["current"])
	assert.Equal(t, []any{"a.lua", "b.lua"}, config["scripts"].(map[string]any)["files"])
	assert.Equal(t, 0.5, config["ratio"])
}

func TestJSONLoader_Rejects(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.json", `{"logging": `)
	memfs.AddFile("/array.json", `[1, 2]`)

	for _, path := range []string{"/bad.json", "/array.json"} {
		_, err := NewJSONLoaderWithFS(memfs, path).Load()
		var perr *ParseError
		require.ErrorAs(t, err, &perr, path)
		assert.ErrorIs(t, err, errInvalidJSON, path)
	}
}

func TestFormatsAgree(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/c.toml", "[lines]\nlast = 5\n[commands]\nx = \"echo\"\n")
	memfs.AddFile("/c.yaml", "lines:\n  last: 5\ncommands:\n  x: echo\n")
	memfs.AddFile("/c.json", `{"lines": {"last": 5}, "commands": {"x": "echo"}}`)

	var results []map[string]any
	for _, path := range []string{"/c.toml", "/c.yaml", "/c.json"} {
		l, err := ForPath(memfs, path)
		require.NoError(t, err)
		config, err := l.Load()
		require.NoError(t, err)
		results = append(results, config)
	}
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, results[0], results[2])
}
