package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envLoaderWith(vars ...string) *EnvLoader {
	l := NewEnvLoader("")
	l.environ = func() []string { return vars }
	return l
}

func TestEnvLoader_Load(t *testing.T) {
	l := envLoaderWith(
		"EXCMD_LOG_LEVEL=debug",
		"EXCMD_LINES_LAST=250",
		"EXCMD_LOGGING_TIMESTAMPS=yes",
		`EXCMD_SCRIPTS_FILES=["init.lua","more.lua"]`,
		"EXCMD_COMMANDS_MY_LIST=ls -l",
		"EXCMD_EMPTY_VALUE=",
		"EXCMD_NOSECTION=x",
		"HOME=/root",
	)

	config, err := l.Load()
	require.NoError(t, err)

	logging := config["logging"].(map[string]any)
	assert.Equal(t, "debug", logging["level"])
	assert.Equal(t, true, logging["timestamps"])

	assert.Equal(t, int64(250), config["lines"].(map[string]any)["last"])
	assert.Equal(t, []any{"init.lua", "more.lua"}, config["scripts"].(map[string]any)["files"])
	assert.Equal(t, "ls -l", config["commands"].(map[string]any)["myList"])
	assert.Equal(t, "", config["empty"].(map[string]any)["value"])

	assert.NotContains(t, config, "nosection")
	assert.NotContains(t, config, "home")
}

func TestEnvLoader_AddMapping(t *testing.T) {
	l := envLoaderWith("EXCMD_LAST=7")
	l.AddMapping("EXCMD_LAST", "lines.last")

	config, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(7), config["lines"].(map[string]any)["last"])
}

func TestEnvLoader_CustomPrefix(t *testing.T) {
	l := NewEnvLoader("APP_")
	l.environ = func() []string { return []string{"APP_LOG_FORMAT=json", "EXCMD_LOG_LEVEL=debug"} }

	config, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"logging": map[string]any{"format": "json"}}, config)
}

func TestEnvToPath(t *testing.T) {
	l := NewEnvLoader("")
	tests := map[string]string{
		"EXCMD_LOGGING_LEVEL":       "logging.level",
		"EXCMD_LINES_CURRENT":       "lines.current",
		"EXCMD_LOGGING_REPORT_TIME": "logging.reportTime",
		"EXCMD_SOLO":                "",
		"EXCMD__X":                  "",
	}
	for env, want := range tests {
		assert.Equal(t, want, l.envToPath(env), env)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"OFF", false},
		{"1", int64(1)},
		{"0", int64(0)},
		{"-42", int64(-42)},
		{"2.5", 2.5},
		{"1.2.3", "1.2.3"},
		{`{"a":1}`, map[string]any{"a": int64(1)}},
		{"[not json", "[not json"},
		{"ls -l", "ls -l"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseValue(tt.in), tt.in)
	}
}
