package argsplit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  []string
	}{
		{"empty", "", 2, nil},
		{"blank", "   \t", 2, nil},
		{"single", " file.txt ", 1, []string{"file.txt"}},
		{"last field absorbs", "ls -l  /tmp  ", 1, []string{"ls -l  /tmp"}},
		{"two fields", "name  body with  spaces", 2, []string{"name", "body with  spaces"}},
		{"unlimited", "a b  c", -1, []string{"a", "b", "c"}},
		{"zero max splits everything", "a b", 0, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.input, tt.max))
		})
	}
}

func TestQuoted(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  []string
	}{
		{"empty quoted word", "'' a", 2, []string{"", "a"}},
		{"single quotes", "'my cmd' body", 2, []string{"my cmd", "body"}},
		{"double quotes with escape", `"a \"b\"" c`, 2, []string{`a "b"`, "c"}},
		{"backslash outside quotes", `a\ b c`, -1, []string{"a b", "c"}},
		{"mixed word", `pre'fix'"post"`, -1, []string{"prefixpost"}},
		{"tail kept verbatim", "ll ls -l 'x y'", 2, []string{"ll", "ls -l 'x y'"}},
		{"single word tail unquoted", "x 'echo hi'", 2, []string{"x", "echo hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quoted(tt.input, tt.max)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuotedUnterminated(t *testing.T) {
	_, err := Quoted("'abc def", -1)
	require.ErrorIs(t, err, ErrUnterminatedQuote)

	_, err = Quoted(`"abc`, -1)
	require.ErrorIs(t, err, ErrUnterminatedQuote)
}

func TestSeparated(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		max     int
		want    []string
		wantSep rune
	}{
		{"bang", "!a!b!g", 3, []string{"a", "b", "g"}, '!'},
		{"question mark", "?a?b?g", 3, []string{"a", "b", "g"}, '?'},
		{"colon", ":a:b:g", 3, []string{"a", "b", "g"}, ':'},
		{"trailing separator", "/a/b/", 3, []string{"a", "b"}, '/'},
		{"empty replacement", "/a//", 3, []string{"a", ""}, '/'},
		{"escaped separator", `/a\/b/c/`, 3, []string{"a/b", "c"}, '/'},
		{"other escapes kept", `/\d\+/x/`, 3, []string{`\d\+`, "x"}, '/'},
		{"rest absorbed", "/a/b/g/extra/", 3, []string{"a", "b", "g/extra"}, '/'},
		{"digit separator", "1!3!", 3, []string{"!3!"}, '1'},
		{"two fields exact", "!1!3!", 2, []string{"1", "3"}, '!'},
		{"lone separator", "/", 3, []string{""}, '/'},
		{"unicode separator", "§a§b§", -1, []string{"a", "b"}, '§'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, sep, err := Separated(tt.input, tt.max)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSep, sep)
		})
	}
}

func TestSeparatedNoText(t *testing.T) {
	got, sep, err := Separated("  ", 3)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, sep)
}

func TestSeparatedInvalid(t *testing.T) {
	for _, input := range []string{" /a/b/", "xa", `\a\b`} {
		_, _, err := Separated(input, 3)
		assert.ErrorIs(t, err, ErrInvalidSeparator, input)
	}
}
