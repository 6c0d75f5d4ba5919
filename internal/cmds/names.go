package cmds

import (
	"unicode"
)

// UserCommandName is the reserved name of the builtin that runs user commands.
// It can never be registered through AddBuiltin.
const UserCommandName = "<USERCMD>"

// ValidBuiltinName reports whether name may be used for a builtin command:
// the empty default command, the "!" shell escape, or a run of letters.
func ValidBuiltinName(name string) bool {
	return name == "" || name == "!" || isLetters(name)
}

// ValidUserName reports whether name may be used for a user command: a run of
// letters, optionally followed by a single '!' or '?'. Names are case-sensitive.
func ValidUserName(name string) bool {
	base, _ := splitUserName(name)
	return isLetters(base)
}

// splitUserName separates the optional trailing modifier of a user command name.
func splitUserName(name string) (base string, mod byte) {
	if n := len(name); n > 0 && (name[n-1] == '!' || name[n-1] == '?') {
		return name[:n-1], name[n-1]
	}
	return name, 0
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// letterPrefixLen returns the byte length of the leading run of letters in s.
func letterPrefixLen(s string) int {
	for i, r := range s {
		if !unicode.IsLetter(r) {
			return i
		}
	}
	return len(s)
}
