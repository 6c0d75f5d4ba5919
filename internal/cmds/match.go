package cmds

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// match resolves the command name at the start of s and returns the command
// together with the text that follows the name.
//
// Builtins are consulted before user commands. This is what makes a
// custom-separator builtin win over a user command ending in a modifier:
// for "s!a!b!" the token "s" reaches the substitute builtin first and the
// '!' is left for the separator splitter.
func (r *Registry) match(s string) (*Command, string, error) {
	n := letterPrefixLen(s)
	token, rest := s[:n], s[n:]

	if token == "" {
		return r.matchEmpty(s)
	}

	c, err := r.matchBuiltin(token)
	if err != nil || c != nil {
		return c, rest, err
	}

	if rest != "" && (rest[0] == '!' || rest[0] == '?') {
		c, err = r.matchUser(token, rest[0])
		if err != nil {
			return nil, s, err
		}
		if c != nil {
			return c, rest[1:], nil
		}
	}

	c, err = r.matchUser(token, 0)
	if err != nil {
		return nil, s, err
	}
	if c == nil {
		return nil, s, fmt.Errorf("%w: %q", ErrNoSuchCommand, token)
	}
	return c, rest, nil
}

// matchEmpty handles text without a leading name: the "!" builtin or the
// default command bound to a bare range.
func (r *Registry) matchEmpty(s string) (*Command, string, error) {
	if s != "" && s[0] == '!' {
		if c, ok := r.builtins["!"]; ok {
			return c, s[1:], nil
		}
	}

	first, _ := utf8.DecodeRuneInString(s)
	if s == "" || unicode.IsSpace(first) || first == '!' || first == '?' {
		if c, ok := r.builtins[""]; ok {
			return c, s, nil
		}
	}
	return nil, s, fmt.Errorf("%w: %q", ErrNoSuchCommand, s)
}

// matchBuiltin returns the builtin whose abbreviation range covers token. An
// exact name match wins, then the longest abbreviation.
func (r *Registry) matchBuiltin(token string) (*Command, error) {
	var best *Command
	ambiguous := false
	for _, c := range r.builtins {
		if !c.covers(token) {
			continue
		}
		if c.Name == token {
			return c, nil
		}
		switch {
		case best == nil || len(c.Abbr) > len(best.Abbr):
			best, ambiguous = c, false
		case len(c.Abbr) == len(best.Abbr):
			ambiguous = true
		}
	}
	if ambiguous {
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousUse, token)
	}
	return best, nil
}

// matchUser returns the user command whose name is token, or starts with
// token, followed by mod (0 for none). Prefixes must be unique.
func (r *Registry) matchUser(token string, mod byte) (*Command, error) {
	var found *Command
	count := 0
	for name, c := range r.users {
		base, m := splitUserName(name)
		if m != mod || len(base) < len(token) || base[:len(token)] != token {
			continue
		}
		if base == token {
			return c, nil
		}
		found = c
		count++
	}
	if count > 1 {
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousUse, token)
	}
	return found, nil
}
