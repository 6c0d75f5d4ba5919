// Package argsplit splits the argument text of a command line into fields.
//
// Three strategies are provided: Words splits on whitespace, Quoted splits on
// whitespace while honouring shell-like quoting, and Separated splits on a
// user-chosen separator as in s/pattern/replacement/flags.
//
// All strategies take a field limit. The field at the limit absorbs the rest of
// the text so that shell command lines, file paths and trailing flags survive
// intact. A negative limit means no limit.
package argsplit

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Errors returned by the splitters.
var (
	// ErrInvalidSeparator indicates the text after a custom-separator command
	// does not start with a usable separator.
	ErrInvalidSeparator = errors.New("argsplit: invalid separator")

	// ErrUnterminatedQuote indicates a quote without its closing pair.
	ErrUnterminatedQuote = errors.New("argsplit: unterminated quote")
)

// Words splits s on whitespace into at most max fields.
func Words(s string, max int) []string {
	var fields []string
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	for s != "" {
		if max > 0 && len(fields) == max-1 {
			fields = append(fields, strings.TrimRightFunc(s, unicode.IsSpace))
			break
		}
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			fields = append(fields, s)
			break
		}
		fields = append(fields, s[:i])
		s = strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	}
	return fields
}

// Quoted splits s like Words but treats '...' and "..." as parts of a single
// word and removes the quotes. Inside double quotes and outside quotes a
// backslash escapes the next character. The absorbing last field is unquoted
// only when it consists of exactly one word.
func Quoted(s string, max int) ([]string, error) {
	var fields []string
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	for s != "" {
		if max > 0 && len(fields) == max-1 {
			tail := strings.TrimRightFunc(s, unicode.IsSpace)
			if word, n, err := scanWord(tail); err == nil && n == len(tail) {
				tail = word
			}
			fields = append(fields, tail)
			break
		}
		word, n, err := scanWord(s)
		if err != nil {
			return nil, err
		}
		fields = append(fields, word)
		s = strings.TrimLeftFunc(s[n:], unicode.IsSpace)
	}
	return fields, nil
}

// scanWord reads one word from the start of s, returning it without quotes
// along with the number of bytes consumed.
func scanWord(s string) (string, int, error) {
	var b strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\'':
			j := strings.IndexByte(s[i+1:], '\'')
			if j < 0 {
				return "", 0, ErrUnterminatedQuote
			}
			b.WriteString(s[i+1 : i+1+j])
			i += j + 2
		case c == '"':
			i++
			closed := false
			for i < len(s) && !closed {
				switch {
				case s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\'):
					b.WriteByte(s[i+1])
					i += 2
				case s[i] == '"':
					closed = true
					i++
				default:
					b.WriteByte(s[i])
					i++
				}
			}
			if !closed {
				return "", 0, ErrUnterminatedQuote
			}
		case c == '\\' && i+1 < len(s):
			b.WriteByte(s[i+1])
			i += 2
		case isBlank(c):
			return b.String(), i, nil
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), i, nil
}

// Separated splits the text following a custom-separator command. The first
// rune of s is the separator; the rest is split on unescaped occurrences of it
// into at most max fields. An escaped separator becomes a literal one, other
// escapes are kept verbatim so regular expressions survive. A separator that
// ends the text closes the last field rather than starting an empty one.
//
// Text that is empty or blank yields no fields and a zero separator.
func Separated(s string, max int) ([]string, rune, error) {
	if strings.TrimSpace(s) == "" {
		return nil, 0, nil
	}

	sep, size := utf8.DecodeRuneInString(s)
	if sep == utf8.RuneError || sep == '\\' || unicode.IsSpace(sep) || unicode.IsLetter(sep) {
		return nil, 0, ErrInvalidSeparator
	}

	var fields []string
	rest := s[size:]
	for rest != "" {
		absorb := max > 0 && len(fields) == max-1
		var field string
		field, rest = cutField(rest, sep, absorb)
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		// "s/" still names an empty pattern.
		fields = []string{""}
	}
	return fields, sep, nil
}

// cutField reads one field up to an unescaped separator. When absorb is set
// only a separator at the very end of s terminates the field.
func cutField(s string, sep rune, absorb bool) (field, rest string) {
	var b strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '\\' && i+size < len(s) {
			next, nsize := utf8.DecodeRuneInString(s[i+size:])
			if next == sep {
				b.WriteRune(sep)
			} else {
				b.WriteString(s[i : i+size+nsize])
			}
			i += size + nsize
			continue
		}
		if r == sep && (!absorb || i+size == len(s)) {
			return b.String(), s[i+size:]
		}
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String(), ""
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
