// Package linerange resolves the line range that may prefix a command line.
//
// The accepted grammar is the usual line-editor one:
//
//	range  := '%' | term [',' [term]]
//	term   := [base] offset*
//	base   := number | '.' | '$' | '\'' mark
//	offset := ('+' | '-') [number]
//
// Numbers are 1-based in the text and 0-based in the resolved Range.
package linerange

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// Errors returned by Parse.
var (
	// ErrInvalidRange indicates malformed range syntax.
	ErrInvalidRange = errors.New("linerange: invalid range")

	// ErrUnknownMark indicates a mark reference that the line source cannot resolve.
	ErrUnknownMark = errors.New("linerange: unknown mark")
)

// Lines describes the line extent a range is resolved against.
type Lines interface {
	// First returns the first addressable line.
	First() int
	// Current returns the line addressed by '.'.
	Current() int
	// Last returns the line addressed by '$'.
	Last() int
	// Mark returns the line of a named mark.
	Mark(name rune) (int, bool)
}

// Static is a fixed Lines implementation.
type Static struct {
	FirstLine   int
	CurrentLine int
	LastLine    int
	Marks       map[rune]int
}

// First implements Lines.
func (s Static) First() int { return s.FirstLine }

// Current implements Lines.
func (s Static) Current() int { return s.CurrentLine }

// Last implements Lines.
func (s Static) Last() int { return s.LastLine }

// Mark implements Lines.
func (s Static) Mark(name rune) (int, bool) {
	line, ok := s.Marks[name]
	return line, ok
}

// Range is a resolved, inclusive line range.
type Range struct {
	// Begin is the first line of the range.
	Begin int
	// End is the last line of the range.
	End int
	// Given reports whether the text contained a range at all.
	// A zero Range with Given unset means "no range", not "line 0".
	Given bool
}

// Parse consumes a leading range from s and returns it together with the
// unconsumed remainder. When s does not start with range syntax the returned
// Range has Given unset and rest equals s.
func Parse(s string, lines Lines) (Range, string, error) {
	if len(s) > 0 && s[0] == '%' {
		return Range{Begin: lines.First(), End: lines.Last(), Given: true}, s[1:], nil
	}

	begin, rest, ok, err := parseTerm(s, lines)
	if err != nil {
		return Range{}, s, err
	}
	if !ok {
		if len(rest) == 0 || rest[0] != ',' {
			return Range{}, s, nil
		}
		// ",N" starts from the current line.
		begin = lines.Current()
	}

	end := begin
	if len(rest) > 0 && rest[0] == ',' {
		var second int
		var found bool
		second, rest, found, err = parseTerm(rest[1:], lines)
		if err != nil {
			return Range{}, s, err
		}
		if found {
			end = second
		}
	}

	begin = clamp(begin, lines)
	end = clamp(end, lines)
	if begin > end {
		begin, end = end, begin
	}
	return Range{Begin: begin, End: end, Given: true}, rest, nil
}

// parseTerm parses a single address. ok is false when s does not start with one.
func parseTerm(s string, lines Lines) (line int, rest string, ok bool, err error) {
	i := 0
	if len(s) > 0 {
		switch c := s[0]; {
		case isDigit(c):
			j := digitsEnd(s, 0)
			n, convErr := strconv.Atoi(s[:j])
			if convErr != nil {
				return 0, s, false, fmt.Errorf("%w: %q", ErrInvalidRange, s[:j])
			}
			line, ok, i = n-1, true, j
		case c == '.':
			line, ok, i = lines.Current(), true, 1
		case c == '$':
			line, ok, i = lines.Last(), true, 1
		case c == '\'':
			if len(s) < 2 {
				return 0, s, false, fmt.Errorf("%w: missing mark name", ErrInvalidRange)
			}
			name, size := utf8.DecodeRuneInString(s[1:])
			markLine, found := lines.Mark(name)
			if !found {
				return 0, s, false, fmt.Errorf("%w: '%c", ErrUnknownMark, name)
			}
			line, ok, i = markLine, true, 1+size
		}
	}

	for i < len(s) && (s[i] == '+' || s[i] == '-') {
		if !ok {
			line, ok = lines.Current(), true
		}
		sign := 1
		if s[i] == '-' {
			sign = -1
		}
		i++
		j := digitsEnd(s, i)
		n := 1
		if j > i {
			v, convErr := strconv.Atoi(s[i:j])
			if convErr != nil {
				return 0, s, false, fmt.Errorf("%w: %q", ErrInvalidRange, s[i:j])
			}
			n = v
		}
		line = addOffset(line, sign, n)
		i = j
	}

	return line, s[i:], ok, nil
}

// addOffset adds sign*n to line, saturating at the int limits so that huge
// offsets still clamp to the nearest end of the extent.
func addOffset(line, sign, n int) int {
	if sign > 0 && line > math.MaxInt-n {
		return math.MaxInt
	}
	if sign < 0 && line < math.MinInt+n {
		return math.MinInt
	}
	return line + sign*n
}

func clamp(line int, lines Lines) int {
	if last := lines.Last(); line > last {
		line = last
	}
	if first := lines.First(); line < first {
		line = first
	}
	return line
}

func digitsEnd(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
