package cmds

import (
	"errors"
	"fmt"

	"github.com/dshills/excmd/internal/cmds/argsplit"
	"github.com/dshills/excmd/internal/cmds/linerange"
)

// ErrorCode identifies a class of command-line failure. Codes are negative so
// they never overlap a successful handler result of 0.
type ErrorCode int

// Error codes returned by Execute.
const (
	Ok               ErrorCode = 0
	IncorrectName    ErrorCode = -1
	NoSuchCommand    ErrorCode = -2
	NoRangeAllowed   ErrorCode = -3
	InvalidArgCount  ErrorCode = -4
	AmbiguousUse     ErrorCode = -5
	InvalidRange     ErrorCode = -6
	NoBangAllowed    ErrorCode = -7
	NoQmarkAllowed   ErrorCode = -8
	InvalidSeparator ErrorCode = -9
	InvalidArg       ErrorCode = -10
)

// String returns the message shown to the user for the code.
func (c ErrorCode) String() string {
	switch c {
	case Ok:
		return "ok"
	case IncorrectName:
		return "incorrect command name"
	case NoSuchCommand:
		return "not an editor command"
	case NoRangeAllowed:
		return "no range allowed"
	case InvalidArgCount:
		return "invalid number of arguments"
	case AmbiguousUse:
		return "ambiguous use of user-defined command"
	case InvalidRange:
		return "invalid range"
	case NoBangAllowed:
		return "no ! allowed"
	case NoQmarkAllowed:
		return "no ? allowed"
	case InvalidSeparator:
		return "invalid separator"
	case InvalidArg:
		return "invalid argument"
	default:
		return fmt.Sprintf("error code %d", int(c))
	}
}

// Sentinel errors, one per code. Use errors.Is against these.
var (
	ErrIncorrectName    = errors.New("cmds: incorrect command name")
	ErrNoSuchCommand    = errors.New("cmds: no such command")
	ErrNoRangeAllowed   = errors.New("cmds: no range allowed")
	ErrInvalidArgCount  = errors.New("cmds: invalid number of arguments")
	ErrAmbiguousUse     = errors.New("cmds: ambiguous use of user-defined command")
	ErrInvalidRange     = errors.New("cmds: invalid range")
	ErrNoBangAllowed    = errors.New("cmds: no ! allowed")
	ErrNoQmarkAllowed   = errors.New("cmds: no ? allowed")
	ErrInvalidSeparator = errors.New("cmds: invalid separator")
	ErrInvalidArg       = errors.New("cmds: invalid argument")

	// ErrNameCollision is an ErrIncorrectName for names already taken by a
	// builtin, the reserved sentinel or an overlapping abbreviation.
	ErrNameCollision = fmt.Errorf("%w: name is already in use", ErrIncorrectName)

	// ErrInvalidDescriptor is an ErrIncorrectName for descriptors whose
	// abbreviation, flags or argument bounds are inconsistent.
	ErrInvalidDescriptor = fmt.Errorf("%w: invalid command descriptor", ErrIncorrectName)
)

var codeSentinels = []struct {
	code ErrorCode
	err  error
}{
	{IncorrectName, ErrIncorrectName},
	{NoSuchCommand, ErrNoSuchCommand},
	{NoRangeAllowed, ErrNoRangeAllowed},
	{InvalidArgCount, ErrInvalidArgCount},
	{AmbiguousUse, ErrAmbiguousUse},
	{InvalidRange, ErrInvalidRange},
	{InvalidRange, linerange.ErrInvalidRange},
	{InvalidRange, linerange.ErrUnknownMark},
	{NoBangAllowed, ErrNoBangAllowed},
	{NoQmarkAllowed, ErrNoQmarkAllowed},
	{InvalidSeparator, ErrInvalidSeparator},
	{InvalidSeparator, argsplit.ErrInvalidSeparator},
	{InvalidArg, ErrInvalidArg},
	{InvalidArg, argsplit.ErrUnterminatedQuote},
}

// Error describes a rejected command line.
type Error struct {
	// Code is the failure class.
	Code ErrorCode
	// Input is the command line that was rejected.
	Input string
	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("%s (%v)", e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %q (%v)", e.Code, e.Input, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's code, so errors built from
// package-level causes (linerange, argsplit) still match the cmds sentinels.
func (e *Error) Is(target error) bool {
	for _, s := range codeSentinels {
		if s.code == e.Code && s.err == target {
			return true
		}
	}
	return false
}

func newError(input string, err error) *Error {
	return &Error{Code: Code(err), Input: input, Err: err}
}

// Code maps an error to its ErrorCode. A nil error is Ok; errors that match no
// sentinel are reported as InvalidArg.
func Code(err error) ErrorCode {
	if err == nil {
		return Ok
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	for _, s := range codeSentinels {
		if errors.Is(err, s.err) {
			return s.code
		}
	}
	return InvalidArg
}
