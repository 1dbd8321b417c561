package engine

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

// Kind classifies a failure talking to the engine.
type Kind int

const (
	// SpawnFailed means the engine executable could not be started.
	SpawnFailed Kind = iota + 1
	// NonZeroExit means the engine ran but reported failure.
	NonZeroExit
	// DecodeError means the engine output was not the expected JSON.
	DecodeError
	// MissingData means the engine answered with no record where one was required.
	MissingData
)

func (k Kind) String() string {
	switch k {
	case SpawnFailed:
		return "spawn failed"
	case NonZeroExit:
		return "non-zero exit"
	case DecodeError:
		return "decode error"
	case MissingData:
		return "missing data"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned by every engine invocation and decode.
type Error struct {
	Kind Kind
	Args []string
	// ExitCode is set for NonZeroExit.
	ExitCode int
	// Signal names the signal that killed the engine, if any.
	Signal string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("engine ")
	if len(e.Args) > 0 {
		b.WriteString(strings.Join(e.Args, " "))
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Kind == NonZeroExit {
		if e.Signal != "" {
			fmt.Fprintf(&b, " (signal %s)", e.Signal)
		} else {
			fmt.Fprintf(&b, " (status %d)", e.ExitCode)
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err, or anything it wraps, is an engine Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

func newError(kind Kind, args []string, err error) *Error {
	return &Error{Kind: kind, Args: args, Err: err}
}
