package errs

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const (
	traceSkip     = 3
	tracePrealloc = 50
)

type sFrame struct {
	filename string
	method   string
	line     int
}

type stack []sFrame

func (s stack) String() string {
	var b strings.Builder

	for _, frame := range s {
		fmt.Fprintf(&b, "%s:%d %s\n", frame.filename, frame.line, frame.method)
	}

	return b.String()
}

type errorWithTrace struct {
	error

	trace stack
}

func (e *errorWithTrace) Unwrap() error {
	return e.error
}

// Trace returns the captured call stack of an error produced by NewStack,
// or an empty string for any other error.
func Trace(err error) string {
	var errWT *errorWithTrace
	if errors.As(err, &errWT) {
		return errWT.trace.String()
	}

	return ""
}

// NewStack wraps err with the call stack of the first NewStack call on it.
// Wrapping an already wrapped error returns it unchanged.
func NewStack(err error) error {
	if err == nil {
		return nil
	}

	var errWT *errorWithTrace
	if errors.As(err, &errWT) {
		return err
	}

	return &errorWithTrace{
		error: err,
		trace: stackTrace(traceSkip),
	}
}

func stackTrace(skip int) stack {
	pc := make([]uintptr, tracePrealloc)
	n := runtime.Callers(skip, pc)
	pc = pc[:n]

	frames := runtime.CallersFrames(pc)
	stack := make(stack, 0, n)

	for {
		frame, more := frames.Next()

		stack = append(stack, sFrame{filename: frame.File, method: frame.Function, line: frame.Line})

		if !more {
			break
		}
	}

	return stack
}
