package lilac

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// ErrorHandler receives a fatal error. The contract (spec §4.I, §7)
// requires it not to return: it must terminate the process or unwind
// to the caller (e.g. via panic). The engine does not promise to be
// reusable after a fatal error regardless of what the handler does.
type ErrorHandler func(error)

// WarningHandler receives a non-fatal diagnostic and is expected to
// return so the engine can proceed.
type WarningHandler func(error)

// defaultErrorHandler prints a diagnostic with a source-line pointer
// (via github.com/pkg/errors' stack-trace formatting) and exits the
// process with non-success status.
func defaultErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "lilac: fatal: %+v\n", err)
	os.Exit(1)
}

// defaultWarningHandler prints a diagnostic and continues.
func defaultWarningHandler(err error) {
	fmt.Fprintf(os.Stderr, "lilac: warning: %v\n", err)
}

// fatal wraps err with a stack trace (always, even when err already
// carries one), routes it through the configured error handler, and returns
// it so the caller's error return still carries the failure even if
// a caller-supplied handler chooses to return despite the contract.
func (e *Engine) fatal(err error) error {
	wrapped := errors.WithStack(err)
	e.errHandler(wrapped)
	return wrapped
}

// fatalf is a convenience wrapper around fatal for formatted messages.
func (e *Engine) fatalf(format string, args ...any) error {
	return e.fatal(errors.Errorf(format, args...))
}

// warn routes a non-essential diagnostic through the configured
// warning handler.
func (e *Engine) warn(err error) {
	e.warnHandler(err)
}
