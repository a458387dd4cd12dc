// Package errs wraps cockroachdb/errors so call sites get stack traces and
// sentinel marks without importing it directly.
package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

// New creates an error with a stack trace.
func New(msg string) error {
	return cr.New(msg)
}

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...any) error {
	return cr.Newf(format, args...)
}

// Wrap annotates err with msg. It returns nil when err is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Wrapf annotates err with a formatted message. It returns nil when err is nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return cr.Wrapf(err, format, args...)
}

// Mark tags err so that errors.Is(err, mark) reports true while keeping the
// original message. A nil err yields mark itself.
func Mark(err error, mark error) error {
	if err == nil {
		return mark
	}
	return cr.Mark(err, mark)
}

// Is reports whether err matches reference, either through its chain or
// through a mark applied with Mark.
func Is(err, reference error) bool {
	return cr.Is(err, reference)
}

// ExtractStackLines renders the verbose form of err and returns at most
// maxLines lines of it.
func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
