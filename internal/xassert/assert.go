// Package xassert is the assertion collaborator: it terminates the process
// with a diagnostic message when a predicate the caller believed must hold
// turns out false. It is the Go-idiomatic replacement for the original
// source's util.c _x_assert/ASSERT macro: same call shape (a condition plus
// a human-readable detail), but logged through a structured logger instead
// of written byte-by-byte to a raw file descriptor, since nothing in this
// repository needs to avoid depending on a working allocator to print.
package xassert

import "github.com/sirupsen/logrus"

// Logger is the logger fatal diagnostics are written through. It defaults
// to a dedicated instance (rather than logrus's package-level standard
// logger) so tests can swap its ExitFunc without disturbing anything else
// in the process that logs through logrus.
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{})
	return l
}

// True terminates the process with a structured fatal log line if cond is
// false. format/args describe what was expected, in the style of fmt.Sprintf.
func True(cond bool, format string, args ...any) {
	if cond {
		return
	}

	Logger.WithField("assert", "failed").Fatalf(format, args...)
}
