// Package log provides the structured logger shared by every core
// component. It wraps logrus with the plain, single-line formatter the
// rest of the tree expects so that emulator output can be piped through
// test harnesses without ANSI escapes or timestamps.
package log

import "github.com/sirupsen/logrus"

// New returns a logrus.Logger configured for the core's conventions:
// no colour, no timestamp, fields printed unsorted.
func New() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return l
}

// Default is the package-level logger used by components that are not
// explicitly handed one (tests, the romload package).
var Default = New()
