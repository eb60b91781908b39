// Package logging configures the process-wide logrus logger and maps the
// simulator's SimOutput verbosity levels (spec.md §6) onto logrus levels,
// grounded on the teacher's internal/common.ConfigureLogging.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Configure sets up logrus the way the teacher's ConfigureLogging does:
// colored text output with full timestamps, to stdout. levelName is parsed
// with logrus.ParseLevel; an empty or unrecognized value falls back to Info.
func Configure(levelName string) *logrus.Entry {
	logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	return logrus.NewEntry(logrus.StandardLogger())
}

// VerbosityToLevel maps a SimOutput verbosity (0 highest priority, 4+
// lowest) onto a logrus level, per SPEC_FULL.md §10: 0 is Error, 1-2 are
// Warn, 3 is Info, 4 and above are Debug.
func VerbosityToLevel(verbosity int) logrus.Level {
	switch {
	case verbosity <= 0:
		return logrus.ErrorLevel
	case verbosity <= 2:
		return logrus.WarnLevel
	case verbosity == 3:
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}

// Log writes msg to entry at the level VerbosityToLevel maps verbosity to.
func Log(entry *logrus.Entry, msg string, verbosity int) {
	entry.Log(VerbosityToLevel(verbosity), msg)
}
