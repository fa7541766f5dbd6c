// Package logger provides the logging facade used by the other storyreel packages.
//
// Packages log through the package-level functions, which forward to Logger.
// When Logger is unset (as in most unit tests) the calls are dropped.
package logger

import (
	"fmt"
	"os"
)

// LoggerImpl is the interface that groups logging methods.
type LoggerImpl interface {
	Trace(args ...interface{})
	Tracef(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
}

// Logger is the LoggerImpl used when calling the global Logger functions.
var Logger LoggerImpl

// Trace calls Logger.Trace if Logger is not nil.
func Trace(args ...interface{}) {
	if Logger != nil {
		Logger.Trace(args...)
	}
}

// Tracef calls Logger.Tracef if Logger is not nil.
func Tracef(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Tracef(format, args...)
	}
}

// Debug calls Logger.Debug if Logger is not nil.
func Debug(args ...interface{}) {
	if Logger != nil {
		Logger.Debug(args...)
	}
}

// Debugf calls Logger.Debugf if Logger is not nil.
func Debugf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Debugf(format, args...)
	}
}

// Info calls Logger.Info if Logger is not nil.
func Info(args ...interface{}) {
	if Logger != nil {
		Logger.Info(args...)
	}
}

// Infof calls Logger.Infof if Logger is not nil.
func Infof(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Infof(format, args...)
	}
}

// Warn calls Logger.Warn if Logger is not nil.
func Warn(args ...interface{}) {
	if Logger != nil {
		Logger.Warn(args...)
	}
}

// Warnf calls Logger.Warnf if Logger is not nil.
func Warnf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Warnf(format, args...)
	}
}

// Error calls Logger.Error if Logger is not nil.
func Error(args ...interface{}) {
	if Logger != nil {
		Logger.Error(args...)
	}
}

// Errorf calls Logger.Errorf if Logger is not nil.
func Errorf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Errorf(format, args...)
	}
}

// Fatal calls Logger.Fatal if Logger is not nil. Otherwise it prints to
// stderr and exits.
func Fatal(args ...interface{}) {
	if Logger != nil {
		Logger.Fatal(args...)
		return
	}
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

// Fatalf calls Logger.Fatalf if Logger is not nil. Otherwise it prints to
// stderr and exits.
func Fatalf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Fatalf(format, args...)
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
