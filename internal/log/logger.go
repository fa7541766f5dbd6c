// Package log provides the logrus-backed implementation of the logger facade.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultLogCacheSize = 30

type LogItem struct {
	Time    time.Time `json:"time"`
	Type    string    `json:"level"`
	Message string    `json:"message"`
}

type Logger struct {
	logger *logrus.Logger

	mutex     sync.Mutex
	logCache  []LogItem
	cacheSize int
}

func NewLogger() *Logger {
	return &Logger{
		logger:    logrus.New(),
		cacheSize: defaultLogCacheSize,
	}
}

// Init configures the output of the logger. If logFile is set, entries are
// appended to it. If logOut is true, or no log file is set, entries are also
// written to stderr.
func (log *Logger) Init(logFile string, logOut bool, logLevel string) {
	var file *os.File
	if logFile != "" {
		var err error
		file, err = os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Printf("Could not open '%s' for log output due to error: %s\n", logFile, err.Error())
		}
	}

	customFormatter := new(logrus.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	log.logger.SetFormatter(customFormatter)

	switch {
	case file != nil && logOut:
		log.logger.SetOutput(io.MultiWriter(os.Stderr, file))
	case file != nil:
		// log to file only, without colours
		customFormatter.DisableColors = true
		log.logger.SetOutput(file)
	default:
		customFormatter.ForceColors = true
		log.logger.SetOutput(os.Stderr)
	}

	log.SetLogLevel(logLevel)
}

// SetOutput redirects the log output. Used by tests.
func (log *Logger) SetOutput(w io.Writer) {
	log.logger.SetOutput(w)
}

// SetCacheSize sets the number of recent entries kept for GetLogCache.
func (log *Logger) SetCacheSize(size int) {
	log.mutex.Lock()
	defer log.mutex.Unlock()

	if size <= 0 {
		size = defaultLogCacheSize
	}
	log.cacheSize = size
	if len(log.logCache) > size {
		log.logCache = log.logCache[:size]
	}
}

func (log *Logger) SetLogLevel(level string) {
	log.logger.Level = logLevelFromString(level)
}

func logLevelFromString(level string) logrus.Level {
	ret := logrus.InfoLevel

	switch level {
	case "Trace":
		ret = logrus.TraceLevel
	case "Debug":
		ret = logrus.DebugLevel
	case "Warning":
		ret = logrus.WarnLevel
	case "Error":
		ret = logrus.ErrorLevel
	}

	return ret
}

func (log *Logger) addLogItem(l *LogItem) {
	log.mutex.Lock()
	defer log.mutex.Unlock()

	// newest first
	log.logCache = append([]LogItem{*l}, log.logCache...)
	if len(log.logCache) > log.cacheSize {
		log.logCache = log.logCache[:log.cacheSize]
	}
}

// GetLogCache returns a copy of the most recent log entries, newest first.
func (log *Logger) GetLogCache() []LogItem {
	log.mutex.Lock()
	defer log.mutex.Unlock()

	ret := make([]LogItem, len(log.logCache))
	copy(ret, log.logCache)
	return ret
}

func (log *Logger) cache(level logrus.Level, level_ string, message string) {
	if !log.logger.IsLevelEnabled(level) {
		return
	}

	log.addLogItem(&LogItem{
		Time:    time.Now(),
		Type:    level_,
		Message: message,
	})
}

func (log *Logger) Trace(args ...interface{}) {
	log.logger.Trace(args...)
	log.cache(logrus.TraceLevel, "trace", fmt.Sprint(args...))
}

func (log *Logger) Tracef(format string, args ...interface{}) {
	log.logger.Tracef(format, args...)
	log.cache(logrus.TraceLevel, "trace", fmt.Sprintf(format, args...))
}

func (log *Logger) Debug(args ...interface{}) {
	log.logger.Debug(args...)
	log.cache(logrus.DebugLevel, "debug", fmt.Sprint(args...))
}

func (log *Logger) Debugf(format string, args ...interface{}) {
	log.logger.Debugf(format, args...)
	log.cache(logrus.DebugLevel, "debug", fmt.Sprintf(format, args...))
}

func (log *Logger) Info(args ...interface{}) {
	log.logger.Info(args...)
	log.cache(logrus.InfoLevel, "info", fmt.Sprint(args...))
}

func (log *Logger) Infof(format string, args ...interface{}) {
	log.logger.Infof(format, args...)
	log.cache(logrus.InfoLevel, "info", fmt.Sprintf(format, args...))
}

func (log *Logger) Warn(args ...interface{}) {
	log.logger.Warn(args...)
	log.cache(logrus.WarnLevel, "warn", fmt.Sprint(args...))
}

func (log *Logger) Warnf(format string, args ...interface{}) {
	log.logger.Warnf(format, args...)
	log.cache(logrus.WarnLevel, "warn", fmt.Sprintf(format, args...))
}

func (log *Logger) Error(args ...interface{}) {
	log.logger.Error(args...)
	log.cache(logrus.ErrorLevel, "error", fmt.Sprint(args...))
}

func (log *Logger) Errorf(format string, args ...interface{}) {
	log.logger.Errorf(format, args...)
	log.cache(logrus.ErrorLevel, "error", fmt.Sprintf(format, args...))
}

func (log *Logger) Fatal(args ...interface{}) {
	log.logger.Fatal(args...)
}

func (log *Logger) Fatalf(format string, args ...interface{}) {
	log.logger.Fatalf(format, args...)
}
