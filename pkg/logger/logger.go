package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents the severity of a log message.
type Level int

// Severity levels, ascending.
const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelTags = [...]string{"[DEBUG] ", "[INFO] ", "[WARN] ", "[ERROR] ", "[FATAL] "}

// ParseLevel converts a string log level to its Level constant. Unknown
// strings fall back to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// Options configures log rotation for a Logger.
type Options struct {
	MaxSize    int // MB before rotation
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// DefaultOptions returns the rotation settings used when none are supplied.
func DefaultOptions() Options {
	return Options{MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
}

// Logger writes leveled messages to stdout and a rotated log file.
type Logger struct {
	out   *log.Logger
	level Level
	mu    sync.RWMutex
}

var (
	instance *Logger
	once     sync.Once
)

// Init initializes the global logger at the given path and level with the
// supplied rotation options. Subsequent calls are no-ops.
func Init(logPath string, level Level, opts Options) {
	once.Do(func() {
		instance = New(logPath, level, opts)
	})
}

// New creates a logger writing to both stdout and a lumberjack-rotated file.
func New(logPath string, level Level, opts Options) *Logger {
	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("cannot create log directory: %v", err)
	}

	rotated := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    opts.MaxSize,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAge,
		Compress:   opts.Compress,
	}

	return &Logger{
		out:   log.New(io.MultiWriter(os.Stdout, rotated), "", log.LstdFlags|log.Lshortfile),
		level: level,
	}
}

// SetLevel changes the minimum level for which messages are emitted.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) enabled(level Level) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level >= l.level
}

func (l *Logger) logf(level Level, format string, v ...interface{}) {
	if !l.enabled(level) {
		return
	}
	// Output depth 3: logf -> level method -> caller
	l.out.Output(3, levelTags[level]+fmt.Sprintf(format, v...))
	if level == FATAL {
		os.Exit(1)
	}
}

// Debugf logs a formatted debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) { l.logf(DEBUG, format, v...) }

// Infof logs a formatted info-level message.
func (l *Logger) Infof(format string, v ...interface{}) { l.logf(INFO, format, v...) }

// Warnf logs a formatted warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) { l.logf(WARN, format, v...) }

// Errorf logs a formatted error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) { l.logf(ERROR, format, v...) }

// Fatalf logs a formatted fatal-level message and exits the program.
func (l *Logger) Fatalf(format string, v ...interface{}) { l.logf(FATAL, format, v...) }

// ensure lazily creates a stderr-only logger so packages can log before Init,
// mainly during tests.
func ensure() *Logger {
	once.Do(func() {
		instance = &Logger{
			out:   log.New(os.Stdout, "", log.LstdFlags|log.Lshortfile),
			level: INFO,
		}
	})
	return instance
}

// Global convenience functions using the initialized instance.

// Debugf logs a formatted debug-level message using the global logger.
func Debugf(format string, v ...interface{}) { ensure().Debugf(format, v...) }

// Infof logs a formatted info-level message using the global logger.
func Infof(format string, v ...interface{}) { ensure().Infof(format, v...) }

// Warnf logs a formatted warning-level message using the global logger.
func Warnf(format string, v ...interface{}) { ensure().Warnf(format, v...) }

// Errorf logs a formatted error-level message using the global logger.
func Errorf(format string, v ...interface{}) { ensure().Errorf(format, v...) }

// Fatalf logs a formatted fatal-level message using the global logger and exits.
func Fatalf(format string, v ...interface{}) { ensure().Fatalf(format, v...) }
