package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileLogger appends levelled log lines to a per-run file under a log
// directory. The interactive screen owns stdout during labelling, so
// diagnostics go here.
type FileLogger struct {
	file     *os.File
	path     string
	logLevel string
	mutex    sync.Mutex
}

// NewFileLogger creates a logger writing to
// <logDir>/labeller-<timestamp>.log, creating the directory if needed.
func NewFileLogger(logDir, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(logDir, fmt.Sprintf("labeller-%s.log", time.Now().Format("20060102-150405")))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &FileLogger{
		file:     file,
		path:     path,
		logLevel: normalizeLogLevel(logLevel),
	}, nil
}

// Path returns the log file location.
func (fl *FileLogger) Path() string { return fl.path }

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level, message string) {
	if fl.file == nil {
		return
	}
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}

	fl.mutex.Lock()
	defer fl.mutex.Unlock()

	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(fl.file, "[%s] [%s] %s\n", ts, level, message)
}

// Close flushes and closes the log file.
func (fl *FileLogger) Close() error {
	if fl.file == nil {
		return nil
	}
	err := fl.file.Sync()
	if cerr := fl.file.Close(); err == nil {
		err = cerr
	}
	fl.file = nil
	return err
}

// Discard is a Logger that drops everything. Useful as a default
// before configuration is loaded and in tests.
type Discard struct{}

func (Discard) LogTrace(string) {}
func (Discard) LogDebug(string) {}
func (Discard) LogInfo(string)  {}
func (Discard) LogWarn(string)  {}
func (Discard) LogError(string) {}
