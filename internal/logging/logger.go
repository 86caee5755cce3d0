package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

var (
	logger  = log.New(io.Discard)
	logFile *os.File
)

// InitLogger opens a dated log file under dir. The terminal belongs to the
// UI, so nothing is ever written to stdout or stderr.
func InitLogger(dir string, debug bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(dir, fmt.Sprintf("movie-chat-%s.log", time.Now().Format("2006-01-02")))

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05.000",
		Level:           log.InfoLevel,
	}
	if debug {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
		opts.CallerOffset = 1
	}

	logFile = f
	logger = log.NewWithOptions(f, opts)
	logger.Info("=== Movie Chat Log Started ===")

	return nil
}

// SetOutput redirects logging to w, mainly for tests.
func SetOutput(w io.Writer, level log.Level) {
	logger = log.NewWithOptions(w, log.Options{Level: level})
}

func Debug(format string, v ...interface{}) {
	logger.Debugf(format, v...)
}

func Info(format string, v ...interface{}) {
	logger.Infof(format, v...)
}

func Warn(format string, v ...interface{}) {
	logger.Warnf(format, v...)
}

func Error(format string, v ...interface{}) {
	logger.Errorf(format, v...)
}

// Close closes the log file
func Close() {
	if logFile != nil {
		logger.Info("=== Movie Chat Log Ended ===")
		logFile.Close()
		logFile = nil
		logger = log.New(io.Discard)
	}
}
