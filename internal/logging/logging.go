package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options configures the process logger.
type Options struct {
	Level   string
	File    string
	Verbose bool
	Console io.Writer
}

// Logger is the process logger and the log file it writes to.
type Logger struct {
	*slog.Logger
	file *os.File
}

// New builds a text logger writing to the console and, when File is set, to an append-only log
// file. A file that cannot be opened is reported and the console logger is still returned.
func New(options Options) (*Logger, error) {
	level, levelErr := ParseLevel(options.Level)
	if options.Verbose {
		level = slog.LevelDebug
	}

	console := options.Console
	if console == nil {
		console = os.Stderr
	}

	var (
		file    *os.File
		fileErr error
	)
	writer := console
	if options.File != "" {
		file, fileErr = openLogFile(options.File)
		if fileErr == nil {
			writer = io.MultiWriter(console, file)
		}
	}

	logger := &Logger{
		Logger: slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})),
		file:   file,
	}
	if fileErr != nil {
		return logger, fileErr
	}
	return logger, levelErr
}

// Close flushes and closes the log file.
func (logger *Logger) Close() error {
	if logger == nil || logger.file == nil {
		return nil
	}
	err := logger.file.Close()
	logger.file = nil
	if err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

// ParseLevel maps a settings log level to slog. Unknown values fall back to info.
func ParseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", value)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}
