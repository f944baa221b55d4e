package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SlogLogger is the slog-backed Logger implementation.
type SlogLogger struct {
	logger    *slog.Logger
	sanitizer *Sanitizer
	writers   []io.WriteCloser
}

// NewSlogLogger creates a logger writing to stderr and, when enabled, a
// rotating log file.
func NewSlogLogger(config Config) (*SlogLogger, error) {
	writers := []io.Writer{os.Stderr}
	var closeable []io.WriteCloser

	if config.File.Enabled {
		fw, err := newFileWriter(config.File)
		if err != nil {
			return nil, fmt.Errorf("failed to create file writer: %w", err)
		}
		writers = append(writers, fw)
		closeable = append(closeable, fw)
	}

	opts := &slog.HandlerOptions{Level: convertLevel(config.Level)}

	var handler slog.Handler
	if config.Format == FormatJSON {
		handler = slog.NewJSONHandler(io.MultiWriter(writers...), opts)
	} else {
		handler = slog.NewTextHandler(io.MultiWriter(writers...), opts)
	}

	return &SlogLogger{
		logger:    slog.New(handler),
		sanitizer: NewSanitizer(),
		writers:   closeable,
	}, nil
}

// newFileWriter creates the rotating file writer (lumberjack).
func newFileWriter(config FileConfig) (io.WriteCloser, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("log file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	maxSize := config.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	maxAge := config.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 30
	}
	maxBackups := config.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 5
	}

	return &lumberjack.Logger{
		Filename:   config.Path,
		MaxSize:    maxSize,
		MaxAge:     maxAge,
		MaxBackups: maxBackups,
		Compress:   config.Compress,
	}, nil
}

func convertLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (s *SlogLogger) Debug(msg string, args ...any) {
	s.logger.Debug(s.sanitizer.Sanitize(msg), s.sanitizer.SanitizeArgs(args)...)
}

func (s *SlogLogger) Info(msg string, args ...any) {
	s.logger.Info(s.sanitizer.Sanitize(msg), s.sanitizer.SanitizeArgs(args)...)
}

func (s *SlogLogger) Warn(msg string, args ...any) {
	s.logger.Warn(s.sanitizer.Sanitize(msg), s.sanitizer.SanitizeArgs(args)...)
}

func (s *SlogLogger) Error(msg string, args ...any) {
	s.logger.Error(s.sanitizer.Sanitize(msg), s.sanitizer.SanitizeArgs(args)...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &childLogger{
		logger:    s.logger.With(s.sanitizer.SanitizeArgs(args)...),
		sanitizer: s.sanitizer,
	}
}

// Shutdown closes the owned writers.
func (s *SlogLogger) Shutdown() error {
	var firstErr error
	for _, w := range s.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// childLogger shares the parent's handler and sanitizer but owns no
// writers, so Shutdown is a no-op.
type childLogger struct {
	logger    *slog.Logger
	sanitizer *Sanitizer
}

func (c *childLogger) Debug(msg string, args ...any) {
	c.logger.Debug(c.sanitizer.Sanitize(msg), c.sanitizer.SanitizeArgs(args)...)
}

func (c *childLogger) Info(msg string, args ...any) {
	c.logger.Info(c.sanitizer.Sanitize(msg), c.sanitizer.SanitizeArgs(args)...)
}

func (c *childLogger) Warn(msg string, args ...any) {
	c.logger.Warn(c.sanitizer.Sanitize(msg), c.sanitizer.SanitizeArgs(args)...)
}

func (c *childLogger) Error(msg string, args ...any) {
	c.logger.Error(c.sanitizer.Sanitize(msg), c.sanitizer.SanitizeArgs(args)...)
}

func (c *childLogger) With(args ...any) Logger {
	return &childLogger{
		logger:    c.logger.With(c.sanitizer.SanitizeArgs(args)...),
		sanitizer: c.sanitizer,
	}
}

func (c *childLogger) Shutdown() error { return nil }
