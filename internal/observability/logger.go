// Package observability bundles structured logging and Prometheus
// metrics for the intake daemon.
package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog for structured logging.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates a new structured logger carrying service identity on
// every line. It also replaces the global zerolog logger so packages that
// log through zerolog/log share the same sink.
func NewLogger(service, version string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339

	logger := zerolog.New(output).With().
		Timestamp().
		Str("service", service).
		Str("version", version).
		Str("host", getHostname()).
		Logger()

	log.Logger = logger

	return &Logger{
		logger: logger,
	}
}

// SetLevel applies a textual log level ("debug", "info", "warn", "error")
// globally. Unrecognized levels fall back to info.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// WithFile adds file context to logger.
func (l *Logger) WithFile(fileID string, size int64) *Logger {
	return &Logger{
		logger: l.logger.With().
			Str("file_id", fileID).
			Int64("size_bytes", size).
			Logger(),
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

// Info logs an info message.
func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

// Error logs an error message.
func (l *Logger) Error(err error, msg string) {
	l.logger.Error().Err(err).Msg(msg)
}

// Fatal logs a fatal message and exits.
func (l *Logger) Fatal(err error, msg string) {
	l.logger.Fatal().Err(err).Msg(msg)
}

// UploadAccepted logs a stored upload.
func (l *Logger) UploadAccepted(fileID, format string, size int64) {
	l.logger.Info().
		Str("file_id", fileID).
		Str("format", format).
		Int64("size_bytes", size).
		Msg("upload accepted")
}

// UploadRejected logs a rejected upload.
func (l *Logger) UploadRejected(filename string, err error) {
	l.logger.Warn().
		Str("filename", filename).
		Err(err).
		Msg("upload rejected")
}

// RequestCompleted logs one handled HTTP request.
func (l *Logger) RequestCompleted(method, path string, status int, elapsed time.Duration) {
	l.logger.Info().
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Float64("elapsed_seconds", elapsed.Seconds()).
		Msg("request completed")
}

// ServerStarted logs the listen address at startup.
func (l *Logger) ServerStarted(addr, uploadDir string) {
	l.logger.Info().
		Str("addr", addr).
		Str("upload_dir", uploadDir).
		Msg("server started")
}

// Helper function to get hostname.
func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
