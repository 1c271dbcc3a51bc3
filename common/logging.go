package common

import (
	"log/slog"
	"os"
)

// LoggingOpts configures the process-wide structured logger.
type LoggingOpts struct {
	// Debug enables debug-level log messages.
	Debug bool

	// JSON switches the handler to JSON output for log collectors.
	JSON bool

	// Service is added as a "service" attribute to every log record.
	Service string

	// Version is added as a "version" attribute when non-empty.
	Version string
}

// SetupLogger creates the process-wide slog logger according to opts.
// All components receive this logger (or a derived one) at construction.
func SetupLogger(opts *LoggingOpts) (log *slog.Logger) {
	logLevel := slog.LevelInfo
	if opts.Debug {
		logLevel = slog.LevelDebug
	}

	if opts.JSON {
		log = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	} else {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	}

	log = log.With("service", opts.Service)
	if opts.Version != "" {
		log = log.With("version", opts.Version)
	}
	return log
}
