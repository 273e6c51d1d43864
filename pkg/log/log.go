// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package log

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

type ctxKey string

const (
	slogFields      ctxKey = "slog_fields"
	logLevelDefault        = slog.LevelDebug

	debug = "debug"
	warn  = "warn"
	info  = "info"
	erro  = "error"

	formatText = "text"
)

// Config controls the handler installed by Init.
type Config struct {
	// Level is one of debug, info, warn or error
	Level string
	// AddSource includes the source file and line in each record
	AddSource bool
	// Format is json (default) or text
	Format string
	// Output defaults to os.Stdout
	Output io.Writer
}

type contextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler
func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}

	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the context behavior on derived handlers
func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the context behavior on derived handlers
func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// AppendCtx adds an slog attribute to the provided context so that it will be
// included in any Record created with such context
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		// copy so sibling contexts never share a backing array
		attrs := make([]slog.Attr, 0, len(v)+1)
		attrs = append(attrs, v...)
		attrs = append(attrs, attr)
		return context.WithValue(parent, slogFields, attrs)
	}

	return context.WithValue(parent, slogFields, []slog.Attr{attr})
}

// ConfigFromEnv reads LOG_LEVEL, LOG_ADD_SOURCE and LOG_FORMAT
func ConfigFromEnv() Config {
	addSource := os.Getenv("LOG_ADD_SOURCE")
	return Config{
		Level:     os.Getenv("LOG_LEVEL"),
		AddSource: addSource == "true",
		Format:    os.Getenv("LOG_FORMAT"),
	}
}

// ParseLevel maps a level name to a slog.Level, defaulting to debug
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case debug:
		return slog.LevelDebug
	case info:
		return slog.LevelInfo
	case warn:
		return slog.LevelWarn
	case erro:
		return slog.LevelError
	default:
		return logLevelDefault
	}
}

// NewHandler builds the context aware handler described by cfg
func NewHandler(cfg Config) slog.Handler {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	logOptions := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case formatText:
		h = slog.NewTextHandler(out, logOptions)
	default:
		h = slog.NewJSONHandler(out, logOptions)
	}
	return contextHandler{h}
}

// Init sets the structured log behavior for the process
func Init(cfg Config) {
	log.SetFlags(log.Llongfile)
	slog.SetDefault(slog.New(NewHandler(cfg)))
	slog.Debug("log config",
		"level", ParseLevel(cfg.Level).String(),
		"add_source", cfg.AddSource,
		"format", cfg.Format,
	)
}

// InitStructureLogConfig sets the structured log behavior from the environment
func InitStructureLogConfig() {
	Init(ConfigFromEnv())
}
