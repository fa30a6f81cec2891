// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package log provides structured logging utilities and configuration for the service.
package log

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	slogotel "github.com/remychantenay/slog-otel"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/redaction"
)

type ctxKey string

const (
	slogFields      ctxKey = "slog_fields"
	logLevelDefault        = slog.LevelDebug

	priorityCritical = "critical"
)

// sensitiveKeys are attribute keys whose values are webhook secrets or raw signatures.
var sensitiveKeys = map[string]struct{}{
	"secret":         {},
	"signing_secret": {},
	"signature_key":  {},
	"client_secret":  {},
	"access_token":   {},
	"authorization":  {},
}

type contextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler
func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}

	return h.Handler.Handle(ctx, r)
}

// AppendCtx adds an slog attribute to the provided context so that it will be
// included in any Record created with such context
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	existing, _ := parent.Value(slogFields).([]slog.Attr)
	// copy so sibling contexts never share a backing array
	attrs := make([]slog.Attr, 0, len(existing)+1)
	attrs = append(attrs, existing...)
	attrs = append(attrs, attr)
	return context.WithValue(parent, slogFields, attrs)
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return logLevelDefault
	}
}

func redactSensitive(_ []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok && a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, redaction.Redact(a.Value.String()))
	}
	return a
}

func newHandler(w io.Writer, level slog.Level, addSource bool) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   addSource,
		ReplaceAttr: redactSensitive,
	}
	// trace and span ids from the record context are attached by the otel handler
	return contextHandler{slogotel.OtelHandler{Next: slog.NewJSONHandler(w, opts)}}
}

// InitStructureLogConfig sets the structured log behavior from LOG_LEVEL and LOG_ADD_SOURCE.
func InitStructureLogConfig() {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	addSource := os.Getenv("LOG_ADD_SOURCE") == "true"

	log.SetFlags(log.Llongfile)
	slog.SetDefault(slog.New(newHandler(os.Stdout, level, addSource)))
	slog.Info("log config",
		"log_level", level.String(),
		"add_source", addSource,
	)
}

// Priority creates a slog.Attr for error priority classification
func Priority(level string) slog.Attr {
	return slog.String("priority", level)
}

// PriorityCritical creates a slog.Attr for critical errors
// this is used to identify critical errors in the logs
// the ones that should be escalated to the team
func PriorityCritical() slog.Attr {
	return Priority(priorityCritical)
}
