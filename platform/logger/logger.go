// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// CustomerIDKey is the context key for the authenticated customer ID
	CustomerIDKey contextKey = "customer_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with request-scoped values extracted.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = &Logger{Logger: newLogger.With(slog.String("request_id", requestID))}
	}

	if customerID, ok := ctx.Value(CustomerIDKey).(string); ok && customerID != "" {
		newLogger = &Logger{Logger: newLogger.With(slog.String("customer_id", customerID))}
	}

	return newLogger
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// ToolCall logs a tool invocation made on behalf of the language model.
func (l *Logger) ToolCall(name, callID string, success bool) {
	if success {
		l.Info("tool_call",
			slog.String("tool", name),
			slog.String("call_id", callID),
			slog.Bool("success", success),
		)
		return
	}
	l.Warn("tool_call",
		slog.String("tool", name),
		slog.String("call_id", callID),
		slog.Bool("success", success),
	)
}

// FinancialDocument logs financial document generation outcomes.
func (l *Logger) FinancialDocument(kind, bookingID string, err error) {
	if err != nil {
		l.Error("financial_document",
			slog.String("kind", kind),
			slog.String("booking_id", bookingID),
			slog.String("error", err.Error()),
		)
		return
	}
	l.Info("financial_document",
		slog.String("kind", kind),
		slog.String("booking_id", bookingID),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
