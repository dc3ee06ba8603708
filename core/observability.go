package core

import (
	"context"
	"sort"
	"strings"
	"time"
)

func (r *Registry) observeOperation(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	err error,
	fields map[string]any,
) {
	if r == nil {
		return
	}
	operation = strings.TrimSpace(strings.ToLower(operation))
	if operation == "" {
		operation = "unknown"
	}
	status := "success"
	if err != nil {
		status = "failure"
	}

	contextFields := cloneFields(fields)
	contextFields["event_type"] = operation
	contextFields["status"] = status
	elapsed := r.clock.Now().Sub(startedAt)
	contextFields["duration_ms"] = elapsed.Milliseconds()
	if err != nil {
		contextFields["error"] = err.Error()
	}

	tags := map[string]string{
		"operation": operation,
		"status":    status,
	}
	if app := strings.TrimSpace(stringField(contextFields, "app")); app != "" {
		tags["app"] = app
	}

	if r.metrics != nil {
		r.metrics.IncCounter(ctx, "apps."+operation+".total", 1, cloneTags(tags))
		r.metrics.ObserveHistogram(ctx, "apps."+operation+".duration_ms", float64(elapsed.Milliseconds()), cloneTags(tags))
	}

	if err != nil {
		r.logError(operation+" failed", contextFields)
		return
	}
	r.logInfo(operation+" succeeded", contextFields)
}

func (r *Registry) logInfo(message string, fields map[string]any) {
	r.logWithLevel("info", message, fields)
}

func (r *Registry) logWarn(message string, fields map[string]any) {
	r.logWithLevel("warn", message, fields)
}

func (r *Registry) logError(message string, fields map[string]any) {
	r.logWithLevel("error", message, fields)
}

func (r *Registry) logWithLevel(level string, message string, fields map[string]any) {
	if r == nil || r.logger == nil {
		return
	}
	logger := r.logger
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func stringField(fields map[string]any, key string) string {
	if len(fields) == 0 {
		return ""
	}
	if value, ok := fields[key].(string); ok {
		return value
	}
	return ""
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
