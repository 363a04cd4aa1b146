package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Shared field keys, so log queries line up across packages.
const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"
	// FieldInterview is the structured log field key for the interview identifier.
	FieldInterview = "interview_id"
)

// NonEmptyString returns a trimmed string field, or a no-op field when the key
// or the value is blank. Keeps log entries compact when information is missing.
func NonEmptyString(key, value string) zap.Field {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return zap.Skip()
	}
	return zap.String(key, value)
}

// WithAI attaches the provider and model fields to the logger. A nil logger
// falls back to a no-op logger so callers never have to check.
func WithAI(log *zap.Logger, provider, model string) *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return log.With(
		NonEmptyString(FieldProvider, provider),
		NonEmptyString(FieldModel, model),
	)
}
