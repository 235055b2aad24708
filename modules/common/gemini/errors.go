package gemini

import (
	"errors"
	"strings"

	"rosa-studio-server/modules/common/model"
)

// APIError - a classified Gemini failure. The raw error stays wrapped for
// diagnostics; only UserMessage is shown to end users.
type APIError struct {
	Code        string
	UserMessage string
	Err         error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *APIError) Unwrap() error { return e.Err }

// Classify - map a raw SDK error onto the user-facing error taxonomy
func Classify(err error) error {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "429"),
		strings.Contains(errStr, "quota"),
		strings.Contains(errStr, "rate limit"),
		strings.Contains(errStr, "resource_exhausted"):
		return &APIError{
			Code:        model.ErrCodeQuotaExhausted,
			UserMessage: "AI quota exhausted. Please try again in a few minutes.",
			Err:         err,
		}
	case strings.Contains(errStr, "503"),
		strings.Contains(errStr, "overloaded"),
		strings.Contains(errStr, "unavailable"):
		return &APIError{
			Code:        model.ErrCodeServiceUnavailable,
			UserMessage: "The AI service is overloaded right now. Please try again.",
			Err:         err,
		}
	case strings.Contains(errStr, "safety"),
		strings.Contains(errStr, "blocked"),
		strings.Contains(errStr, "prohibited"):
		return &APIError{
			Code:        model.ErrCodeSafetyBlocked,
			UserMessage: "The request was blocked by content safety filters. Adjust your description and try again.",
			Err:         err,
		}
	default:
		return &APIError{
			Code:        model.ErrCodeInternalError,
			UserMessage: "Failed to generate image. Please try again.",
			Err:         err,
		}
	}
}

// UserMessage - the safe message for any error, with a generic fallback
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage
	}
	return "Failed to generate image. Please try again."
}

// ErrorCode - the classified code for any error
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return model.ErrCodeInternalError
}
