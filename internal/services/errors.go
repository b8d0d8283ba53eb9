package services

import (
	"errors"
	"strings"
)

var (
	ErrFileRead          = errors.New("failed to read resume file")
	ErrConfiguration     = errors.New("gemini api key is not configured")
	ErrResponseParse     = errors.New("failed to parse analysis response")
	ErrCapability        = errors.New("analysis capability error")
	ErrAlreadySubmitting = errors.New("an analysis is already in progress")
)

// FailureMessage turns a pipeline error into the message shown in the Failed state.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}

	var prefix string
	switch {
	case errors.Is(err, ErrConfiguration):
		prefix = "Google Gemini API key is not defined. Please ensure GEMINI_API_KEY is set in the environment."
	case errors.Is(err, ErrFileRead):
		prefix = "Failed to read resume file."
	case errors.Is(err, ErrResponseParse):
		prefix = "Failed to analyze resume. The analysis response could not be understood."
	case errors.Is(err, ErrCapability):
		prefix = "Failed to analyze resume. Please try again."
	default:
		prefix = "An unexpected error occurred during analysis."
	}

	details := err.Error()
	if strings.TrimSpace(details) == "" {
		return prefix
	}
	return prefix + " Details: " + details
}
