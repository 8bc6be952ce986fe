package entity

import "errors"

// Domain errors
var (
	// Auth errors
	ErrSessionExpired = errors.New("session expired")

	// Backend errors
	ErrBackend             = errors.New("backend request failed")
	ErrCalculationNotFound = errors.New("calculation not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrFactorNotFound      = errors.New("emission factor not found")

	// Wizard errors
	ErrWizardNotOpened  = errors.New("wizard is not opened for calculation")
	ErrCannotAdvance    = errors.New("current step cannot advance")
	ErrCannotGoBack     = errors.New("current step cannot go back")
	ErrInvalidChoice    = errors.New("invalid choice for current step")
	ErrInvalidPath      = errors.New("invalid wizard path")
	ErrRowNotFound      = errors.New("row not found")
	ErrNotComplete      = errors.New("calculation is not complete")
	ErrUnsupportedInput = errors.New("input not supported on current step")

	// Report errors
	ErrFormatUnavailable = errors.New("result format unavailable")

	// Telegram errors
	ErrChatNotAttached = errors.New("chat is not attached to a calculation")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
