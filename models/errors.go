package models

import "fmt"

// Error codes surfaced in ScrapeResult and API responses.
//
// The first group is produced by the page-state classifier and the
// orchestrator; the second group by the session and API layers.
const (
	ErrCodeAuthRequired      = "AUTH_REQUIRED"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeSuspended         = "SUSPENDED"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeProtected         = "PROTECTED"
	ErrCodeProfileLoadFailed = "PROFILE_LOAD_FAILED"
	ErrCodeNoTweetsFound     = "NO_TWEETS_FOUND"
	ErrCodeTimeout           = "TIMEOUT"
	ErrCodeNavigation        = "NAVIGATION_ERROR"
	ErrCodeConnection        = "CONNECTION_ERROR"
	ErrCodeUnknown           = "UNKNOWN_ERROR"

	ErrCodeBrowserLaunch = "BROWSER_LAUNCH_FAILED"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ScrapeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
