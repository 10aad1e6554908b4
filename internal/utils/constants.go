package utils

import "time"

// Application Constants
const (
	AppName = "SmokeTrack"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 8
	PasswordMaxLength  = 128

	// Compliance
	DueSoonWindowDays = 30
	HoursPerDay       = 24

	// Reminders
	ReminderDedupWindow = 24 * time.Hour

	// Fleet Constants
	MinEngineYear = 1990
	VINLength     = 17

	// Response statuses
	StatusSuccess = "success"
	StatusError   = "error"
)

// DefaultReminderDays are the reminder offsets applied when a user has not
// configured their own.
var DefaultReminderDays = []int{30, 14, 3}

// Error codes
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = "INTERNAL_ERROR"
)
