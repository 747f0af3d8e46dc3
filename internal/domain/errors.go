package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so a WithError copy
// still satisfies errors.Is against the predefined value.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Invalid or missing access token",
		StatusCode: 401,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}

	// Emotion detection errors
	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image file",
		StatusCode: 400,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected. Please face the camera clearly.",
		StatusCode: 400,
	}

	ErrClassifierUnavailable = &AppError{
		Code:       "CLASSIFIER_UNAVAILABLE",
		Message:    "Model or face detector not loaded",
		StatusCode: 503,
	}

	ErrClassificationFailed = &AppError{
		Code:       "CLASSIFICATION_FAILED",
		Message:    "Emotion classification failed",
		StatusCode: 500,
	}

	// Recommendation errors
	ErrCatalogUnavailable = &AppError{
		Code:       "CATALOG_UNAVAILABLE",
		Message:    "Spotify client not configured",
		StatusCode: 503,
	}

	ErrNoTracksFound = &AppError{
		Code:       "NO_TRACKS_FOUND",
		Message:    "No tracks found for the given emotion and language.",
		StatusCode: 404,
	}

	ErrCatalogUpstream = &AppError{
		Code:       "CATALOG_UPSTREAM_ERROR",
		Message:    "Spotify API error",
		StatusCode: 502,
	}

	// Account errors
	ErrEmailExists = &AppError{
		Code:       "EMAIL_EXISTS",
		Message:    "Email already exists.",
		StatusCode: 400,
	}

	ErrUserNotFound = &AppError{
		Code:       "USER_NOT_FOUND",
		Message:    "User not found.",
		StatusCode: 404,
	}

	ErrIncorrectPassword = &AppError{
		Code:       "INCORRECT_PASSWORD",
		Message:    "Incorrect password.",
		StatusCode: 401,
	}

	ErrOldPasswordIncorrect = &AppError{
		Code:       "OLD_PASSWORD_INCORRECT",
		Message:    "Old password is incorrect.",
		StatusCode: 401,
	}

	ErrResetFieldsRequired = &AppError{
		Code:       "RESET_FIELDS_REQUIRED",
		Message:    "Email and new password are required.",
		StatusCode: 400,
	}

	ErrAccountNotFound = &AppError{
		Code:       "ACCOUNT_NOT_FOUND",
		Message:    "No account found with that email.",
		StatusCode: 404,
	}

	ErrEmailNotRegistered = &AppError{
		Code:       "EMAIL_NOT_REGISTERED",
		Message:    "Email not registered.",
		StatusCode: 404,
	}

	ErrMailerUnavailable = &AppError{
		Code:       "MAILER_UNAVAILABLE",
		Message:    "Email delivery not configured",
		StatusCode: 503,
	}

	ErrMailDelivery = &AppError{
		Code:       "MAIL_DELIVERY_FAILED",
		Message:    "Failed to send email",
		StatusCode: 500,
	}
)
