package domain

import "errors"

var (
	ErrValidation     = errors.New("validation failed")
	ErrInvalidID      = errors.New("invalid id")
	ErrDuplicateEmail = errors.New("email already registered")

	ErrUnknownEmail    = errors.New("email not registered")
	ErrWrongPassword   = errors.New("incorrect password")
	ErrNoSession       = errors.New("invalid refresh token")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")

	ErrUserNotFound = errors.New("user not found")
	ErrPostNotFound = errors.New("post not found")

	ErrRateLimited      = errors.New("too many requests")
	ErrStoreUnavailable = errors.New("store unavailable")
)
