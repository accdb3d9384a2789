package auth

import "errors"

var (
	ErrUnauthorized    = errors.New("invalid username or password")
	ErrForbidden       = errors.New("administrator role required")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrSessionNotFound = errors.New("session not found")
)
