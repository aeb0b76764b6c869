package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Post errors
	ErrPostNotFound      = errors.New("post not found")
	ErrInvalidStatus     = errors.New("invalid post status")
	ErrInvalidPostType   = errors.New("invalid post type")
	ErrMetaNotWritable   = errors.New("meta key is not writable")
	ErrMetaNotRegistered = errors.New("meta key is not registered")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)
