package domain

import "errors"

var (
	UnexpectedDatabaseError = errors.New("database-error")
	ErrDuplicateUsername    = errors.New("duplicate-username")
	ErrUserNotFound         = errors.New("user-not-found")
)

var (
	ErrInvalidToken = errors.New("invalid-token")
	ErrExpiredToken = errors.New("expired-token")
)
