package utils

import "errors"

var (
	ErrUserIDNotFound = errors.New("authentication required: user ID not found")
	ErrInvalidUserID  = errors.New("invalid user ID format")
)
