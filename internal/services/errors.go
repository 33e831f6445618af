package services

import "errors"

var (
	// ErrLinkNotFound is returned when a code does not resolve to any link.
	ErrLinkNotFound = errors.New("link not found")
	// ErrInvalidInput is returned for malformed identifiers, before any store access.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCodeTaken is returned when a requested custom code is already in use.
	ErrCodeTaken = errors.New("custom code already taken")
)
