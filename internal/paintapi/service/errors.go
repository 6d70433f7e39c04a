package service

import "errors"

var (
	// ErrInvalidCredentials covers unknown user and wrong password alike,
	// so responses cannot be used to enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized covers invalid, expired and revoked tokens.
	ErrUnauthorized = errors.New("unauthorized")

	ErrWrongPassword        = errors.New("current password is incorrect")
	ErrInvalidSuperadminKey = errors.New("invalid superadmin key")
	ErrNotFound             = errors.New("not found")
)
