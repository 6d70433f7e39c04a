package data

import "errors"

var (
	ErrNotFound                  = errors.New("record not found")
	ErrInvalidLogin              = errors.New("invalid login")
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
	ErrUnknownColumn             = errors.New("column not in whitelist")
)
