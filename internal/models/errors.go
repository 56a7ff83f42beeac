package models

import "errors"

// Custom errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateKey  = errors.New("duplicate key violation")
	ErrInvalidSymbol = errors.New("invalid symbol")
)
