package formstore

import "errors"

var (
	ErrNotFound        = errors.New("formstore.not_found")
	ErrExpired         = errors.New("formstore.expired")
	ErrInvalidSnapshot = errors.New("formstore.invalid_snapshot")
)
