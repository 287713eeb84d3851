package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrInvalidPhoto     = errors.New("photo must be a JPEG, PNG or WebP image")
	ErrPhotoTooLarge    = errors.New("photo must not exceed 2MB")
)
