package application

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrUpdateFailed       = errors.New("update failed")
	ErrStorageUnavailable = errors.New("storage not configured")
	ErrInvalidResetLength = errors.New("reset password length must be positive")
)
