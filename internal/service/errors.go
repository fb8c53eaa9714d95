package service

import "errors"

// Business-rule violations are typed here and mapped to fixed HTTP codes at
// the handler boundary; anything else is logged in full and reported to the
// client as a generic persistence failure.
var (
	ErrValidation           = errors.New("validation error")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrTokenBlacklisted     = errors.New("token is blacklisted")
	ErrAuthenticationFailed = errors.New("could not validate user's credentials")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrBookAlreadyExists    = errors.New("book already exists")
	ErrStoreUnavailable     = errors.New("store unavailable")
)
