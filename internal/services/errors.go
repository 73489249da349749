package services

import "errors"

// Error taxonomy shared by the services. Handlers map these to HTTP status
// codes with errors.Is; wrapped messages carry the user-facing detail.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateUser      = errors.New("username or email already registered")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrCameraUnavailable = errors.New("no captured frame available")
	ErrImageDecode       = errors.New("captured image could not be decoded")
	ErrCaptureInProgress = errors.New("a capture is already in progress")

	ErrStorage        = errors.New("archive storage failure")
	ErrCorruptArchive = errors.New("archive file is corrupt")

	ErrAlreadyPremium = errors.New("account already has premium access")
)
