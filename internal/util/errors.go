package util

import "errors"

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("you have already applied for this job")
	ErrDuplicateAnswer     = errors.New("each question may only be answered once")
	ErrInvalidStatus       = errors.New("status must be one of: pending, reviewed, accepted, rejected")
)
