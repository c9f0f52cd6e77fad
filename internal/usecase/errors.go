package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrAlreadySubmitted      = errors.New("final predictions already submitted")
	ErrWeekStarted           = errors.New("week already started")
	ErrAlreadyMember         = errors.New("already a league member")
	ErrJoinCodeTaken         = errors.New("join code already taken")
)
