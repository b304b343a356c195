package sentinel

import "errors"

// Sentinel dependency errors. Dependencies (remote client, snapshot store,
// stubapi stores) should return these, optionally wrapped, so services can
// translate them into domain errors exactly once.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrAlreadyUsed  = errors.New("already used")
	ErrUnavailable  = errors.New("unavailable")
	ErrRemote       = errors.New("remote failure")
)
