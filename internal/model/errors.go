package model

import "errors"

// Error taxonomy shared by the catalog, the native executor and the engine.
// Callers test with errors.Is; concrete errors wrap these with context.
var (
	ErrNotFound              = errors.New("not found")
	ErrAlreadyExists         = errors.New("already exists")
	ErrInUse                 = errors.New("still referenced")
	ErrNativeStatementFailed = errors.New("native statement failed")
	ErrInvalidScope          = errors.New("invalid scope combination")
	ErrInvalidPrivilege      = errors.New("invalid privilege keyword")
	ErrConnectionFailure     = errors.New("connection failure")
)
