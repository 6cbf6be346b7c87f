package entity

import "errors"

// Domain errors for the study engine.
var (
	ErrSessionAlreadyActive = errors.New("a study session is already active")
	ErrNoActiveSession      = errors.New("no active study session")
	ErrProfileNotLoaded     = errors.New("user profile not loaded")
	ErrInvalidQuestion      = errors.New("invalid quiz question")
	ErrInvalidMode          = errors.New("invalid learning mode")
	ErrInvalidWritingSystem = errors.New("invalid writing system")
	ErrDeckNotFound         = errors.New("deck not found")
	ErrInvalidDeckName      = errors.New("invalid deck name")
	ErrCharacterNotFound    = errors.New("character not found")
	ErrEmptyCharacterPool   = errors.New("no characters to quiz")
	ErrCorruptState         = errors.New("stored state is malformed")
	ErrInvalidSnapshot      = errors.New("invalid backup snapshot")
	ErrInvalidProfileName   = errors.New("invalid profile name")
)
