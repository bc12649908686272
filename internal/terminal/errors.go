package terminal

import "errors"

// Sentinel errors for the terminal package.
var (
	// ErrCommandNotFound is returned when the session command is not in PATH.
	ErrCommandNotFound = errors.New("command not found")

	// ErrSessionClosed is returned when operations are attempted on a closed session.
	ErrSessionClosed = errors.New("session is closed")

	// ErrSessionNotFound is returned when a session ID is not found.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidSize is returned when terminal dimensions are invalid.
	ErrInvalidSize = errors.New("invalid terminal size")

	// ErrManagerClosed is returned when operations are attempted on a closed manager.
	ErrManagerClosed = errors.New("session manager is closed")
)
