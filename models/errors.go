package models

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed relay errors below.
var (
	ErrAuthentication = errors.New("authentication error")
	ErrUnknownRoom    = errors.New("unknown room")
	ErrValidation     = errors.New("validation error")
)

// AuthenticationError is returned when a connection cannot be bound to an identity.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error: %s", e.Reason)
}

// Is reports whether target is ErrAuthentication.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// UnknownRoomError is returned when an event references a room that does not
// exist, or one the caller is not a participant of.
type UnknownRoomError struct {
	RoomID string
}

func (e *UnknownRoomError) Error() string {
	return fmt.Sprintf("unknown room %q", e.RoomID)
}

// Is reports whether target is ErrUnknownRoom.
func (e *UnknownRoomError) Is(target error) bool {
	return target == ErrUnknownRoom
}

// ValidationError is returned when an inbound event is missing or has malformed fields.
type ValidationError struct {
	Event string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Event == "" {
		return fmt.Sprintf("validation error: %v", e.Err)
	}
	return fmt.Sprintf("validation error on %s: %v", e.Event, e.Err)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
