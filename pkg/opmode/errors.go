package opmode

import (
	"errors"
	"fmt"
)

// Common op mode errors.
var (
	// ErrInvalidTransition is returned when an operation is not valid in the
	// current state. No hook runs.
	ErrInvalidTransition = errors.New("opmode: invalid transition")

	// ErrSessionEnded is returned for any operation on a Stopped controller.
	ErrSessionEnded = errors.New("opmode: session ended")

	// ErrNilOpMode is returned when a controller is built without an op mode.
	ErrNilOpMode = errors.New("opmode: nil op mode")

	// ErrNilContext is returned when a controller is built without a context
	// or the context has no telemetry sink.
	ErrNilContext = errors.New("opmode: incomplete context")

	// ErrUnknownOpMode is returned by Registry lookups for unregistered names.
	ErrUnknownOpMode = errors.New("opmode: unknown op mode")

	// ErrDuplicateOpMode is returned when a name is registered twice.
	ErrDuplicateOpMode = errors.New("opmode: duplicate op mode")

	// ErrInvalidEntry is returned when a registry entry lacks a name or factory.
	ErrInvalidEntry = errors.New("opmode: invalid registry entry")

	// ErrDeviceNotFound is returned when the hardware map has no such device.
	ErrDeviceNotFound = errors.New("opmode: device not found")

	// ErrDeviceType is returned when a device exists with another type.
	ErrDeviceType = errors.New("opmode: device has unexpected type")

	// ErrDuplicateDevice is returned when a device name is added twice.
	ErrDuplicateDevice = errors.New("opmode: duplicate device")
)

// TransitionError reports an operation attempted from the wrong state.
type TransitionError struct {
	From State
	To   State
	Err  error
}

// Error returns a formatted error message
func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: %s -> %s", e.Err, e.From, e.To)
}

// Unwrap returns the underlying error for error chain inspection
func (e *TransitionError) Unwrap() error {
	return e.Err
}

// HookError reports a failed or panicking hook.
type HookError struct {
	// Hook is the hook that failed.
	Hook Hook
	// Panic holds the recovered value when the hook panicked.
	Panic interface{}
	// Err is the error the hook returned, or one describing the panic.
	Err error
}

// Error returns a formatted error message
func (e *HookError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("opmode: %s panicked: %v", e.Hook, e.Panic)
	}
	return fmt.Sprintf("opmode: %s: %v", e.Hook, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *HookError) Unwrap() error {
	return e.Err
}
