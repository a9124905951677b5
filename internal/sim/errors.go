package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by any access to a closed device.
	ErrClosed = errors.New("sim: device closed")

	// ErrBadRegister is returned for accesses outside the register file.
	ErrBadRegister = errors.New("sim: register out of range")

	// ErrReadOnly is returned when writing a register the device owns.
	ErrReadOnly = errors.New("sim: register is read-only")
)

// RegisterError describes a rejected register access.
type RegisterError struct {
	Device string
	Addr   int
	Len    int
	Err    error
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("%v: %s [0x%02x+%d]", e.Err, e.Device, e.Addr, e.Len)
}

func (e *RegisterError) Unwrap() error {
	return e.Err
}
