package typeconv

import (
	"errors"
	"fmt"
)

// Common conversion errors, matched with errors.Is.
var (
	// ErrShortBuffer is matched by every *LengthError.
	ErrShortBuffer = errors.New("typeconv: short buffer")

	// ErrNotRoundTrippable is matched by every *EncodingError.
	ErrNotRoundTrippable = errors.New("typeconv: text not round-trippable")
)

// LengthError reports a decode that needed more bytes than the buffer holds
// at the requested offset.
type LengthError struct {
	// Op names the decoded type, e.g. "int32".
	Op string
	// Offset is the requested starting offset.
	Offset int
	// Need is the number of bytes the decode consumes.
	Need int
	// Have is the number of bytes available from Offset, zero when Offset is
	// outside the buffer.
	Have int
}

// Error returns a formatted error message
func (e *LengthError) Error() string {
	return fmt.Sprintf("typeconv: %s at offset %d needs %d bytes, have %d", e.Op, e.Offset, e.Need, e.Have)
}

// Is reports whether target is ErrShortBuffer.
func (e *LengthError) Is(target error) bool {
	return target == ErrShortBuffer
}

// EncodingError reports text that does not survive an encode/decode round trip.
type EncodingError struct {
	// Charset is the target encoding, e.g. "UTF-8".
	Charset string
	// Original is the text handed to the encoder. For byte-level sources
	// (UTF-16 input) it holds a hex dump of the input.
	Original string
	// RoundTrip is what decoding the encoded form produced, or a hex dump of
	// the re-encoded bytes for byte-level sources.
	RoundTrip string
}

// Error returns a formatted error message
func (e *EncodingError) Error() string {
	return fmt.Sprintf("typeconv: string cannot be cleanly encoded into %s - %q -> %q", e.Charset, e.Original, e.RoundTrip)
}

// Is reports whether target is ErrNotRoundTrippable.
func (e *EncodingError) Is(target error) bool {
	return target == ErrNotRoundTrippable
}
