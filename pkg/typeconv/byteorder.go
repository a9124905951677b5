package typeconv

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// ByteOrder selects how the bytes of a multi-byte integer are arranged.
// The zero value is BigEndian.
type ByteOrder int

const (
	// BigEndian stores the most significant byte first.
	BigEndian ByteOrder = iota
	// LittleEndian stores the least significant byte first.
	LittleEndian
)

// DefaultByteOrder is used by wire protocols that do not state an order.
const DefaultByteOrder = BigEndian

// String returns a human-readable representation of the byte order.
func (o ByteOrder) String() string {
	switch o {
	case BigEndian:
		return "big-endian"
	case LittleEndian:
		return "little-endian"
	default:
		return "Unknown"
	}
}

// ParseByteOrder maps "big"/"be"/"little"/"le" (any case) to a ByteOrder.
// The empty string yields DefaultByteOrder.
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "big", "be", "big-endian", "bigendian":
		return BigEndian, nil
	case "little", "le", "little-endian", "littleendian":
		return LittleEndian, nil
	default:
		return DefaultByteOrder, fmt.Errorf("typeconv: unknown byte order %q", s)
	}
}

// codec returns the encoding/binary implementation for o. Values other than
// LittleEndian fall back to big-endian.
func (o ByteOrder) codec() binary.ByteOrder {
	if o == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}
