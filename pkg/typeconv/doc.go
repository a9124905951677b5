// Package typeconv converts between native numeric/text values and raw byte
// sequences for hardware and network I/O.
//
// Every function is pure: it reads only its arguments and returns a freshly
// allocated value, so calls are safe from any goroutine.
//
// # Integers
//
// Signed 16/32/64-bit integers are encoded in either byte order. BigEndian is
// the zero value of ByteOrder and therefore the default:
//
//	b := typeconv.Int32ToBytes(0x01020304, typeconv.BigEndian) // 01 02 03 04
//	v, err := typeconv.BytesToInt32(b, typeconv.LittleEndian)  // 0x04030201
//
// Decoders accept buffers longer than the integer width and read from the
// front, or from an explicit offset with the ...At variants. A buffer too
// short for the requested width yields a *LengthError.
//
// # Unsigned reinterpretation
//
// Registers on most peripherals are unsigned, while the signed Go types are
// what the decoders return. UnsignedByteToInt, UnsignedShortToInt,
// UnsignedByteToFloat64 and UnsignedIntToInt64 reinterpret the bit pattern
// and widen it.
//
// # Text
//
// StringToUTF8 refuses to encode text that would not decode back to the same
// string and returns an *EncodingError instead. UTF8ToString never fails:
// each malformed sequence decodes to U+FFFD.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package typeconv
