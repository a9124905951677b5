package typeconv

// UnsignedByteToInt treats b as an unsigned byte and returns it in [0, 255].
func UnsignedByteToInt(b int8) int {
	return int(uint8(b))
}

// UnsignedShortToInt treats s as an unsigned short and returns it in [0, 65535].
func UnsignedShortToInt(s int16) int {
	return int(uint16(s))
}

// UnsignedByteToFloat64 treats b as an unsigned byte and returns it in [0, 255].
func UnsignedByteToFloat64(b int8) float64 {
	return float64(uint8(b))
}

// UnsignedIntToInt64 treats i as an unsigned int and returns it in [0, 2^32).
func UnsignedIntToInt64(i int32) int64 {
	return int64(uint32(i))
}

// BytesToUnsignedShortAt decodes b[off:off+2] as an unsigned 16-bit value.
func BytesToUnsignedShortAt(b []byte, off int, order ByteOrder) (int, error) {
	s, err := BytesToInt16At(b, off, order)
	if err != nil {
		return 0, err
	}
	return UnsignedShortToInt(s), nil
}
