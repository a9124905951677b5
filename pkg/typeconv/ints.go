package typeconv

// Int16ToBytes encodes v into 2 bytes using order.
func Int16ToBytes(v int16, order ByteOrder) []byte {
	b := make([]byte, 2)
	order.codec().PutUint16(b, uint16(v))
	return b
}

// Int32ToBytes encodes v into 4 bytes using order.
func Int32ToBytes(v int32, order ByteOrder) []byte {
	b := make([]byte, 4)
	order.codec().PutUint32(b, uint32(v))
	return b
}

// Int64ToBytes encodes v into 8 bytes using order.
func Int64ToBytes(v int64, order ByteOrder) []byte {
	b := make([]byte, 8)
	order.codec().PutUint64(b, uint64(v))
	return b
}

// BytesToInt16 decodes the first 2 bytes of b.
func BytesToInt16(b []byte, order ByteOrder) (int16, error) {
	return BytesToInt16At(b, 0, order)
}

// BytesToInt16At decodes b[off:off+2].
func BytesToInt16At(b []byte, off int, order ByteOrder) (int16, error) {
	w, err := window(b, off, 2, "int16")
	if err != nil {
		return 0, err
	}
	return int16(order.codec().Uint16(w)), nil
}

// BytesToInt32 decodes the first 4 bytes of b.
func BytesToInt32(b []byte, order ByteOrder) (int32, error) {
	return BytesToInt32At(b, 0, order)
}

// BytesToInt32At decodes b[off:off+4].
func BytesToInt32At(b []byte, off int, order ByteOrder) (int32, error) {
	w, err := window(b, off, 4, "int32")
	if err != nil {
		return 0, err
	}
	return int32(order.codec().Uint32(w)), nil
}

// BytesToInt64 decodes the first 8 bytes of b.
func BytesToInt64(b []byte, order ByteOrder) (int64, error) {
	return BytesToInt64At(b, 0, order)
}

// BytesToInt64At decodes b[off:off+8].
func BytesToInt64At(b []byte, off int, order ByteOrder) (int64, error) {
	w, err := window(b, off, 8, "int64")
	if err != nil {
		return 0, err
	}
	return int64(order.codec().Uint64(w)), nil
}

// window returns b[off:off+width] or a *LengthError if it does not fit.
func window(b []byte, off, width int, op string) ([]byte, error) {
	if off < 0 || off > len(b) {
		return nil, &LengthError{Op: op, Offset: off, Need: width, Have: 0}
	}
	if have := len(b) - off; have < width {
		return nil, &LengthError{Op: op, Offset: off, Need: width, Have: have}
	}
	return b[off : off+width], nil
}
