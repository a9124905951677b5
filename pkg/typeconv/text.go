package typeconv

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

const (
	charsetUTF8    = "UTF-8"
	charsetUTF16BE = "UTF-16BE"
	charsetUTF16LE = "UTF-16LE"
)

// StringToUTF8 encodes s as UTF-8 and verifies that decoding the result
// yields s again. Strings holding ill-formed sequences, such as encoded
// surrogate halves, fail with an *EncodingError.
func StringToUTF8(s string) ([]byte, error) {
	encoded, err := unicode.UTF8.NewEncoder().String(s)
	if err != nil {
		return nil, fmt.Errorf("typeconv: encode %s: %w", charsetUTF8, err)
	}

	if roundTrip := UTF8ToString([]byte(encoded)); roundTrip != s {
		return nil, &EncodingError{Charset: charsetUTF8, Original: s, RoundTrip: roundTrip}
	}
	return []byte(encoded), nil
}

// UTF8ToString decodes b as UTF-8. Each malformed sequence is replaced with
// U+FFFD; the result is the same for the same input.
func UTF8ToString(b []byte) string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		// The UTF-8 decoder substitutes instead of failing.
		return string(bytes.ToValidUTF8(b, []byte("\uFFFD")))
	}
	return string(decoded)
}

// UTF16ToUTF8 converts UTF-16 code units stored in b using order into UTF-8.
// An odd-length buffer fails with a *LengthError and an unpaired surrogate
// with an *EncodingError. Byte order marks are kept as U+FEFF.
func UTF16ToUTF8(b []byte, order ByteOrder) ([]byte, error) {
	if len(b)%2 != 0 {
		return nil, &LengthError{Op: "utf16", Offset: len(b) - 1, Need: 2, Have: 1}
	}

	charset := charsetUTF16BE
	endianness := unicode.BigEndian
	if order == LittleEndian {
		charset = charsetUTF16LE
		endianness = unicode.LittleEndian
	}
	enc := unicode.UTF16(endianness, unicode.IgnoreBOM)

	decoded, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return nil, fmt.Errorf("typeconv: decode %s: %w", charset, err)
	}
	reencoded, err := enc.NewEncoder().Bytes(decoded)
	if err != nil {
		return nil, fmt.Errorf("typeconv: encode %s: %w", charset, err)
	}
	if !bytes.Equal(reencoded, b) {
		return nil, &EncodingError{
			Charset:   charset,
			Original:  hex.EncodeToString(b),
			RoundTrip: hex.EncodeToString(reencoded),
		}
	}
	return decoded, nil
}
