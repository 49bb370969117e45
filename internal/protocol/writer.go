package protocol

// Append helpers for building wire frames. All multi-byte values are LE.

func appendShort(dst []byte, v uint16) []byte {
	return append(dst, byte(v), byte(v>>8))
}

func appendSignedShort(dst []byte, v int16) []byte {
	return appendShort(dst, uint16(v))
}

// appendName writes a fixed 32-byte name field, NUL-padded. Names longer
// than the field are cut at the field boundary.
func appendName(dst []byte, s string) []byte {
	b := []byte(s)
	if len(b) > NameLen {
		b = b[:NameLen]
	}
	dst = append(dst, b...)
	for i := NameLen - len(b); i > 0; i-- {
		dst = append(dst, 0)
	}
	return dst
}
