package protocol

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Reader parses little-endian message payloads.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over one message payload.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadByte reads 1 byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("ReadByte: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadShort reads uint16 (2 bytes, LE).
func (r *Reader) ReadShort() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("ReadShort: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return val, nil
}

// ReadSignedShort reads int16 (2 bytes, LE). Health is the only signed
// field on the wire.
func (r *Reader) ReadSignedShort() (int16, error) {
	val, err := r.ReadShort()
	if err != nil {
		return 0, fmt.Errorf("ReadSignedShort: %w", err)
	}
	return int16(val), nil
}

// ReadName reads a fixed 32-byte name field, truncated at the first NUL.
func (r *Reader) ReadName() (string, error) {
	raw, err := r.ReadBytes(NameLen)
	if err != nil {
		return "", fmt.Errorf("ReadName: %w", err)
	}
	return nameFromBytes(raw)
}

// ReadBytes reads n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("ReadBytes: negative count %d", n)
	}
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("ReadBytes: not enough data (pos=%d, need=%d, len=%d)", r.pos, n, len(r.data))
	}
	b := make([]byte, n)
	copy(b, r.data[r.pos:r.pos+n])
	r.pos += n
	return b, nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// nameFromBytes converts a fixed name field to a string: truncate at the
// first NUL, then require valid UTF-8.
func nameFromBytes(raw []byte) (string, error) {
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	if !utf8.Valid(raw[:end]) {
		return "", ErrBadText
	}
	return string(raw[:end]), nil
}

// textFromBytes converts a variable-length text field to a string.
func textFromBytes(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", ErrBadText
	}
	return string(raw), nil
}
