package bitstream

import (
	"encoding/binary"
	"errors"
	"math"
)

// Decoding failures. Both indicate a truncated or corrupt stream.
var (
	// ErrShortBuffer reports a read past the end of the buffer.
	ErrShortBuffer = errors.New("bitstream: unexpected end of buffer")

	// ErrBadVarint reports a malformed varint.
	ErrBadVarint = errors.New("bitstream: malformed varint")
)

// EncoderBuffer accumulates encoded output. The zero value is ready to use.
// All scalar encodings are little-endian.
type EncoderBuffer struct {
	buf []byte
}

// Bytes returns the accumulated output. The slice is valid until the next
// write.
func (e *EncoderBuffer) Bytes() []byte { return e.buf }

// Len returns the number of bytes written so far.
func (e *EncoderBuffer) Len() int { return len(e.buf) }

// Reset discards all accumulated output, retaining the backing array.
func (e *EncoderBuffer) Reset() { e.buf = e.buf[:0] }

// PutByte appends a single byte.
func (e *EncoderBuffer) PutByte(b byte) { e.buf = append(e.buf, b) }

// PutUint16 appends a little-endian uint16.
func (e *EncoderBuffer) PutUint16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

// PutUint32 appends a little-endian uint32.
func (e *EncoderBuffer) PutUint32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

// PutUint64 appends a little-endian uint64.
func (e *EncoderBuffer) PutUint64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

// PutFloat32 appends the IEEE 754 bits of f, little-endian.
func (e *EncoderBuffer) PutFloat32(f float32) {
	e.PutUint32(math.Float32bits(f))
}

// PutUvarint appends v in unsigned varint encoding.
func (e *EncoderBuffer) PutUvarint(v uint64) {
	e.buf = binary.AppendUvarint(e.buf, v)
}

// PutBytes appends raw bytes.
func (e *EncoderBuffer) PutBytes(p []byte) { e.buf = append(e.buf, p...) }

// PutString appends a uvarint length prefix followed by the string bytes.
func (e *EncoderBuffer) PutString(s string) {
	e.PutUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// DecoderBuffer reads sequentially from an encoded byte slice. It does not
// copy the data; the slice must stay unmodified for the decoder's lifetime.
type DecoderBuffer struct {
	data []byte
	pos  int
}

// NewDecoderBuffer creates a decoder over data.
func NewDecoderBuffer(data []byte) *DecoderBuffer {
	return &DecoderBuffer{data: data}
}

// Remaining returns the number of unread bytes.
func (d *DecoderBuffer) Remaining() int { return len(d.data) - d.pos }

// Byte reads a single byte.
func (d *DecoderBuffer) Byte() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, ErrShortBuffer
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

// Uint16 reads a little-endian uint16.
func (d *DecoderBuffer) Uint16() (uint16, error) {
	if d.pos+2 > len(d.data) {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint16(d.data[d.pos:])
	d.pos += 2
	return v, nil
}

// Uint32 reads a little-endian uint32.
func (d *DecoderBuffer) Uint32() (uint32, error) {
	if d.pos+4 > len(d.data) {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

// Uint64 reads a little-endian uint64.
func (d *DecoderBuffer) Uint64() (uint64, error) {
	if d.pos+8 > len(d.data) {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint64(d.data[d.pos:])
	d.pos += 8
	return v, nil
}

// Float32 reads a little-endian IEEE 754 float32.
func (d *DecoderBuffer) Float32() (float32, error) {
	v, err := d.Uint32()
	return math.Float32frombits(v), err
}

// Uvarint reads an unsigned varint.
func (d *DecoderBuffer) Uvarint() (uint64, error) {
	v, n := binary.Uvarint(d.data[d.pos:])
	if n == 0 {
		return 0, ErrShortBuffer
	}
	if n < 0 {
		return 0, ErrBadVarint
	}
	d.pos += n
	return v, nil
}

// BytesN reads n raw bytes, returned as a subslice of the underlying data.
func (d *DecoderBuffer) BytesN(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.data) {
		return nil, ErrShortBuffer
	}
	p := d.data[d.pos : d.pos+n]
	d.pos += n
	return p, nil
}

// String reads a uvarint length prefix followed by that many string bytes.
func (d *DecoderBuffer) String() (string, error) {
	n, err := d.Uvarint()
	if err != nil {
		return "", err
	}
	p, err := d.BytesN(int(n))
	if err != nil {
		return "", err
	}
	return string(p), nil
}
