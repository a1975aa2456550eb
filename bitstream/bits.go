package bitstream

// BitWriter writes values with bit granularity, LSB-first within each byte.
// The zero value is ready to use.
type BitWriter struct {
	buf    []byte
	bitPos uint
}

// Bytes returns the written bytes. The final byte is zero-padded in its
// unused high bits.
func (w *BitWriter) Bytes() []byte { return w.buf }

// NumBits returns the number of bits written so far.
func (w *BitWriter) NumBits() int {
	return len(w.buf)*8 - int(8-w.bitPos)%8
}

// WriteBit writes the low bit of b.
func (w *BitWriter) WriteBit(b uint32) {
	if w.bitPos == 0 {
		w.buf = append(w.buf, 0)
	}
	if b&1 != 0 {
		w.buf[len(w.buf)-1] |= 1 << w.bitPos
	}
	w.bitPos = (w.bitPos + 1) % 8
}

// WriteBits writes the low n bits of v, least significant first. n must be
// at most 32.
func (w *BitWriter) WriteBits(v uint32, n uint) {
	for i := uint(0); i < n; i++ {
		w.WriteBit(v >> i)
	}
}

// BitReader reads values written by [BitWriter].
type BitReader struct {
	data   []byte
	bitPos int
}

// NewBitReader creates a reader over data.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

// ReadBit reads one bit.
func (r *BitReader) ReadBit() (uint32, error) {
	byteIdx := r.bitPos >> 3
	if byteIdx >= len(r.data) {
		return 0, ErrShortBuffer
	}
	b := uint32(r.data[byteIdx]>>(uint(r.bitPos)&7)) & 1
	r.bitPos++
	return b, nil
}

// ReadBits reads n bits, least significant first. n must be at most 32.
func (r *BitReader) ReadBits(n uint) (uint32, error) {
	var v uint32
	for i := uint(0); i < n; i++ {
		b, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		v |= b << i
	}
	return v, nil
}
