package bitstream

import (
	"bytes"
	"errors"
	"testing"
)

func TestBitWriterLSBFirst(t *testing.T) {
	var w BitWriter
	// Bits 1,0,1,1 fill the low nibble as 0b1101.
	for _, b := range []uint32{1, 0, 1, 1} {
		w.WriteBit(b)
	}
	if got := w.Bytes(); !bytes.Equal(got, []byte{0x0D}) {
		t.Errorf("Bytes = %#v, want [0x0D]", got)
	}
	if w.NumBits() != 4 {
		t.Errorf("NumBits = %d, want 4", w.NumBits())
	}
}

func TestBitRoundTrip(t *testing.T) {
	type field struct {
		v uint32
		n uint
	}
	fields := []field{
		{0, 1},
		{1, 1},
		{5, 3},
		{0xFF, 8},
		{0x12345, 17},
		{0xFFFFFFFF, 32},
		{0, 0},
		{7, 5},
	}

	var w BitWriter
	total := 0
	for _, f := range fields {
		w.WriteBits(f.v, f.n)
		total += int(f.n)
	}
	if w.NumBits() != total {
		t.Errorf("NumBits = %d, want %d", w.NumBits(), total)
	}

	r := NewBitReader(w.Bytes())
	for i, f := range fields {
		got, err := r.ReadBits(f.n)
		if err != nil {
			t.Fatalf("field %d: %v", i, err)
		}
		if got != f.v {
			t.Errorf("field %d = %#x, want %#x", i, got, f.v)
		}
	}
}

func TestBitReaderPastEnd(t *testing.T) {
	r := NewBitReader([]byte{0xAA})
	if _, err := r.ReadBits(8); err != nil {
		t.Fatalf("ReadBits(8): %v", err)
	}
	if _, err := r.ReadBit(); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("error = %v, want ErrShortBuffer", err)
	}
	if _, err := r.ReadBits(4); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("error = %v, want ErrShortBuffer", err)
	}
}

func TestBitWriterPadding(t *testing.T) {
	var w BitWriter
	w.WriteBits(0b101, 3)
	got := w.Bytes()
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	// Unused high bits stay zero.
	if got[0] != 0b101 {
		t.Errorf("byte = %#08b, want 0b00000101", got[0])
	}
}
