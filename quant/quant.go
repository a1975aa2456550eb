// Package quant implements scalar quantization of floating point attribute
// data. Values are mapped onto a uniform integer grid spanning the value
// range; dequantization restores them with a maximum error of half a grid
// step.
package quant

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/gogpu/meshcodec/bitstream"
)

// MaxBits is the largest supported quantization precision.
const MaxBits = 30

// Quantization failures.
var (
	// ErrInvalidBits reports a precision outside [1, MaxBits].
	ErrInvalidBits = errors.New("quant: quantization bits out of range")

	// ErrBadData reports a quantized payload inconsistent with its header.
	ErrBadData = errors.New("quant: corrupt quantized data")
)

// Quantizer maps floats from [0, rangeMax] onto [0, maxQuantizedValue].
type Quantizer struct {
	inverseDelta float32
}

// Init configures the quantizer for the given value range and largest
// quantized value. A non-positive range maps every value to zero.
func (q *Quantizer) Init(rangeMax float32, maxQuantizedValue uint32) {
	if rangeMax > 0 {
		q.inverseDelta = float32(maxQuantizedValue) / rangeMax
	} else {
		q.inverseDelta = 0
	}
}

// QuantizeFloat quantizes v, rounding to the nearest grid value.
func (q *Quantizer) QuantizeFloat(v float32) uint32 {
	return uint32(math32.Floor(v*q.inverseDelta + 0.5))
}

// Dequantizer inverts a [Quantizer] with the same parameters.
type Dequantizer struct {
	delta float32
}

// Init configures the dequantizer for the given value range and largest
// quantized value.
func (d *Dequantizer) Init(rangeMax float32, maxQuantizedValue uint32) {
	if maxQuantizedValue > 0 {
		d.delta = rangeMax / float32(maxQuantizedValue)
	} else {
		d.delta = 0
	}
}

// DequantizeFloat restores the float represented by the quantized value v.
func (d *Dequantizer) DequantizeFloat(v uint32) float32 {
	return float32(v) * d.delta
}

// QuantizeValues quantizes flat attribute data (len(values) must be a
// multiple of components) to the given precision and writes it to enc.
//
// Layout: one float32 minimum per component, the float32 maximum component
// range, one byte of precision, then the quantized values as uvarints in
// value-major order.
func QuantizeValues(values []float32, components, bits int, enc *bitstream.EncoderBuffer) error {
	if bits < 1 || bits > MaxBits {
		return fmt.Errorf("%w: %d", ErrInvalidBits, bits)
	}

	mins := make([]float32, components)
	maxs := make([]float32, components)
	for c := 0; c < components; c++ {
		mins[c] = math32.Inf(1)
		maxs[c] = math32.Inf(-1)
	}
	for i, v := range values {
		c := i % components
		mins[c] = math32.Min(mins[c], v)
		maxs[c] = math32.Max(maxs[c], v)
	}

	var rangeMax float32
	if len(values) == 0 {
		for c := range mins {
			mins[c] = 0
		}
	} else {
		for c := 0; c < components; c++ {
			rangeMax = math32.Max(rangeMax, maxs[c]-mins[c])
		}
	}

	for c := 0; c < components; c++ {
		enc.PutFloat32(mins[c])
	}
	enc.PutFloat32(rangeMax)
	enc.PutByte(byte(bits))

	maxQuantized := uint32(1)<<uint(bits) - 1
	var q Quantizer
	q.Init(rangeMax, maxQuantized)
	for i, v := range values {
		enc.PutUvarint(uint64(q.QuantizeFloat(v - mins[i%components])))
	}
	return nil
}

// DequantizeValues reads numValues quantized values of the given component
// count from dec and restores the floats.
func DequantizeValues(dec *bitstream.DecoderBuffer, components, numValues int) ([]float32, error) {
	mins := make([]float32, components)
	for c := range mins {
		v, err := dec.Float32()
		if err != nil {
			return nil, err
		}
		mins[c] = v
	}
	rangeMax, err := dec.Float32()
	if err != nil {
		return nil, err
	}
	bits, err := dec.Byte()
	if err != nil {
		return nil, err
	}
	if bits < 1 || bits > MaxBits {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBits, bits)
	}

	maxQuantized := uint32(1)<<uint(bits) - 1
	var dq Dequantizer
	dq.Init(rangeMax, maxQuantized)

	out := make([]float32, numValues*components)
	for i := range out {
		v, err := dec.Uvarint()
		if err != nil {
			return nil, err
		}
		if v > uint64(maxQuantized) {
			return nil, fmt.Errorf("%w: value %d exceeds %d", ErrBadData, v, maxQuantized)
		}
		out[i] = dq.DequantizeFloat(uint32(v)) + mins[i%components]
	}
	return out, nil
}
