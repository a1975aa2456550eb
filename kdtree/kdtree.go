// Package kdtree implements a lossless codec for sets of integer 3D points.
//
// The codec recursively bisects the cube [0, 2^bits)^3, cycling through the
// three axes, and transmits only the population of the lower half of each
// split; point coordinates are never written explicitly. Cost approaches
// the entropy of the point set, which makes the scheme effective for the
// quantized position data produced by the point cloud encoder.
//
// The codec preserves the multiset of points but not their order: the
// decoder emits points in canonical KD order. [Encode] reports the
// resulting permutation so callers can reorder per-point payloads to match.
package kdtree

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/gogpu/meshcodec/bitstream"
)

// MaxBitLength is the largest supported coordinate precision.
const MaxBitLength = 30

// Codec failures.
var (
	// ErrBitLength reports a precision outside [1, MaxBitLength].
	ErrBitLength = errors.New("kdtree: bit length out of range")

	// ErrOutOfRange reports a point coordinate not representable in the
	// configured precision.
	ErrOutOfRange = errors.New("kdtree: point coordinate exceeds bit length")

	// ErrCorrupt reports an inconsistent encoded stream.
	ErrCorrupt = errors.New("kdtree: corrupt stream")
)

// Point is an integer 3D point.
type Point [3]uint32

// Encode writes the points to w using bitLength bits per coordinate. The
// point count and precision are not part of the payload; the caller
// transmits them out of band and passes them to [Decode].
//
// The returned slice maps decoder emit order to input order: entry i is the
// index of the input point that [Decode] will produce at position i.
func Encode(points []Point, bitLength int, w *bitstream.BitWriter) ([]int32, error) {
	if bitLength < 1 || bitLength > MaxBitLength {
		return nil, fmt.Errorf("%w: %d", ErrBitLength, bitLength)
	}
	limit := uint32(1) << uint(bitLength)
	for i, p := range points {
		if p[0] >= limit || p[1] >= limit || p[2] >= limit {
			return nil, fmt.Errorf("%w: point %d = %v, limit %d", ErrOutOfRange, i, p, limit)
		}
	}

	pts := make([]Point, len(points))
	copy(pts, points)
	order := make([]int32, len(points))
	for i := range order {
		order[i] = int32(i)
	}

	e := encoder{bitLength: bitLength, w: w}
	e.split(pts, order, 0)
	return order, nil
}

// Decode reads numPoints points encoded with the given precision from r.
// Points are emitted in canonical KD order.
func Decode(numPoints, bitLength int, r *bitstream.BitReader) ([]Point, error) {
	if bitLength < 1 || bitLength > MaxBitLength {
		return nil, fmt.Errorf("%w: %d", ErrBitLength, bitLength)
	}
	if numPoints < 0 {
		return nil, ErrCorrupt
	}

	d := decoder{bitLength: bitLength, r: r}
	out := make([]Point, 0, numPoints)
	if err := d.split(numPoints, Point{}, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type encoder struct {
	bitLength int
	w         *bitstream.BitWriter
}

// split partitions pts on the bit selected by level and recurses. Level
// walks axes x, y, z at each bit position, most significant first; at full
// depth all points of a cell are identical and nothing remains to encode.
func (e *encoder) split(pts []Point, order []int32, level int) {
	n := len(pts)
	if n == 0 || level == 3*e.bitLength {
		return
	}
	axis := level % 3
	bitPos := uint(e.bitLength - 1 - level/3)

	left := 0
	for k := 0; k < n; k++ {
		if (pts[k][axis]>>bitPos)&1 == 0 {
			pts[k], pts[left] = pts[left], pts[k]
			order[k], order[left] = order[left], order[k]
			left++
		}
	}

	e.w.WriteBits(uint32(left), uint(bits.Len(uint(n))))
	e.split(pts[:left], order[:left], level+1)
	e.split(pts[left:], order[left:], level+1)
}

type decoder struct {
	bitLength int
	r         *bitstream.BitReader
}

func (d *decoder) split(n int, base Point, level int, out *[]Point) error {
	if n == 0 {
		return nil
	}
	if level == 3*d.bitLength {
		for i := 0; i < n; i++ {
			*out = append(*out, base)
		}
		return nil
	}
	axis := level % 3
	bitPos := uint(d.bitLength - 1 - level/3)

	left, err := d.r.ReadBits(uint(bits.Len(uint(n))))
	if err != nil {
		return err
	}
	if int(left) > n {
		return fmt.Errorf("%w: left population %d of %d", ErrCorrupt, left, n)
	}

	if err := d.split(int(left), base, level+1, out); err != nil {
		return err
	}
	upper := base
	upper[axis] |= 1 << bitPos
	return d.split(n-int(left), upper, level+1, out)
}
