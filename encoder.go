// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package meshcodec

import (
	"fmt"
	"sort"

	"github.com/gogpu/meshcodec/bitstream"
	"github.com/gogpu/meshcodec/kdtree"
	"github.com/gogpu/meshcodec/mesh"
	"github.com/gogpu/meshcodec/quant"
)

// StripRestartIndex is the primitive restart value used for strip-encoded
// connectivity inside the bitstream. It cannot collide with a point index:
// point indices are int32-bounded.
const StripRestartIndex uint32 = 0xFFFFFFFF

// Bitstream framing.
var bitstreamMagic = [4]byte{'M', 'C', 'D', '1'}

const (
	geometryPointCloud = 0
	geometryMesh       = 1

	connectivitySequential = 0
	connectivityStrips     = 1
)

// EncodeMesh encodes a triangle mesh. Connectivity is stored as triangle
// strips unless [WithSequentialConnectivity] is set or the mesh's adjacency
// cannot be built (non-manifold input), in which case plain index triples
// are stored and a warning is logged.
func EncodeMesh(m *mesh.Mesh, opts ...Option) ([]byte, error) {
	o := defaultEncodeOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var enc bitstream.EncoderBuffer
	writeHeader(&enc, geometryMesh)
	enc.PutUvarint(uint64(m.NumPoints()))
	enc.PutUvarint(uint64(m.NumFaces()))

	if err := encodeConnectivity(&enc, m, &o); err != nil {
		return nil, err
	}

	// One attributes encoder per attribute. Mesh attributes are mutually
	// independent, so the dependency ordering is the identity here; the
	// point cloud path below exercises the parent-first rearrangement.
	encoders := make([]*attributesEncoder, m.NumAttributes())
	for i := 0; i < m.NumAttributes(); i++ {
		a := m.Attribute(i)
		bits := o.quantizationBits(a.Kind)
		encoders[i] = &attributesEncoder{
			id: i,
			encode: func(enc *bitstream.EncoderBuffer) error {
				return encodeAttribute(enc, a, a.Values(), bits)
			},
		}
	}
	if err := encodeAttributes(&enc, encoders); err != nil {
		return nil, err
	}

	Logger().Debug("meshcodec: encoded mesh",
		"points", m.NumPoints(), "faces", m.NumFaces(), "bytes", enc.Len())
	return enc.Bytes(), nil
}

// EncodePointCloud encodes a point cloud (the faces of m, if any, are
// ignored). Positions are quantized and stored with the KD-tree codec;
// remaining attributes are reordered to match the decoder's point order and
// encoded after the positions they depend on.
func EncodePointCloud(m *mesh.Mesh, opts ...Option) ([]byte, error) {
	o := defaultEncodeOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pos := m.NamedAttribute(mesh.Position)
	if pos == nil || pos.NumComponents() < 3 {
		return nil, fmt.Errorf("meshcodec: %w", mesh.ErrNoPositionAttribute)
	}
	bits := o.quantizationBits(mesh.Position)
	if bits < 1 || bits > kdtree.MaxBitLength {
		bits = DefaultQuantizationBits
	}

	var enc bitstream.EncoderBuffer
	writeHeader(&enc, geometryPointCloud)
	enc.PutUvarint(uint64(m.NumPoints()))

	// The position encoder produces the KD permutation every other encoder
	// needs, so it is marked as their parent and encoded first.
	var order []int32
	encoders := []*attributesEncoder{{
		id: 0,
		encode: func(enc *bitstream.EncoderBuffer) error {
			var err error
			order, err = encodeKdPositions(enc, m, pos, bits)
			return err
		},
	}}
	for i := 0; i < m.NumAttributes(); i++ {
		a := m.Attribute(i)
		if a == pos {
			continue
		}
		encoders = append(encoders, &attributesEncoder{
			id:      len(encoders),
			parents: []int{0},
			encode: func(enc *bitstream.EncoderBuffer) error {
				return encodeAttribute(enc, a, reorderPointValues(a, order), o.quantizationBits(a.Kind))
			},
		})
	}
	if err := encodeAttributes(&enc, encoders); err != nil {
		return nil, err
	}

	Logger().Debug("meshcodec: encoded point cloud",
		"points", m.NumPoints(), "bits", bits, "bytes", enc.Len())
	return enc.Bytes(), nil
}

func writeHeader(enc *bitstream.EncoderBuffer, geometry byte) {
	enc.PutBytes(bitstreamMagic[:])
	enc.PutByte(BitstreamVersionMajor)
	enc.PutByte(BitstreamVersionMinor)
	enc.PutByte(geometry)
}

// encodeConnectivity stores the mesh's faces, preferring triangle strips.
func encodeConnectivity(enc *bitstream.EncoderBuffer, m *mesh.Mesh, o *encodeOptions) error {
	if !o.sequential {
		sf := mesh.NewStripifier()
		var w mesh.IndexSliceWriter
		err := sf.GenerateWithPrimitiveRestart(m, StripRestartIndex, &w)
		if err == nil {
			enc.PutByte(connectivityStrips)
			enc.PutUvarint(uint64(len(w.Indices)))
			for _, v := range w.Indices {
				enc.PutUvarint(uint64(v))
			}
			Logger().Debug("meshcodec: strip connectivity",
				"strips", sf.NumStrips(), "indices", len(w.Indices))
			return nil
		}
		Logger().Warn("meshcodec: falling back to sequential connectivity", "err", err)
	}

	enc.PutByte(connectivitySequential)
	for f := 0; f < m.NumFaces(); f++ {
		face := m.Face(mesh.FaceIndex(f))
		for _, p := range face {
			enc.PutUvarint(uint64(p))
		}
	}
	return nil
}

// encodeKdPositions quantizes per-point positions and stores them with the
// KD-tree codec. It returns the emit-order permutation.
func encodeKdPositions(enc *bitstream.EncoderBuffer, m *mesh.Mesh, pos *mesh.Attribute, bits int) ([]int32, error) {
	n := m.NumPoints()
	values := make([]float32, 0, 3*n)
	for p := 0; p < n; p++ {
		v := pos.PointValue(mesh.PointIndex(p))
		values = append(values, v[0], v[1], v[2])
	}

	mins, rangeMax := valueBounds(values, 3)
	maxQuantized := uint32(1)<<uint(bits) - 1
	var q quant.Quantizer
	q.Init(rangeMax, maxQuantized)

	points := make([]kdtree.Point, n)
	for p := 0; p < n; p++ {
		for c := 0; c < 3; c++ {
			points[p][c] = q.QuantizeFloat(values[3*p+c] - mins[c])
		}
	}

	for c := 0; c < 3; c++ {
		enc.PutFloat32(mins[c])
	}
	enc.PutFloat32(rangeMax)
	enc.PutByte(byte(bits))

	var bw bitstream.BitWriter
	order, err := kdtree.Encode(points, bits, &bw)
	if err != nil {
		return nil, fmt.Errorf("meshcodec: %w", err)
	}
	payload := bw.Bytes()
	enc.PutUvarint(uint64(len(payload)))
	enc.PutBytes(payload)
	return order, nil
}

// encodeAttribute writes one self-describing attribute record. values holds
// the flat value data to store, which may differ from a.Values() when the
// caller reordered it.
func encodeAttribute(enc *bitstream.EncoderBuffer, a *mesh.Attribute, values []float32, bits int) error {
	enc.PutByte(byte(a.Kind))
	enc.PutString(a.Name)
	enc.PutByte(byte(a.NumComponents()))
	enc.PutUvarint(uint64(len(values) / a.NumComponents()))

	if pm := a.PointMap(); pm != nil {
		enc.PutByte(1)
		for _, vi := range pm {
			enc.PutUvarint(uint64(vi))
		}
	} else {
		enc.PutByte(0)
	}

	enc.PutByte(byte(bits))
	if bits == 0 {
		for _, v := range values {
			enc.PutFloat32(v)
		}
		return nil
	}
	if err := quant.QuantizeValues(values, a.NumComponents(), bits, enc); err != nil {
		return fmt.Errorf("meshcodec: attribute %v: %w", a.Kind, err)
	}
	return nil
}

// reorderPointValues flattens per-point values of a into the decoder's
// point order. The resulting data has one value per point (identity map).
func reorderPointValues(a *mesh.Attribute, order []int32) []float32 {
	nc := a.NumComponents()
	out := make([]float32, 0, len(order)*nc)
	for _, p := range order {
		out = append(out, a.PointValue(mesh.PointIndex(p))...)
	}
	return out
}

func valueBounds(values []float32, components int) ([]float32, float32) {
	mins := make([]float32, components)
	maxs := make([]float32, components)
	for c := 0; c < components; c++ {
		if len(values) > 0 {
			mins[c] = values[c]
			maxs[c] = values[c]
		}
	}
	for i, v := range values {
		c := i % components
		if v < mins[c] {
			mins[c] = v
		}
		if v > maxs[c] {
			maxs[c] = v
		}
	}
	var rangeMax float32
	for c := 0; c < components; c++ {
		if r := maxs[c] - mins[c]; r > rangeMax {
			rangeMax = r
		}
	}
	return mins, rangeMax
}

// attributesEncoder encodes one attribute's data into the shared buffer.
// Parents are encoder ids that must be encoded first; they produce data the
// child depends on (the KD permutation, for point clouds).
type attributesEncoder struct {
	id      int
	parents []int
	encode  func(*bitstream.EncoderBuffer) error
}

// encodeAttributes writes the attribute count followed by every record in
// dependency order.
func encodeAttributes(enc *bitstream.EncoderBuffer, encoders []*attributesEncoder) error {
	order, err := rearrangeAttributesEncoders(encoders)
	if err != nil {
		return err
	}
	enc.PutUvarint(uint64(len(encoders)))
	for _, id := range order {
		if err := encoders[id].encode(enc); err != nil {
			return err
		}
	}
	return nil
}

// rearrangeAttributesEncoders orders encoders so that every parent is
// processed before its children, preserving id order among ready encoders.
func rearrangeAttributesEncoders(encoders []*attributesEncoder) ([]int, error) {
	done := make([]bool, len(encoders))
	order := make([]int, 0, len(encoders))
	for len(order) < len(encoders) {
		ready := make([]int, 0, len(encoders))
		for _, e := range encoders {
			if done[e.id] {
				continue
			}
			ok := true
			for _, p := range e.parents {
				if !done[p] {
					ok = false
					break
				}
			}
			if ok {
				ready = append(ready, e.id)
			}
		}
		if len(ready) == 0 {
			return nil, fmt.Errorf("meshcodec: cyclic attribute encoder dependency")
		}
		sort.Ints(ready)
		for _, id := range ready {
			done[id] = true
			order = append(order, id)
		}
	}
	return order, nil
}
