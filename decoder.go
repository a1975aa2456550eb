// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package meshcodec

import (
	"bytes"
	"fmt"

	"github.com/gogpu/meshcodec/bitstream"
	"github.com/gogpu/meshcodec/kdtree"
	"github.com/gogpu/meshcodec/mesh"
	"github.com/gogpu/meshcodec/quant"
)

// Decode decodes a bitstream produced by [EncodeMesh] or
// [EncodePointCloud]. A point cloud decodes to a mesh with zero faces.
func Decode(data []byte) (*mesh.Mesh, error) {
	dec := bitstream.NewDecoderBuffer(data)

	magic, err := dec.BytesN(len(bitstreamMagic))
	if err != nil || !bytes.Equal(magic, bitstreamMagic[:]) {
		return nil, ErrInvalidFormat
	}
	major, err := dec.Byte()
	if err != nil {
		return nil, ErrInvalidFormat
	}
	if _, err := dec.Byte(); err != nil { // minor version, ignored
		return nil, ErrInvalidFormat
	}
	if major != BitstreamVersionMajor {
		return nil, fmt.Errorf("%w: major %d", ErrUnsupportedVersion, major)
	}
	geometry, err := dec.Byte()
	if err != nil {
		return nil, ErrInvalidFormat
	}

	switch geometry {
	case geometryMesh:
		return decodeMesh(dec)
	case geometryPointCloud:
		return decodePointCloud(dec)
	default:
		return nil, fmt.Errorf("%w: geometry type %d", ErrInvalidFormat, geometry)
	}
}

func decodeMesh(dec *bitstream.DecoderBuffer) (*mesh.Mesh, error) {
	numPoints, err := dec.Uvarint()
	if err != nil {
		return nil, ErrInvalidFormat
	}
	numFaces, err := dec.Uvarint()
	if err != nil {
		return nil, ErrInvalidFormat
	}

	m := mesh.New(int(numPoints))
	if err := decodeConnectivity(dec, m, int(numFaces), int(numPoints)); err != nil {
		return nil, err
	}
	if err := decodeAttributes(dec, m, int(numPoints)); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeConnectivity(dec *bitstream.DecoderBuffer, m *mesh.Mesh, numFaces, numPoints int) error {
	method, err := dec.Byte()
	if err != nil {
		return ErrInvalidFormat
	}

	switch method {
	case connectivityStrips:
		numIndices, err := dec.Uvarint()
		if err != nil {
			return ErrInvalidFormat
		}
		indices := make([]uint32, numIndices)
		for i := range indices {
			v, err := dec.Uvarint()
			if err != nil {
				return ErrInvalidFormat
			}
			indices[i] = uint32(v)
		}
		mesh.UnpackStrips(indices, StripRestartIndex, m.AddFace)

	case connectivitySequential:
		for f := 0; f < numFaces; f++ {
			var face mesh.Face
			for c := range face {
				v, err := dec.Uvarint()
				if err != nil {
					return ErrInvalidFormat
				}
				face[c] = mesh.PointIndex(v)
			}
			m.AddFace(face)
		}

	default:
		return fmt.Errorf("%w: connectivity method %d", ErrInvalidFormat, method)
	}

	if m.NumFaces() != numFaces {
		return fmt.Errorf("%w: face count %d, header says %d",
			ErrInvalidFormat, m.NumFaces(), numFaces)
	}
	for f := 0; f < numFaces; f++ {
		for _, p := range m.Face(mesh.FaceIndex(f)) {
			if p < 0 || int(p) >= numPoints {
				return fmt.Errorf("%w: face %d references point %d of %d",
					ErrInvalidFormat, f, p, numPoints)
			}
		}
	}
	return nil
}

func decodePointCloud(dec *bitstream.DecoderBuffer) (*mesh.Mesh, error) {
	numPoints, err := dec.Uvarint()
	if err != nil {
		return nil, ErrInvalidFormat
	}

	m := mesh.New(int(numPoints))
	if err := decodeKdPositions(dec, m, int(numPoints)); err != nil {
		return nil, err
	}
	if err := decodeAttributes(dec, m, int(numPoints)); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeKdPositions(dec *bitstream.DecoderBuffer, m *mesh.Mesh, numPoints int) error {
	var mins [3]float32
	for c := range mins {
		v, err := dec.Float32()
		if err != nil {
			return ErrInvalidFormat
		}
		mins[c] = v
	}
	rangeMax, err := dec.Float32()
	if err != nil {
		return ErrInvalidFormat
	}
	bits, err := dec.Byte()
	if err != nil {
		return ErrInvalidFormat
	}
	payloadLen, err := dec.Uvarint()
	if err != nil {
		return ErrInvalidFormat
	}
	payload, err := dec.BytesN(int(payloadLen))
	if err != nil {
		return ErrInvalidFormat
	}

	points, err := kdtree.Decode(numPoints, int(bits), bitstream.NewBitReader(payload))
	if err != nil {
		return fmt.Errorf("meshcodec: %w", err)
	}

	maxQuantized := uint32(1)<<uint(bits) - 1
	var dq quant.Dequantizer
	dq.Init(rangeMax, maxQuantized)

	values := make([]float32, 0, 3*numPoints)
	for _, p := range points {
		for c := 0; c < 3; c++ {
			values = append(values, dq.DequantizeFloat(p[c])+mins[c])
		}
	}
	m.AddAttribute(mesh.NewAttribute(mesh.Position, 3, values))
	return nil
}

func decodeAttributes(dec *bitstream.DecoderBuffer, m *mesh.Mesh, numPoints int) error {
	count, err := dec.Uvarint()
	if err != nil {
		return ErrInvalidFormat
	}
	for i := uint64(0); i < count; i++ {
		if err := decodeAttribute(dec, m, numPoints); err != nil {
			return err
		}
	}
	return nil
}

func decodeAttribute(dec *bitstream.DecoderBuffer, m *mesh.Mesh, numPoints int) error {
	kind, err := dec.Byte()
	if err != nil {
		return ErrInvalidFormat
	}
	name, err := dec.String()
	if err != nil {
		return ErrInvalidFormat
	}
	components, err := dec.Byte()
	if err != nil || components == 0 {
		return ErrInvalidFormat
	}
	numValues, err := dec.Uvarint()
	if err != nil {
		return ErrInvalidFormat
	}

	hasPointMap, err := dec.Byte()
	if err != nil {
		return ErrInvalidFormat
	}
	var pointMap []int32
	if hasPointMap == 0 && numValues < uint64(numPoints) {
		return fmt.Errorf("%w: %d values for %d points without point map",
			ErrInvalidFormat, numValues, numPoints)
	}
	if hasPointMap == 1 {
		pointMap = make([]int32, numPoints)
		for p := range pointMap {
			vi, err := dec.Uvarint()
			if err != nil {
				return ErrInvalidFormat
			}
			if vi >= numValues {
				return fmt.Errorf("%w: point %d maps to value %d of %d",
					ErrInvalidFormat, p, vi, numValues)
			}
			pointMap[p] = int32(vi)
		}
	}

	bits, err := dec.Byte()
	if err != nil {
		return ErrInvalidFormat
	}
	var values []float32
	if bits == 0 {
		values = make([]float32, int(numValues)*int(components))
		for j := range values {
			v, err := dec.Float32()
			if err != nil {
				return ErrInvalidFormat
			}
			values[j] = v
		}
	} else {
		values, err = quant.DequantizeValues(dec, int(components), int(numValues))
		if err != nil {
			return fmt.Errorf("meshcodec: %w", err)
		}
	}

	a := mesh.NewAttribute(mesh.AttributeKind(kind), int(components), values)
	a.Name = name
	a.SetPointMap(pointMap)
	m.AddAttribute(a)
	return nil
}
