// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gpucontext"
	types "github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/meshcodec/mesh"
)

// RestartIndex is the primitive restart value used in generated index
// buffers: the maximum 32-bit index, the conventional restart value for
// 32-bit index streams.
const RestartIndex uint32 = 0xFFFFFFFF

// ErrNoPositions reports a mesh without position data to upload.
var ErrNoPositions = errors.New("gpu: mesh has no position attribute")

// Device is the subset of a wgpu HAL device needed to allocate strip
// geometry buffers.
type Device interface {
	CreateBuffer(*hal.BufferDescriptor) (hal.Buffer, error)
	DestroyBuffer(hal.Buffer)
}

// DeviceProvider gives access to a host-owned GPU device and queue.
//
// It is an alias for gpucontext.DeviceProvider, so any gogpu-based host can
// hand its device to this package directly.
type DeviceProvider = gpucontext.DeviceProvider

// StripBuffers holds upload-ready triangle strip geometry for one mesh.
type StripBuffers struct {
	// VertexData is the packed position data: three little-endian float32
	// words per point, in point order.
	VertexData []byte
	// IndexData is the strip index stream: little-endian uint32 words,
	// disjoint strips separated by RestartIndex.
	IndexData []byte

	// VertexCount is the number of vertices in VertexData.
	VertexCount int
	// IndexCount is the number of indices in IndexData, separators
	// included.
	IndexCount int
	// NumStrips is the number of independent strips.
	NumStrips int

	// VertexDesc and IndexDesc describe device buffers sized for the data.
	VertexDesc hal.BufferDescriptor
	IndexDesc  hal.BufferDescriptor
}

// BuildStripBuffers generates triangle strips for the mesh and packs them
// into upload-ready buffers. The mesh must carry a position attribute.
func BuildStripBuffers(m *mesh.Mesh) (*StripBuffers, error) {
	pos := m.NamedAttribute(mesh.Position)
	if pos == nil || pos.NumComponents() < 3 {
		return nil, ErrNoPositions
	}

	sf := mesh.NewStripifier()
	var w mesh.IndexSliceWriter
	if err := sf.GenerateWithPrimitiveRestart(m, RestartIndex, &w); err != nil {
		return nil, fmt.Errorf("gpu: %w", err)
	}

	indexData := make([]byte, 4*len(w.Indices))
	for i, v := range w.Indices {
		binary.LittleEndian.PutUint32(indexData[4*i:], v)
	}

	vertexData := make([]byte, 0, 12*m.NumPoints())
	for p := 0; p < m.NumPoints(); p++ {
		v := pos.Vec3(mesh.PointIndex(p))
		for c := 0; c < 3; c++ {
			var word [4]byte
			binary.LittleEndian.PutUint32(word[:], math.Float32bits(v[c]))
			vertexData = append(vertexData, word[:]...)
		}
	}

	return &StripBuffers{
		VertexData:  vertexData,
		IndexData:   indexData,
		VertexCount: m.NumPoints(),
		IndexCount:  len(w.Indices),
		NumStrips:   sf.NumStrips(),
		VertexDesc: hal.BufferDescriptor{
			Label: "meshcodec-strip-vertices",
			Size:  uint64(len(vertexData)),
			Usage: types.BufferUsageVertex | types.BufferUsageCopyDst,
		},
		IndexDesc: hal.BufferDescriptor{
			Label: "meshcodec-strip-indices",
			Size:  uint64(len(indexData)),
			Usage: types.BufferUsageIndex | types.BufferUsageCopyDst,
		},
	}, nil
}

// StripMesh owns the device buffers created for one StripBuffers.
type StripMesh struct {
	Vertices hal.Buffer
	Indices  hal.Buffer

	IndexCount int
	NumStrips  int

	device Device
}

// CreateOn allocates the vertex and index buffers on the device. The
// caller uploads the data through its queue and must Destroy the result
// when done.
func (b *StripBuffers) CreateOn(device Device) (*StripMesh, error) {
	vb, err := device.CreateBuffer(&b.VertexDesc)
	if err != nil {
		return nil, fmt.Errorf("gpu: failed to create vertex buffer: %w", err)
	}
	ib, err := device.CreateBuffer(&b.IndexDesc)
	if err != nil {
		device.DestroyBuffer(vb)
		return nil, fmt.Errorf("gpu: failed to create index buffer: %w", err)
	}
	return &StripMesh{
		Vertices:   vb,
		Indices:    ib,
		IndexCount: b.IndexCount,
		NumStrips:  b.NumStrips,
		device:     device,
	}, nil
}

// Destroy releases the device buffers. Safe to call more than once.
func (sm *StripMesh) Destroy() {
	if sm.device == nil {
		return
	}
	if sm.Vertices != nil {
		sm.device.DestroyBuffer(sm.Vertices)
		sm.Vertices = nil
	}
	if sm.Indices != nil {
		sm.device.DestroyBuffer(sm.Indices)
		sm.Indices = nil
	}
	sm.device = nil
}
