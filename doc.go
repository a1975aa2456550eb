// Package meshcodec compresses 3D geometry (triangle meshes and point
// clouds with float attribute data) into a compact bitstream.
//
// # Overview
//
// The codec separates connectivity from attribute data. Mesh connectivity
// is encoded as triangle strips generated by a greedy longest-strip
// heuristic (see the mesh subpackage); point cloud positions go through a
// KD-tree codec over quantized integer coordinates; attribute values are
// uniformly quantized. The result decodes back into the same data model,
// ready for GPU upload via the gpu subpackage.
//
// # Quick Start
//
//	m := mesh.New(3)
//	m.AddFace(mesh.Face{0, 1, 2})
//	m.AddAttribute(mesh.NewAttribute(mesh.Position, 3, positions))
//
//	data, err := meshcodec.EncodeMesh(m, meshcodec.WithPositionQuantization(14))
//	...
//	decoded, err := meshcodec.Decode(data)
//
// # Architecture
//
// The library is organized into:
//   - Root package: Encode/Decode facade, options, logging
//   - mesh: data model, corner table adjacency, triangle strip generator
//   - bitstream, quant, kdtree: bitstream plumbing and value codecs
//   - gpu: wgpu-ready strip buffer construction
//
// # Fidelity
//
// Mesh connectivity and the point multiset of a point cloud are preserved
// exactly. Attribute values are lossy under quantization (the default);
// raw float storage is available by setting an attribute's precision to
// zero. Point cloud decoding normalizes point order to KD order.
package meshcodec

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// BitstreamVersionMajor is incremented on incompatible format changes.
	BitstreamVersionMajor = 1

	// BitstreamVersionMinor is incremented on backward-compatible changes.
	BitstreamVersionMinor = 0
)
