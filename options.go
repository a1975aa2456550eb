package meshcodec

import "github.com/gogpu/meshcodec/mesh"

// DefaultQuantizationBits is the precision applied to attributes without an
// explicit setting.
const DefaultQuantizationBits = 14

// Option configures an encoding run.
// Use functional options to customize encoder behavior.
//
// Example:
//
//	// Default settings
//	data, err := meshcodec.EncodeMesh(m)
//
//	// Coarser positions, raw normals
//	data, err := meshcodec.EncodeMesh(m,
//	    meshcodec.WithPositionQuantization(11),
//	    meshcodec.WithAttributeQuantization(mesh.Normal, 0))
type Option func(*encodeOptions)

// encodeOptions holds optional configuration for an encoding run.
type encodeOptions struct {
	bits       map[mesh.AttributeKind]int
	sequential bool
}

// defaultEncodeOptions returns the default encoder configuration.
func defaultEncodeOptions() encodeOptions {
	return encodeOptions{bits: map[mesh.AttributeKind]int{}}
}

// quantizationBits returns the configured precision for the given kind.
func (o *encodeOptions) quantizationBits(kind mesh.AttributeKind) int {
	if b, ok := o.bits[kind]; ok {
		return b
	}
	return DefaultQuantizationBits
}

// WithPositionQuantization sets the quantization precision of the position
// attribute. Zero stores raw floats for mesh encoding; point cloud encoding
// always quantizes positions, so zero falls back to the default precision
// there.
func WithPositionQuantization(bits int) Option {
	return WithAttributeQuantization(mesh.Position, bits)
}

// WithAttributeQuantization sets the quantization precision of all
// attributes of the given kind. Zero stores raw floats.
func WithAttributeQuantization(kind mesh.AttributeKind, bits int) Option {
	return func(o *encodeOptions) {
		o.bits[kind] = bits
	}
}

// WithSequentialConnectivity disables triangle strip connectivity encoding
// and stores plain index triples instead. Strips are also abandoned
// automatically, per run, when the mesh's adjacency cannot be built.
func WithSequentialConnectivity() Option {
	return func(o *encodeOptions) {
		o.sequential = true
	}
}
