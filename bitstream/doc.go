// Package bitstream provides the low-level byte and bit level buffers used
// by the meshcodec encoders and decoders.
//
// [EncoderBuffer] and [DecoderBuffer] handle byte-aligned little-endian
// scalars, unsigned varints and length-prefixed blobs. [BitWriter] and
// [BitReader] handle LSB-first bit-granular payloads such as the KD-tree
// point codec. All buffers are plain in-memory structures with no
// synchronization; each encoding or decoding run owns its buffers
// exclusively.
package bitstream
