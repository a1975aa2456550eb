package meshcodec

import "errors"

// Decoding failures reported by [Decode]. Encoding failures are wrapped
// errors from the mesh, quant and kdtree packages.
var (
	// ErrInvalidFormat reports input that is not a meshcodec bitstream or
	// is structurally corrupt.
	ErrInvalidFormat = errors.New("meshcodec: invalid or truncated bitstream")

	// ErrUnsupportedVersion reports a bitstream written by an incompatible
	// library version.
	ErrUnsupportedVersion = errors.New("meshcodec: unsupported bitstream version")
)
